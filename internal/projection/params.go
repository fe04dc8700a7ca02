package projection

// Param is a single named parameter.
type Param struct {
	Name  string `json:"name"`
	Value any    `json:"value,omitempty"`
	// Bound is true iff the caller supplied the parameter, whatever its value.
	Bound bool `json:"bound"`
}

// ParameterSet is an ordered collection of parameters. Declaration order is
// preserved so that projection output is deterministic.
type ParameterSet struct {
	order  []string
	params map[string]*Param
}

// NewParameterSet creates an empty ParameterSet.
func NewParameterSet() *ParameterSet {
	return &ParameterSet{params: make(map[string]*Param)}
}

// Declare adds an unbound parameter. Declaring an existing name is a no-op.
func (s *ParameterSet) Declare(name string) {
	if _, ok := s.params[name]; ok {
		return
	}
	s.order = append(s.order, name)
	s.params[name] = &Param{Name: name}
}

// Bind records a caller-supplied value, declaring the parameter if needed.
// A nil, empty or zero value is still bound.
func (s *ParameterSet) Bind(name string, value any) {
	s.Declare(name)
	p := s.params[name]
	p.Value = value
	p.Bound = true
}

// Unbind clears a parameter back to its unbound state.
func (s *ParameterSet) Unbind(name string) {
	if p, ok := s.params[name]; ok {
		p.Value = nil
		p.Bound = false
	}
}

// Lookup returns the named parameter and whether it was declared.
func (s *ParameterSet) Lookup(name string) (Param, bool) {
	p, ok := s.params[name]
	if !ok {
		return Param{}, false
	}
	return *p, true
}

// IsBound reports whether the named parameter was supplied by the caller.
func (s *ParameterSet) IsBound(name string) bool {
	p, ok := s.params[name]
	return ok && p.Bound
}

// Value returns the bound value of the named parameter, or nil if unbound.
func (s *ParameterSet) Value(name string) any {
	p, ok := s.params[name]
	if !ok || !p.Bound {
		return nil
	}
	return p.Value
}

// Names returns all declared parameter names in declaration order.
func (s *ParameterSet) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// BoundParams returns the bound parameters in declaration order.
func (s *ParameterSet) BoundParams() []Param {
	out := make([]Param, 0, len(s.order))
	for _, name := range s.order {
		if p := s.params[name]; p.Bound {
			out = append(out, *p)
		}
	}
	return out
}

// BoundMap returns the bound parameters keyed by name.
func (s *ParameterSet) BoundMap() map[string]any {
	out := make(map[string]any)
	for _, p := range s.BoundParams() {
		out[p.Name] = p.Value
	}
	return out
}

// Len returns the number of declared parameters.
func (s *ParameterSet) Len() int {
	return len(s.order)
}
