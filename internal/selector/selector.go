// Package selector resolves the --select flag into the value a command emits.
//
// A selector is resolved once, before any request is sent, into one of three
// forms: the whole response ("*"), a named response field ("Pipes" or a dotted
// path such as "Pipes.#.Name"), or the bind-time value of an input parameter
// ("^Name"). Resolution fails fast with an apierr.ConfigurationError.
package selector

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"

	"github.com/rshade/pipesctl/internal/apierr"
	"github.com/rshade/pipesctl/internal/projection"
)

// Selector spec syntax.
const (
	// Whole selects the entire response.
	Whole = "*"
	// ParamPrefix marks a selector that emits an input parameter.
	ParamPrefix = "^"
)

// Kind is the resolved selector form.
type Kind int

// Selector kinds.
const (
	KindWhole Kind = iota
	KindField
	KindParam
)

func (k Kind) String() string {
	switch k {
	case KindWhole:
		return "whole"
	case KindField:
		return "field"
	case KindParam:
		return "param"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Options carries everything Resolve needs.
type Options struct {
	// Spec is the --select value.
	Spec string
	// Explicit is true when the caller set --select on the command line.
	Explicit bool
	// Default is the command's default selector.
	Default string
	// PassThru is the deprecated --pass-thru flag.
	PassThru bool
	// Primary is the parameter emitted by --pass-thru, e.g. "Name".
	Primary string
	// Response is the response type; pointer types are dereferenced.
	Response reflect.Type
	// Params is the invocation's parameter set.
	Params *projection.ParameterSet
}

// Selector is an immutable, resolved output selector.
type Selector struct {
	kind Kind
	spec string
	// field is the canonical top-level field name for KindField.
	field string
	// path is the remaining gjson path below field, if any.
	path  string
	param string
	value any
}

// Resolve validates opts and returns the selector it describes.
func Resolve(opts Options) (Selector, error) {
	spec := opts.Spec
	if !opts.Explicit && spec == "" {
		spec = opts.Default
	}

	if opts.PassThru {
		if opts.Explicit && spec != opts.Default {
			return Selector{}, apierr.Configf(
				"--pass-thru cannot be combined with --select %q; use --select %s%s instead",
				spec, ParamPrefix, opts.Primary)
		}
		spec = ParamPrefix + opts.Primary
	}

	switch {
	case spec == Whole:
		return Selector{kind: KindWhole, spec: spec}, nil
	case strings.HasPrefix(spec, ParamPrefix):
		return resolveParam(spec, opts.Params)
	case spec == "":
		return Selector{}, apierr.Configf("--select cannot be empty")
	default:
		return resolveField(spec, opts.Response)
	}
}

func resolveParam(spec string, params *projection.ParameterSet) (Selector, error) {
	name := strings.TrimPrefix(spec, ParamPrefix)
	if params == nil {
		return Selector{}, apierr.Configf("--select %s: no input parameters are available", spec)
	}

	p, ok := params.Lookup(name)
	if !ok {
		return Selector{}, apierr.Configf("--select %s: unknown parameter %q (available: %s)",
			spec, name, strings.Join(params.Names(), ", "))
	}

	return Selector{kind: KindParam, spec: spec, param: p.Name, value: params.Value(p.Name)}, nil
}

func resolveField(spec string, response reflect.Type) (Selector, error) {
	if response == nil {
		return Selector{}, apierr.Configf("--select %s: response shape is unknown", spec)
	}
	for response.Kind() == reflect.Pointer {
		response = response.Elem()
	}
	if response.Kind() != reflect.Struct {
		return Selector{}, apierr.Configf("--select %s: response %s has no fields", spec, response)
	}

	head, rest, _ := strings.Cut(spec, ".")
	fold := cases.Fold()
	want := fold.String(head)

	for i := range response.NumField() {
		f := response.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if fold.String(f.Name) == want {
			return Selector{kind: KindField, spec: spec, field: f.Name, path: rest}, nil
		}
	}

	return Selector{}, apierr.Configf("--select %s: response %s has no field %q (available: %s)",
		spec, response.Name(), head, strings.Join(fieldNames(response), ", "))
}

func fieldNames(t reflect.Type) []string {
	var names []string
	for i := range t.NumField() {
		f := t.Field(i)
		if f.IsExported() && !f.Anonymous && f.Name != "ResultMetadata" {
			names = append(names, f.Name)
		}
	}
	return names
}

// Kind returns the resolved selector form.
func (s Selector) Kind() Kind {
	return s.kind
}

// String returns the normalized selector spec.
func (s Selector) String() string {
	return s.spec
}

// Field returns the canonical field name for a field selector.
func (s Selector) Field() string {
	return s.field
}

// NeedsResponse reports whether Select reads the response at all.
func (s Selector) NeedsResponse() bool {
	return s.kind != KindParam
}

// Select applies the selector to a response.
func (s Selector) Select(resp any) (any, error) {
	switch s.kind {
	case KindWhole:
		return resp, nil
	case KindParam:
		return s.value, nil
	case KindField:
		v := reflect.ValueOf(resp)
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return nil, nil
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return nil, fmt.Errorf("selecting %s from %T: not a struct", s.spec, resp)
		}

		fv := v.FieldByName(s.field)
		if !fv.IsValid() {
			return nil, fmt.Errorf("selecting %s from %T: no such field", s.spec, resp)
		}
		if s.path == "" {
			return fv.Interface(), nil
		}
		return selectPath(fv.Interface(), s.path)
	default:
		return nil, fmt.Errorf("unknown selector kind %s", s.kind)
	}
}

// selectPath evaluates a gjson path over the JSON form of v.
func selectPath(v any, path string) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding value for path %s: %w", path, err)
	}
	res := gjson.GetBytes(raw, path)
	if !res.Exists() {
		return nil, nil
	}
	return res.Value(), nil
}
