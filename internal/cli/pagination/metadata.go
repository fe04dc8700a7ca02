package pagination

// Summary contains metadata about a finished pagination loop.
type Summary struct {
	Pages     int    `json:"pages"                yaml:"pages"`
	NextToken string `json:"next_token,omitempty" yaml:"next_token,omitempty"`
	HasMore   bool   `json:"has_more"             yaml:"has_more"`
	Manual    bool   `json:"manual"               yaml:"manual"`
	Phase     string `json:"phase"                yaml:"phase"`
}

// NewSummary creates pagination metadata from a loop's final state.
func NewSummary(st *State) Summary {
	s := Summary{
		Pages:   st.Pages,
		HasMore: st.HasMore(),
		Manual:  st.Manual,
		Phase:   st.Phase.String(),
	}
	if st.Token != nil {
		s.NextToken = *st.Token
	}
	return s
}
