package pagination

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rshade/pipesctl/internal/apierr"
)

// Iteration flag names.
const (
	FlagNextToken       = "next-token"
	FlagNoAutoIteration = "no-auto-iteration"
	FlagResume          = "resume"
)

// Common validation errors.
var (
	ErrResumeWithToken = errors.New("--resume and --next-token are mutually exclusive")
	ErrNothingToResume = errors.New("no previous listing left a next-token to resume from")
)

// IterationParams holds the iteration flags of a list command.
type IterationParams struct {
	// NextToken starts the listing from a token returned by an earlier call.
	NextToken string

	// NoAutoIteration issues exactly one request.
	NoAutoIteration bool

	// Resume starts from the token recorded by the previous invocation.
	Resume bool
}

// AddFlags registers the iteration flags on cmd.
func AddFlags(cmd *cobra.Command, p *IterationParams) {
	cmd.Flags().StringVar(&p.NextToken, FlagNextToken, "",
		"Start from a token returned by a previous listing")
	cmd.Flags().BoolVar(&p.NoAutoIteration, FlagNoAutoIteration, false,
		"Fetch a single page instead of following next-tokens")
	cmd.Flags().BoolVar(&p.Resume, FlagResume, false,
		"Continue from the next-token recorded by the previous listing")
}

// Validate checks that the iteration flags are consistent (value receiver).
func (p IterationParams) Validate() error {
	if p.Resume && p.NextToken != "" {
		return apierr.ConfigWrap(ErrResumeWithToken)
	}
	return nil
}

// StartToken returns the token of the first request. recorded is the
// next-token of the previous invocation and is consulted only with --resume.
func (p IterationParams) StartToken(recorded *string) (*string, error) {
	if p.Resume {
		token := normalize(recorded)
		if token == nil {
			return nil, apierr.ConfigWrap(ErrNothingToResume)
		}
		return token, nil
	}
	return normalize(&p.NextToken), nil
}

// NewRunState creates the iteration state for these flags.
func (p IterationParams) NewRunState(start *string) *State {
	return NewState(start, p.NoAutoIteration)
}
