package pagination

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

// Phase is the position of a pagination loop.
type Phase int

// Pagination phases. A loop moves Fetching -> EmitPage -> (Fetching | Done),
// and any failed request moves it to Failed.
const (
	PhaseFetching Phase = iota
	PhaseEmitPage
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseFetching:
		return "fetching"
	case PhaseEmitPage:
		return "emit-page"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// ErrDriverMisconfigured is returned when a Driver has no fetch or token function.
var ErrDriverMisconfigured = errors.New("pagination driver requires fetch and next-token functions")

// State is the iteration state of one invocation. Token holds the token for
// the next request; after the loop ends it holds the token the service
// returned last, which is nil when the listing is exhausted.
type State struct {
	Token  *string
	Manual bool
	Phase  Phase
	Pages  int
	Err    error
}

// NewState creates the state for one invocation.
func NewState(start *string, manual bool) *State {
	return &State{Token: normalize(start), Manual: manual, Phase: PhaseFetching}
}

// HasMore reports whether the service indicated further pages.
func (s *State) HasMore() bool {
	return s.Token != nil
}

// Page is one response yielded by the driver.
type Page[Out any] struct {
	// Number is 1-based.
	Number    int
	Response  *Out
	NextToken *string
}

// FetchFunc issues one request with the given continuation token. It must not
// mutate shared request state; the usual implementation copies the projected
// request and sets the token on the copy.
type FetchFunc[Out any] func(ctx context.Context, token *string) (*Out, error)

// TokenFunc extracts the continuation token from a response.
type TokenFunc[Out any] func(*Out) *string

// Driver repeatedly fetches pages until the token is exhausted, the caller
// stops ranging, manual control is on, or the context is cancelled.
type Driver[Out any] struct {
	fetch FetchFunc[Out]
	next  TokenFunc[Out]
}

// NewDriver creates a Driver.
func NewDriver[Out any](fetch FetchFunc[Out], next TokenFunc[Out]) *Driver[Out] {
	return &Driver[Out]{fetch: fetch, next: next}
}

// InterruptedError reports a loop stopped by context cancellation, either
// between pages or during a request. NextToken is the token of the request
// that was not completed.
type InterruptedError struct {
	NextToken *string
	Pages     int
	Err       error
}

func (e *InterruptedError) Error() string {
	if e.NextToken == nil {
		return fmt.Sprintf("interrupted after %d page(s): %v", e.Pages, e.Err)
	}
	return fmt.Sprintf("interrupted after %d page(s); resume with --next-token %s: %v",
		e.Pages, *e.NextToken, e.Err)
}

func (e *InterruptedError) Unwrap() error {
	return e.Err
}

// Pages returns a lazy iterator over the pages of one invocation. Each
// iteration issues exactly one request, and the page is yielded before the
// next request is issued. A failed request yields its error once and ends the
// loop. st is updated in place so the caller can inspect it afterwards.
func (d *Driver[Out]) Pages(ctx context.Context, st *State) iter.Seq2[*Page[Out], error] {
	return func(yield func(*Page[Out], error) bool) {
		if d.fetch == nil || d.next == nil {
			st.Phase = PhaseFailed
			st.Err = ErrDriverMisconfigured
			yield(nil, st.Err)
			return
		}

		for {
			st.Phase = PhaseFetching
			if err := ctx.Err(); err != nil {
				st.Phase = PhaseFailed
				st.Err = &InterruptedError{NextToken: st.Token, Pages: st.Pages, Err: err}
				yield(nil, st.Err)
				return
			}

			resp, err := d.fetch(ctx, st.Token)
			if err != nil {
				st.Phase = PhaseFailed
				st.Err = err
				if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
					// Cancelled mid-request; the same token fetches the page again.
					st.Err = &InterruptedError{NextToken: st.Token, Pages: st.Pages, Err: err}
				}
				yield(nil, st.Err)
				return
			}

			st.Pages++
			st.Token = normalize(d.next(resp))
			st.Phase = PhaseEmitPage

			page := &Page[Out]{Number: st.Pages, Response: resp, NextToken: st.Token}
			if !yield(page, nil) {
				st.Phase = PhaseDone
				return
			}

			if st.Manual || st.Token == nil {
				st.Phase = PhaseDone
				return
			}
		}
	}
}

// normalize maps an empty token to nil.
func normalize(token *string) *string {
	if token == nil || *token == "" {
		return nil
	}
	t := *token
	return &t
}
