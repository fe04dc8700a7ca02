package invocation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rshade/pipesctl/internal/projection"
)

// Context is the state of one invocation. It is created by the command
// runner, never shared between invocations, and not safe for concurrent use.
type Context struct {
	ID        string
	TraceID   string
	Command   string
	Operation string
	Selector  string
	StartedAt time.Time

	Params       []projection.Param
	LastResponse any
	Pages        int
	NextToken    *string
	Declined     bool
	Err          error
}

// New starts the context of an invocation of operation.
func New(command, operation, traceID string) *Context {
	return &Context{
		ID:        ulid.Make().String(),
		TraceID:   traceID,
		Command:   command,
		Operation: operation,
		StartedAt: time.Now().UTC(),
	}
}

// BindParams records the bound members of set.
func (c *Context) BindParams(set *projection.ParameterSet) {
	c.Params = set.BoundParams()
}

// RecordPage records one successful response and the token it returned.
func (c *Context) RecordPage(resp any, next *string) {
	c.Pages++
	c.LastResponse = resp
	c.NextToken = next
}

// Fail records the terminal error.
func (c *Context) Fail(err error) {
	c.Err = err
}

// Decline records that the user refused the confirmation prompt.
func (c *Context) Decline() {
	c.Declined = true
}

// Succeeded reports whether the invocation finished without error.
func (c *Context) Succeeded() bool {
	return c.Err == nil && !c.Declined
}

// Record is the persisted form of a Context.
type Record struct {
	ID         string          `json:"id"`
	TraceID    string          `json:"trace_id,omitempty"`
	Command    string          `json:"command"`
	Operation  string          `json:"operation"`
	Selector   string          `json:"selector,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	DurationMS int64           `json:"duration_ms"`
	Params     map[string]any  `json:"params,omitempty"`
	Pages      int             `json:"pages"`
	NextToken  string          `json:"next_token,omitempty"`
	Response   json.RawMessage `json:"response,omitempty"`
	Declined   bool            `json:"declined,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// Snapshot converts c into a Record.
func (c *Context) Snapshot() (*Record, error) {
	rec := &Record{
		ID:         c.ID,
		TraceID:    c.TraceID,
		Command:    c.Command,
		Operation:  c.Operation,
		Selector:   c.Selector,
		StartedAt:  c.StartedAt,
		DurationMS: time.Since(c.StartedAt).Milliseconds(),
		Pages:      c.Pages,
		Declined:   c.Declined,
	}

	if len(c.Params) > 0 {
		rec.Params = make(map[string]any, len(c.Params))
		for _, p := range c.Params {
			rec.Params[p.Name] = p.Value
		}
	}
	if c.NextToken != nil {
		rec.NextToken = *c.NextToken
	}
	if c.Err != nil {
		rec.Error = c.Err.Error()
	}
	if c.LastResponse != nil {
		raw, err := json.Marshal(c.LastResponse)
		if err != nil {
			return nil, fmt.Errorf("encoding response of %s: %w", c.Operation, err)
		}
		rec.Response = raw
	}
	return rec, nil
}
