// Package pagination drives token-paginated list operations and parses the
// iteration flags shared by list commands.
//
// This package contains:
//   - Driver: a lazy page iterator over a fetch function
//   - State: the per-invocation iteration state (token, phase, page count)
//   - IterationParams: --next-token, --no-auto-iteration and --resume parsing
//   - Summary: iteration metadata recorded with each invocation
//
// Pages are yielded in service order, one request per page, and a page is
// always handed to the caller before the next request is issued.
package pagination
