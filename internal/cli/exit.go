package cli

import (
	"context"
	"errors"

	"github.com/rshade/pipesctl/internal/apierr"
	"github.com/rshade/pipesctl/internal/cli/pagination"
)

// Process exit codes.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitConfiguration = 2
	ExitInterrupted   = 130
)

// ExitCode maps an invocation error onto the process exit code.
func ExitCode(err error) int {
	var interrupted *pagination.InterruptedError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &interrupted), errors.Is(err, context.Canceled):
		return ExitInterrupted
	case apierr.IsConfiguration(err):
		return ExitConfiguration
	default:
		return ExitFailure
	}
}
