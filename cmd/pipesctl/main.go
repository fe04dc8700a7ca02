// Command pipesctl manages Amazon EventBridge Pipes.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/pipesctl/internal/cli"
	"github.com/rshade/pipesctl/pkg/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI with args and returns the process exit code. The
// context is cancelled on SIGINT or SIGTERM; a listing stops before its next
// page.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	root.SetArgs(args)
	return cli.ExitCode(root.ExecuteContext(ctx))
}
