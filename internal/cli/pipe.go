package cli

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/pipes"
	"github.com/spf13/cobra"

	"github.com/rshade/pipesctl/internal/pipeclient"
	"github.com/rshade/pipesctl/internal/selector"
)

// Default selectors.
const (
	selectPipes = "Pipes"
	selectTags  = "Tags"
)

func newPipeListCmd(deps Deps) *cobra.Command {
	return newOperationCmd(deps, operation[pipes.ListPipesInput, pipes.ListPipesOutput]{
		use:   "list",
		short: "List pipes",
		long: `Lists pipes, following next-tokens until the listing is complete.

Each page is printed as soon as it arrives. With --no-auto-iteration a single
page is fetched and any remaining next-token is printed to stderr; --resume
continues from the token the previous listing left behind.`,
		example: `  # List every pipe
  pipesctl pipe list

  # Only running pipes whose name starts with "orders"
  pipesctl pipe list --name-prefix orders --current-state RUNNING

  # Pipe names only, one page of ten at a time
  pipesctl pipe list --limit 10 --no-auto-iteration --select Pipes.#.Name`,
		name:          "ListPipes",
		fields:        pipeclient.ListPipesFields(),
		defaultSelect: selectPipes,
		call: func(ctx context.Context, api pipeclient.API, in *pipes.ListPipesInput) (*pipes.ListPipesOutput, error) {
			return api.ListPipes(ctx, in)
		},
		nextToken: func(out *pipes.ListPipesOutput) *string { return out.NextToken },
		setToken:  func(in *pipes.ListPipesInput, token *string) { in.NextToken = token },
	})
}

func newPipeDescribeCmd(deps Deps) *cobra.Command {
	return newOperationCmd(deps, operation[pipes.DescribePipeInput, pipes.DescribePipeOutput]{
		use:   "describe",
		short: "Show a pipe's full definition",
		example: `  # Describe by name or ARN
  pipesctl pipe describe --name orders
  pipesctl pipe describe --name arn:aws:pipes:eu-west-1:123456789012:pipe/orders

  # Only the current state
  pipesctl pipe describe --name orders --select CurrentState`,
		name:          "DescribePipe",
		fields:        pipeclient.NameOnlyFields(),
		defaultSelect: selector.Whole,
		primary:       pipeclient.ParamName,
		call: func(ctx context.Context, api pipeclient.API, in *pipes.DescribePipeInput) (*pipes.DescribePipeOutput, error) {
			return api.DescribePipe(ctx, in)
		},
	})
}

func newPipeCreateCmd(deps Deps) *cobra.Command {
	return newOperationCmd(deps, operation[pipes.CreatePipeInput, pipes.CreatePipeOutput]{
		use:   "create",
		short: "Create a pipe",
		long: `Creates a pipe from a source to a target.

Only the flags given on the command line are sent. Nested source, enrichment,
target and log settings are flattened into prefixed flags such as
--source-sqs-batch-size and --target-sqs-message-group-id.`,
		example: `  pipesctl pipe create --name orders \
    --role-arn arn:aws:iam::123456789012:role/pipes \
    --source arn:aws:sqs:eu-west-1:123456789012:orders \
    --target arn:aws:events:eu-west-1:123456789012:event-bus/default \
    --source-sqs-batch-size 5 --source-filter-pattern '{"source":["shop"]}'`,
		name:          "CreatePipe",
		fields:        pipeclient.CreatePipeFields(),
		defaultSelect: selector.Whole,
		primary:       pipeclient.ParamName,
		mutating:      true,
		call: func(ctx context.Context, api pipeclient.API, in *pipes.CreatePipeInput) (*pipes.CreatePipeOutput, error) {
			return api.CreatePipe(ctx, in)
		},
	})
}

func newPipeUpdateCmd(deps Deps) *cobra.Command {
	return newOperationCmd(deps, operation[pipes.UpdatePipeInput, pipes.UpdatePipeOutput]{
		use:   "update",
		short: "Update a pipe",
		long: `Updates a pipe. Settings whose flags are not given are left out of the
request entirely, so the service keeps their current values.`,
		example: `  # Change only the description
  pipesctl pipe update --name orders --role-arn arn:aws:iam::123456789012:role/pipes --description "orders fan-out"

  # Change the SQS batch size without touching anything else
  pipesctl pipe update --name orders --role-arn arn:aws:iam::123456789012:role/pipes --source-sqs-batch-size 10 -f`,
		name:          "UpdatePipe",
		fields:        pipeclient.UpdatePipeFields(),
		defaultSelect: selector.Whole,
		primary:       pipeclient.ParamName,
		mutating:      true,
		call: func(ctx context.Context, api pipeclient.API, in *pipes.UpdatePipeInput) (*pipes.UpdatePipeOutput, error) {
			return api.UpdatePipe(ctx, in)
		},
	})
}

func newPipeDeleteCmd(deps Deps) *cobra.Command {
	return newOperationCmd(deps, operation[pipes.DeletePipeInput, pipes.DeletePipeOutput]{
		use:           "delete",
		short:         "Delete a pipe",
		example:       `  pipesctl pipe delete --name orders --force`,
		name:          "DeletePipe",
		fields:        pipeclient.NameOnlyFields(),
		defaultSelect: selector.Whole,
		primary:       pipeclient.ParamName,
		mutating:      true,
		call: func(ctx context.Context, api pipeclient.API, in *pipes.DeletePipeInput) (*pipes.DeletePipeOutput, error) {
			return api.DeletePipe(ctx, in)
		},
	})
}

func newPipeStartCmd(deps Deps) *cobra.Command {
	return newOperationCmd(deps, operation[pipes.StartPipeInput, pipes.StartPipeOutput]{
		use:           "start",
		short:         "Start a stopped pipe",
		example:       `  pipesctl pipe start --name orders`,
		name:          "StartPipe",
		fields:        pipeclient.NameOnlyFields(),
		defaultSelect: selector.Whole,
		primary:       pipeclient.ParamName,
		mutating:      true,
		call: func(ctx context.Context, api pipeclient.API, in *pipes.StartPipeInput) (*pipes.StartPipeOutput, error) {
			return api.StartPipe(ctx, in)
		},
	})
}

func newPipeStopCmd(deps Deps) *cobra.Command {
	return newOperationCmd(deps, operation[pipes.StopPipeInput, pipes.StopPipeOutput]{
		use:   "stop",
		short: "Stop a running pipe",
		example: `  # Stop without prompting and print the pipe name
  pipesctl pipe stop --name orders --force --select ^Name`,
		name:          "StopPipe",
		fields:        pipeclient.NameOnlyFields(),
		defaultSelect: selector.Whole,
		primary:       pipeclient.ParamName,
		mutating:      true,
		call: func(ctx context.Context, api pipeclient.API, in *pipes.StopPipeInput) (*pipes.StopPipeOutput, error) {
			return api.StopPipe(ctx, in)
		},
	})
}
