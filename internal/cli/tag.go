package cli

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/pipes"
	"github.com/spf13/cobra"

	"github.com/rshade/pipesctl/internal/pipeclient"
	"github.com/rshade/pipesctl/internal/selector"
)

func newTagListCmd(deps Deps) *cobra.Command {
	return newOperationCmd(deps, operation[pipes.ListTagsForResourceInput, pipes.ListTagsForResourceOutput]{
		use:   "list",
		short: "List the tags of a pipe",
		example: `  pipesctl tag list --resource-arn arn:aws:pipes:eu-west-1:123456789012:pipe/orders -o table`,
		name:          "ListTagsForResource",
		fields:        pipeclient.ListTagsFields(),
		defaultSelect: selectTags,
		primary:       pipeclient.ParamResourceARN,
		call: func(ctx context.Context, api pipeclient.API,
			in *pipes.ListTagsForResourceInput,
		) (*pipes.ListTagsForResourceOutput, error) {
			return api.ListTagsForResource(ctx, in)
		},
	})
}

func newTagAddCmd(deps Deps) *cobra.Command {
	return newOperationCmd(deps, operation[pipes.TagResourceInput, pipes.TagResourceOutput]{
		use:   "add",
		short: "Add or overwrite tags on a pipe",
		example: `  pipesctl tag add --resource-arn arn:aws:pipes:eu-west-1:123456789012:pipe/orders --tags team=shop,env=prod`,
		name:          "TagResource",
		fields:        pipeclient.TagResourceFields(),
		defaultSelect: selector.Whole,
		primary:       pipeclient.ParamResourceARN,
		mutating:      true,
		call: func(ctx context.Context, api pipeclient.API, in *pipes.TagResourceInput) (*pipes.TagResourceOutput, error) {
			return api.TagResource(ctx, in)
		},
	})
}

func newTagRemoveCmd(deps Deps) *cobra.Command {
	return newOperationCmd(deps, operation[pipes.UntagResourceInput, pipes.UntagResourceOutput]{
		use:   "remove",
		short: "Remove tags from a pipe",
		example: `  pipesctl tag remove --resource-arn arn:aws:pipes:eu-west-1:123456789012:pipe/orders --tag-keys env`,
		name:          "UntagResource",
		fields:        pipeclient.UntagResourceFields(),
		defaultSelect: selector.Whole,
		primary:       pipeclient.ParamResourceARN,
		mutating:      true,
		call: func(ctx context.Context, api pipeclient.API, in *pipes.UntagResourceInput) (*pipes.UntagResourceOutput, error) {
			return api.UntagResource(ctx, in)
		},
	})
}
