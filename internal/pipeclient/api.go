// Package pipeclient wraps the EventBridge Pipes SDK client: the operations
// pipesctl calls, client construction, and the field catalogs that map CLI
// flags onto request members.
package pipeclient

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/pipes"
)

// Lister lists pipes one page at a time.
type Lister interface {
	ListPipes(ctx context.Context, params *pipes.ListPipesInput,
		optFns ...func(*pipes.Options)) (*pipes.ListPipesOutput, error)
}

// Describer reads a single pipe.
type Describer interface {
	DescribePipe(ctx context.Context, params *pipes.DescribePipeInput,
		optFns ...func(*pipes.Options)) (*pipes.DescribePipeOutput, error)
}

// Mutator changes pipe definitions and state.
type Mutator interface {
	CreatePipe(ctx context.Context, params *pipes.CreatePipeInput,
		optFns ...func(*pipes.Options)) (*pipes.CreatePipeOutput, error)
	UpdatePipe(ctx context.Context, params *pipes.UpdatePipeInput,
		optFns ...func(*pipes.Options)) (*pipes.UpdatePipeOutput, error)
	DeletePipe(ctx context.Context, params *pipes.DeletePipeInput,
		optFns ...func(*pipes.Options)) (*pipes.DeletePipeOutput, error)
	StartPipe(ctx context.Context, params *pipes.StartPipeInput,
		optFns ...func(*pipes.Options)) (*pipes.StartPipeOutput, error)
	StopPipe(ctx context.Context, params *pipes.StopPipeInput,
		optFns ...func(*pipes.Options)) (*pipes.StopPipeOutput, error)
}

// Tagger manages resource tags.
type Tagger interface {
	ListTagsForResource(ctx context.Context, params *pipes.ListTagsForResourceInput,
		optFns ...func(*pipes.Options)) (*pipes.ListTagsForResourceOutput, error)
	TagResource(ctx context.Context, params *pipes.TagResourceInput,
		optFns ...func(*pipes.Options)) (*pipes.TagResourceOutput, error)
	UntagResource(ctx context.Context, params *pipes.UntagResourceInput,
		optFns ...func(*pipes.Options)) (*pipes.UntagResourceOutput, error)
}

// API is every operation pipesctl invokes. *pipes.Client satisfies it; tests
// substitute a fake.
type API interface {
	Lister
	Describer
	Mutator
	Tagger
}

var _ API = (*pipes.Client)(nil)
