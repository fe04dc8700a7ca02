package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pipes"
	"github.com/aws/aws-sdk-go-v2/service/pipes/types"
	"github.com/aws/smithy-go"

	"github.com/rshade/pipesctl/internal/cli"
	"github.com/rshade/pipesctl/internal/config"
	"github.com/rshade/pipesctl/internal/pipeclient"
)

// fakeAPI records every request. Methods pipesctl tests do not exercise fall
// through to the nil embedded interface and panic.
type fakeAPI struct {
	pipeclient.API

	// pages maps a request token ("" for the first request) to its response.
	pages map[string]*pipes.ListPipesOutput
	// failOn makes the request with this token fail with err.
	failOn string
	err    error
	// afterCall runs after every successful ListPipes call.
	afterCall func()
	// cancelOn cancels the invocation while the request with this token is
	// in flight.
	cancelOn string
	cancel   func()

	opts pipeclient.ClientOptions

	listCalls     []*pipes.ListPipesInput
	describeCalls []*pipes.DescribePipeInput
	updateCalls   []*pipes.UpdatePipeInput
	deleteCalls   []*pipes.DeletePipeInput
	stopCalls     []*pipes.StopPipeInput
	tagCalls      []*pipes.TagResourceInput
	listTagCalls  []*pipes.ListTagsForResourceInput
}

func (f *fakeAPI) ListPipes(ctx context.Context, in *pipes.ListPipesInput,
	_ ...func(*pipes.Options),
) (*pipes.ListPipesOutput, error) {
	f.listCalls = append(f.listCalls, in)
	token := aws.ToString(in.NextToken)
	if f.cancel != nil && token == f.cancelOn {
		f.cancel()
		return nil, &smithy.OperationError{ServiceID: "Pipes", OperationName: "ListPipes", Err: ctx.Err()}
	}
	if f.err != nil && token == f.failOn {
		return nil, f.err
	}
	out, ok := f.pages[token]
	if !ok {
		out = &pipes.ListPipesOutput{}
	}
	if f.afterCall != nil {
		f.afterCall()
	}
	return out, nil
}

func (f *fakeAPI) DescribePipe(_ context.Context, in *pipes.DescribePipeInput,
	_ ...func(*pipes.Options),
) (*pipes.DescribePipeOutput, error) {
	f.describeCalls = append(f.describeCalls, in)
	if f.err != nil {
		return nil, f.err
	}
	return &pipes.DescribePipeOutput{
		Name:         in.Name,
		CurrentState: types.PipeStateRunning,
		DesiredState: types.RequestedPipeStateDescribeResponseRunning,
	}, nil
}

func (f *fakeAPI) UpdatePipe(_ context.Context, in *pipes.UpdatePipeInput,
	_ ...func(*pipes.Options),
) (*pipes.UpdatePipeOutput, error) {
	f.updateCalls = append(f.updateCalls, in)
	return &pipes.UpdatePipeOutput{Name: in.Name, CurrentState: types.PipeStateUpdating}, nil
}

func (f *fakeAPI) DeletePipe(_ context.Context, in *pipes.DeletePipeInput,
	_ ...func(*pipes.Options),
) (*pipes.DeletePipeOutput, error) {
	f.deleteCalls = append(f.deleteCalls, in)
	return &pipes.DeletePipeOutput{Name: in.Name, CurrentState: types.PipeStateDeleting}, nil
}

func (f *fakeAPI) StopPipe(_ context.Context, in *pipes.StopPipeInput,
	_ ...func(*pipes.Options),
) (*pipes.StopPipeOutput, error) {
	f.stopCalls = append(f.stopCalls, in)
	if f.err != nil {
		return nil, f.err
	}
	return &pipes.StopPipeOutput{Name: in.Name, CurrentState: types.PipeStateStopping}, nil
}

func (f *fakeAPI) TagResource(_ context.Context, in *pipes.TagResourceInput,
	_ ...func(*pipes.Options),
) (*pipes.TagResourceOutput, error) {
	f.tagCalls = append(f.tagCalls, in)
	return &pipes.TagResourceOutput{}, nil
}

func (f *fakeAPI) ListTagsForResource(_ context.Context, in *pipes.ListTagsForResourceInput,
	_ ...func(*pipes.Options),
) (*pipes.ListTagsForResourceOutput, error) {
	f.listTagCalls = append(f.listTagCalls, in)
	return &pipes.ListTagsForResourceOutput{
		Tags: map[string]string{"team": "shop", "env": "prod"},
	}, nil
}

// chain returns a fake with the pages "" -> t1 -> t2 -> "", holding one pipe
// each.
func chain() *fakeAPI {
	page := func(name, next string) *pipes.ListPipesOutput {
		out := &pipes.ListPipesOutput{
			Pipes: []types.Pipe{{Name: aws.String(name), CurrentState: types.PipeStateRunning}},
		}
		if next != "" {
			out.NextToken = aws.String(next)
		}
		return out
	}
	return &fakeAPI{pages: map[string]*pipes.ListPipesOutput{
		"":   page("alpha", "t1"),
		"t1": page("bravo", "t2"),
		"t2": page("charlie", ""),
	}}
}

// listTokens returns the NextToken of every ListPipes request, "" for nil.
func (f *fakeAPI) listTokens() []string {
	tokens := make([]string, len(f.listCalls))
	for i, c := range f.listCalls {
		tokens[i] = aws.ToString(c.NextToken)
	}
	return tokens
}

// isolate points configuration and history at a temporary directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	for _, env := range []string{
		config.EnvProjectDir, config.EnvOutput, config.EnvRegion,
		config.EnvNoHistory, config.EnvLogFormat,
	} {
		t.Setenv(env, "")
	}
	t.Setenv(config.EnvLogLevel, "error")
	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	})
	return home
}

type result struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes pipesctl in-process against api.
func runCLI(ctx context.Context, api *fakeAPI, stdin string, args ...string) result {
	deps := cli.Deps{
		NewClient: func(_ context.Context, opts pipeclient.ClientOptions) (*pipeclient.Client, error) {
			api.opts = opts
			return &pipeclient.Client{API: api, Region: opts.Region, Endpoint: "pipes.test.amazonaws.com"}, nil
		},
	}

	var stdout, stderr bytes.Buffer
	root := cli.NewRootCmdWithDeps("test", deps)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
