package cli

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/rshade/pipesctl/internal/apierr"
	"github.com/rshade/pipesctl/internal/awsutil"
	"github.com/rshade/pipesctl/internal/cli/pagination"
	"github.com/rshade/pipesctl/internal/config"
	"github.com/rshade/pipesctl/internal/invocation"
	"github.com/rshade/pipesctl/internal/logging"
	"github.com/rshade/pipesctl/internal/pipeclient"
	"github.com/rshade/pipesctl/internal/projection"
	"github.com/rshade/pipesctl/internal/selector"
)

// Operation flag names.
const (
	flagSelect   = "select"
	flagForce    = "force"
	flagPassThru = "pass-thru"
)

// pipeResourceType is the resource type segment of a pipe ARN.
const pipeResourceType = "pipe"

// operation describes a command backed by one Pipes RPC.
type operation[In, Out any] struct {
	use     string
	short   string
	long    string
	example string

	// name is the RPC name, e.g. "ListPipes".
	name   string
	fields []projection.Field
	// defaultSelect is the --select value when the flag is not given.
	defaultSelect string
	// primary is the parameter --pass-thru emits and the confirmation target.
	primary string
	// mutating operations prompt for confirmation and are audited.
	mutating bool

	call func(ctx context.Context, api pipeclient.API, in *In) (*Out, error)

	// Set for paginated operations only.
	nextToken pagination.TokenFunc[Out]
	setToken  func(in *In, token *string)
}

func (op operation[In, Out]) paginated() bool {
	return op.nextToken != nil && op.setToken != nil
}

// operationFlags holds the flags every operation command shares.
type operationFlags struct {
	selectSpec string
	force      bool
	passThru   bool
	iteration  pagination.IterationParams
}

// newOperationCmd builds the cobra command for op: one flag per catalog field
// plus --select, and --force/--pass-thru or the iteration flags as the
// operation requires.
func newOperationCmd[In, Out any](deps Deps, op operation[In, Out]) *cobra.Command {
	var flags operationFlags
	tree := projection.MustBuildTree(op.fields)

	cmd := &cobra.Command{
		Use:     op.use,
		Short:   op.short,
		Long:    op.long,
		Example: op.example,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeOperation(cmd, deps, op, tree, flags)
		},
	}

	projection.BindFlags(cmd.Flags(), op.fields)
	for _, f := range op.fields {
		if f.Required {
			cmd.Flags().Lookup(f.Flag).Usage += " (required)"
		}
	}

	cmd.Flags().StringVar(&flags.selectSpec, flagSelect, op.defaultSelect,
		`output selector: "*" for the whole response, a response field, or ^Parameter`)
	if op.mutating {
		cmd.Flags().BoolVarP(&flags.force, flagForce, "f", false, "skip the confirmation prompt")
		cmd.Flags().BoolVar(&flags.passThru, flagPassThru, false, "emit the "+op.primary+" parameter")
		_ = cmd.Flags().MarkHidden(flagPassThru)
	}
	if op.paginated() {
		pagination.AddFlags(cmd, &flags.iteration)
	}

	return cmd
}

// executeOperation runs one invocation of op. Everything that can be
// rejected locally is checked before the client is built, so a
// ConfigurationError or a declined prompt never reaches the service.
func executeOperation[In, Out any](
	cmd *cobra.Command,
	deps Deps,
	op operation[In, Out],
	tree *projection.Node,
	flags operationFlags,
) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	set, err := projection.FromFlags(cmd.Flags(), op.fields)
	if err != nil {
		return err
	}
	if err = checkRequired(op.fields, set); err != nil {
		return err
	}
	if flags.passThru {
		cmd.PrintErrf("Flag --%s has been deprecated, use --%s %s%s\n",
			flagPassThru, flagSelect, selector.ParamPrefix, op.primary)
	}

	// ^Param selects the value as given, so it is resolved before an ARN
	// --name is reduced to the pipe name.
	sel, err := selector.Resolve(selector.Options{
		Spec:     flags.selectSpec,
		Explicit: cmd.Flags().Changed(flagSelect),
		Default:  op.defaultSelect,
		PassThru: flags.passThru,
		Primary:  op.primary,
		Response: reflect.TypeOf((*Out)(nil)),
		Params:   set,
	})
	if err != nil {
		return err
	}
	arnRegion := resolvePipeName(set)

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	noHistory, _ := cmd.Flags().GetBool(flagNoHistory)
	store := historyOrDisabled(ctx, noHistory)

	var start *string
	if op.paginated() {
		if err = flags.iteration.Validate(); err != nil {
			return err
		}
		var recorded *string
		if flags.iteration.Resume {
			recorded = recordedToken(ctx, store, op.name)
		}
		if start, err = flags.iteration.StartToken(recorded); err != nil {
			return err
		}
	}

	inv := invocation.New(cmd.CommandPath(), op.name, logging.TraceIDFromContext(ctx))
	inv.Selector = sel.String()
	inv.BindParams(set)

	if op.mutating {
		target := fmt.Sprint(set.Value(op.primary))
		if !confirmOperation(cmd, op.name, target, flags.force).Accepted {
			cmd.PrintErrln("Operation cancelled.")
			inv.Decline()
			finishInvocation(ctx, store, inv, set, op.mutating)
			return nil
		}
	}

	in, err := projection.Request[In](tree, set)
	if err != nil {
		return fmt.Errorf("building %s request: %w", op.name, err)
	}

	client, err := deps.NewClient(ctx, clientOptions(cmd, arnRegion))
	if err != nil {
		return apierr.ConfigWrap(err)
	}

	log.Debug().Ctx(ctx).
		Str("component", "cli").
		Str("operation", op.name).
		Str("endpoint", client.Endpoint).
		Str("selector", sel.String()).
		Interface("params", set.BoundMap()).
		Msg("invoking operation")

	out := newEmitter(format, cmd.OutOrStdout())
	invoke := func(ctx context.Context, req *In) (*Out, error) {
		resp, callErr := op.call(ctx, client.API, req)
		if callErr != nil {
			return nil, apierr.Classify(op.name, client.Endpoint, callErr)
		}
		return resp, nil
	}

	if op.paginated() {
		err = runPaginated(cmd, op, in, start, flags.iteration, sel, out, inv, invoke)
	} else {
		err = runSingle(ctx, in, sel, out, inv, invoke)
	}
	if flushErr := out.Flush(); err == nil {
		err = flushErr
	}

	if err != nil {
		var interrupted *pagination.InterruptedError
		if errors.As(err, &interrupted) {
			inv.NextToken = interrupted.NextToken
		}
		inv.Fail(err)
		log.Error().Ctx(ctx).
			Str("component", "cli").
			Str("operation", op.name).
			Int("pages", inv.Pages).
			Err(err).
			Msg("operation failed")
	}
	finishInvocation(ctx, store, inv, set, op.mutating)
	return err
}

// runSingle issues exactly one request and emits the selected value.
func runSingle[In, Out any](
	ctx context.Context,
	in *In,
	sel selector.Selector,
	out emitter,
	inv *invocation.Context,
	invoke func(context.Context, *In) (*Out, error),
) error {
	resp, err := invoke(ctx, in)
	if err != nil {
		return err
	}
	inv.RecordPage(resp, nil)
	return emitSelected(out, sel, resp)
}

// runPaginated drives the pagination loop, emitting each page before the
// next request is issued.
func runPaginated[In, Out any](
	cmd *cobra.Command,
	op operation[In, Out],
	in *In,
	start *string,
	iteration pagination.IterationParams,
	sel selector.Selector,
	out emitter,
	inv *invocation.Context,
	invoke func(context.Context, *In) (*Out, error),
) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	fetch := func(ctx context.Context, token *string) (*Out, error) {
		req := *in
		op.setToken(&req, token)
		return invoke(ctx, &req)
	}

	st := iteration.NewRunState(start)
	driver := pagination.NewDriver[Out](fetch, op.nextToken)
	for page, err := range driver.Pages(ctx, st) {
		if err != nil {
			return err
		}
		inv.RecordPage(page.Response, page.NextToken)

		selected, err := sel.Select(page.Response)
		if err != nil {
			return err
		}
		log.Debug().Ctx(ctx).
			Str("component", "cli").
			Str("operation", op.name).
			Int("page", page.Number).
			Int("items", itemCount(selected)).
			Bool("has_next", page.NextToken != nil).
			Msg("page received")

		if err = out.Emit(selected); err != nil {
			return err
		}
	}

	log.Debug().Ctx(ctx).
		Str("component", "cli").
		Str("operation", op.name).
		Interface("pagination", pagination.NewSummary(st)).
		Msg("listing finished")

	if st.Manual && st.Token != nil {
		cmd.PrintErrf("More results available; resume with --%s %s\n", pagination.FlagNextToken, *st.Token)
	}
	return nil
}

func emitSelected(out emitter, sel selector.Selector, resp any) error {
	selected, err := sel.Select(resp)
	if err != nil {
		return err
	}
	return out.Emit(selected)
}

// itemCount returns the length of a selected collection, or 1 for a single
// value.
func itemCount(v any) int {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len()
	case reflect.Invalid:
		return 0
	default:
		return 1
	}
}

// checkRequired rejects a missing required parameter before any request.
func checkRequired(fields []projection.Field, set *projection.ParameterSet) error {
	for _, f := range fields {
		if f.Required && !set.IsBound(f.Name) {
			return apierr.Configf("required flag --%s not set", f.Flag)
		}
	}
	return nil
}

// resolvePipeName replaces a pipe ARN given as --name with the pipe name and
// returns the ARN's region.
func resolvePipeName(set *projection.ParameterSet) string {
	v, ok := set.Value(pipeclient.ParamName).(string)
	if !ok || !awsutil.IsARN(v) {
		return ""
	}
	if name := awsutil.NameFromARN(v, pipeResourceType); name != "" {
		set.Bind(pipeclient.ParamName, name)
	}
	return awsutil.RegionFromARN(v)
}

// clientOptions merges configured AWS settings with the global flags. An
// explicit --region wins over the region of an ARN argument, which wins over
// configuration.
func clientOptions(cmd *cobra.Command, arnRegion string) pipeclient.ClientOptions {
	awsCfg := config.GetAWSConfig()
	opts := awsutil.Options{
		Region:      awsCfg.Region,
		Profile:     awsCfg.Profile,
		EndpointURL: awsCfg.EndpointURL,
	}
	if arnRegion != "" {
		opts.Region = arnRegion
	}

	fs := cmd.Flags()
	if fs.Changed(flagRegion) {
		opts.Region, _ = fs.GetString(flagRegion)
	}
	if fs.Changed(flagProfile) {
		opts.Profile, _ = fs.GetString(flagProfile)
	}
	if fs.Changed(flagEndpointURL) {
		opts.EndpointURL, _ = fs.GetString(flagEndpointURL)
	}

	debug, _ := fs.GetBool(flagDebug)
	return pipeclient.ClientOptions{
		Options: opts,
		Logger:  logging.FromContext(cmd.Context()),
		Debug:   debug,
	}
}

// historyOrDisabled opens the history store. Failure to open it only costs
// the history, so it is logged and a disabled store returned.
func historyOrDisabled(ctx context.Context, noHistory bool) *invocation.Store {
	store, err := openHistoryStore(noHistory)
	if err == nil {
		return store
	}
	logging.FromContext(ctx).Warn().Ctx(ctx).
		Str("component", "history").
		Err(err).
		Msg("invocation history unavailable")
	disabled, _ := invocation.NewStore("", false, 0, 0)
	return disabled
}

// recordedToken returns the next-token left by the latest invocation of
// operation, or nil.
func recordedToken(ctx context.Context, store *invocation.Store, operation string) *string {
	entry, err := store.Latest(operation)
	if err != nil {
		if !errors.Is(err, invocation.ErrNotFound) {
			logging.FromContext(ctx).Debug().Ctx(ctx).
				Str("component", "history").
				Err(err).
				Msg("no recorded invocation to resume")
		}
		return nil
	}
	if entry.Record.NextToken == "" {
		return nil
	}
	token := entry.Record.NextToken
	return &token
}

// finishInvocation saves the invocation snapshot and, for mutating
// operations, appends an audit entry. Neither can fail the invocation.
func finishInvocation(
	ctx context.Context,
	store *invocation.Store,
	inv *invocation.Context,
	set *projection.ParameterSet,
	audit bool,
) {
	log := logging.FromContext(ctx)

	if store.IsEnabled() {
		rec, err := inv.Snapshot()
		if err == nil {
			err = store.Save(rec)
		}
		if err != nil {
			log.Warn().Ctx(ctx).
				Str("component", "history").
				Str("operation", inv.Operation).
				Err(err).
				Msg("could not record invocation")
		}
	}

	if !audit {
		return
	}
	entry := logging.NewAuditEntry(inv.Command, inv.TraceID).
		WithParameters(set.BoundMap()).
		WithDuration(inv.StartedAt)
	switch {
	case inv.Declined:
		entry.WithDeclined()
	case inv.Err != nil:
		entry.WithError(inv.Err.Error())
	default:
		entry.WithSuccess()
	}
	logging.AuditLoggerFromContext(ctx).Log(ctx, *entry)
}
