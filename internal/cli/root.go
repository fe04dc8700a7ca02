package cli

import (
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/pipesctl/internal/apierr"
	"github.com/rshade/pipesctl/internal/config"
	"github.com/rshade/pipesctl/internal/logging"
)

// Global flag names.
const (
	flagRegion      = "region"
	flagProfile     = "profile"
	flagEndpointURL = "endpoint-url"
	flagOutput      = "output"
	flagConfig      = "config"
	flagProjectDir  = "project-dir"
	flagDebug       = "debug"
	flagNoHistory   = "no-history"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the pipesctl CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithDeps(ver, DefaultDeps())
}

// NewRootCmdWithDeps creates the root command with explicit dependencies for
// testability.
func NewRootCmdWithDeps(ver string, deps Deps) *cobra.Command {
	deps = deps.withDefaults()
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:          "pipesctl",
		Short:        "Manage Amazon EventBridge Pipes",
		Long:         "pipesctl: list, inspect and change Amazon EventBridge Pipes from the command line",
		Version:      ver,
		Example:      rootCmdExample,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apierr.ConfigWrap(err)
	})

	pf := cmd.PersistentFlags()
	pf.String(flagRegion, "", "AWS region (default from config, environment or shared profile)")
	pf.String(flagProfile, "", "shared AWS config profile")
	pf.String(flagEndpointURL, "", "override the EventBridge Pipes endpoint URL")
	pf.StringP(flagOutput, "o", "",
		"output format: "+strings.Join(config.OutputFormats, ", ")+" (default from config)")
	pf.String(flagConfig, "", "configuration file merged over the global config")
	pf.String(flagProjectDir, "", "project directory containing .pipesctl/")
	pf.Bool(flagDebug, false, "enable debug logging")
	pf.Bool(flagNoHistory, false, "do not record this invocation in the history")

	cmd.AddCommand(
		newPipeCmd(deps), newTagCmd(deps), newHistoryCmd(),
		newConfigCmd(), newVersionCmd(ver),
	)

	closeAfterRun(cmd, func(c *cobra.Command) error {
		return cleanupLogging(c, logResult)
	})

	return cmd
}

// closeAfterRun wraps the RunE of every command under root so that cleanup
// runs once RunE returns, whether or not it failed. PersistentPostRunE is
// skipped on error and cannot be used for this.
func closeAfterRun(root *cobra.Command, cleanup func(*cobra.Command) error) {
	if run := root.RunE; run != nil {
		root.RunE = func(c *cobra.Command, args []string) (err error) {
			defer func() {
				if cerr := cleanup(c); err == nil {
					err = cerr
				}
			}()
			return run(c, args)
		}
	}
	for _, sub := range root.Commands() {
		closeAfterRun(sub, cleanup)
	}
}

const rootCmdExample = `  # List all pipes, following every next-token
  pipesctl pipe list

  # List one page of running pipes as JSON
  pipesctl pipe list --current-state RUNNING --no-auto-iteration -o json

  # Continue the previous one-page listing
  pipesctl pipe list --no-auto-iteration --resume

  # Change only the description of a pipe
  pipesctl pipe update --name orders --role-arn arn:aws:iam::123456789012:role/pipes --description "orders fan-out"

  # Stop a pipe without prompting and print its name
  pipesctl pipe stop --name orders --force --select ^Name

  # Set the default output format
  pipesctl config set output.default_format json`

// newPipeCmd creates the pipe command group.
func newPipeCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{Use: "pipe", Short: "Pipe commands"}
	cmd.AddCommand(
		newPipeListCmd(deps), newPipeDescribeCmd(deps), newPipeCreateCmd(deps),
		newPipeUpdateCmd(deps), newPipeDeleteCmd(deps),
		newPipeStartCmd(deps), newPipeStopCmd(deps),
	)
	return cmd
}

// newTagCmd creates the tag command group.
func newTagCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{Use: "tag", Short: "Resource tag commands"}
	cmd.AddCommand(newTagListCmd(deps), newTagAddCmd(deps), newTagRemoveCmd(deps))
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}

// loadConfig resolves the project directory, merges --config over the
// global and project configuration and installs the result as the global
// config.
func loadConfig(cmd *cobra.Command) error {
	ctx := cmd.Context()

	projectFlag, _ := cmd.Flags().GetString(flagProjectDir)
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	projectDir := config.ResolveProjectDir(ctx, projectFlag, cwd)
	config.SetResolvedProjectDir(projectDir)

	cfg := config.NewWithProjectDir(ctx, projectDir)
	if file, _ := cmd.Flags().GetString(flagConfig); file != "" {
		if mergeErr := config.ShallowMergeYAML(cfg, file); mergeErr != nil {
			return apierr.ConfigWrap(mergeErr)
		}
		cfg.ApplyEnv()
	}

	config.SetGlobalConfig(cfg)
	return nil
}

// outputFormat returns --output, or the configured default when unset.
func outputFormat(cmd *cobra.Command) (string, error) {
	format := config.GetDefaultOutputFormat()
	if cmd.Flags().Changed(flagOutput) {
		format, _ = cmd.Flags().GetString(flagOutput)
	}
	format = strings.ToLower(format)
	if !slices.Contains(config.OutputFormats, format) {
		return "", apierr.Configf("invalid --output %q (one of: %s)",
			format, strings.Join(config.OutputFormats, ", "))
	}
	return format, nil
}
