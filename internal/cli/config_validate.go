package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/pipesctl/internal/apierr"
	"github.com/rshade/pipesctl/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Validates the configuration in effect for this invocation: the global
config file, the project overlay, --config and PIPESCTL_* environment
overrides, merged in that order.`,
		Example: `  # Validate current configuration
  pipesctl config validate

  # Validate and show the effective values
  pipesctl config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return apierr.ConfigWrap(fmt.Errorf("configuration validation failed: %w", err))
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.ConfigPath())
	if projectDir := config.GetResolvedProjectDir(); projectDir != "" {
		cmd.Printf("  Project directory: %s\n", projectDir)
	}
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", valueOrNone(cfg.Logging.File))
	cmd.Printf("  Audit log enabled: %t\n", cfg.Logging.Audit.Enabled)
	cmd.Printf("  AWS region: %s\n", valueOrNone(cfg.AWS.Region))
	cmd.Printf("  AWS profile: %s\n", valueOrNone(cfg.AWS.Profile))
	cmd.Printf("  Endpoint URL: %s\n", valueOrNone(cfg.AWS.EndpointURL))
	if cfg.History.Enabled {
		cmd.Printf("  History: enabled, %d entries kept for %ds\n",
			cfg.History.MaxEntries, cfg.History.TTLSeconds)
	} else {
		cmd.Println("  History: disabled")
	}
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
