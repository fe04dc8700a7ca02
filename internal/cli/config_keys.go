package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/pipesctl/internal/apierr"
	"github.com/rshade/pipesctl/internal/config"
)

// NewConfigGetCmd creates the config get command.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the effective value of a configuration key",
		Example: `  pipesctl config get output.default_format
  pipesctl config get aws.region`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return configKeyError(err)
			}
			cmd.Println(cellString(v))
			return nil
		},
	}
}

// NewConfigSetCmd creates the config set command. It rewrites the global
// config file; environment overrides are not persisted.
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a key in the global configuration file",
		Example: `  pipesctl config set output.default_format json
  pipesctl config set aws.region eu-west-1
  pipesctl config set history.enabled false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadGlobal()
			if err != nil {
				return err
			}
			if err = cfg.Set(args[0], args[1]); err != nil {
				return configKeyError(err)
			}
			if err = cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			cmd.Printf("Set %s = %s\n", args[0], args[1])
			return nil
		},
	}
}

// NewConfigListCmd creates the config list command.
func NewConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every configuration key with its effective value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			values, err := cfg.List()
			if err != nil {
				return err
			}

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if format != formatText && format != formatTable {
				out := newEmitter(format, cmd.OutOrStdout())
				if err = out.Emit(values); err != nil {
					return err
				}
				return out.Flush()
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)
			fmt.Fprintln(tw, "KEY\tVALUE")
			for _, k := range cfg.Keys() {
				fmt.Fprintf(tw, "%s\t%s\n", k, cellString(values[k]))
			}
			return tw.Flush()
		},
	}
}

// configKeyError marks unknown keys and invalid values as configuration errors.
func configKeyError(err error) error {
	if errors.Is(err, config.ErrUnknownKey) {
		return apierr.ConfigWrap(fmt.Errorf("%w (see 'pipesctl config list')", err))
	}
	return apierr.ConfigWrap(err)
}
