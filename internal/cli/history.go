package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/pipesctl/internal/apierr"
	"github.com/rshade/pipesctl/internal/invocation"
	"github.com/rshade/pipesctl/internal/logging"
)

// newHistoryCmd creates the history command group.
func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Recorded invocations",
		Long: `Every invocation is recorded under the configuration directory (or the
project's .pipesctl/ directory) unless --no-history is given or
history.enabled is false. Records expire after history.ttl_seconds.`,
	}
	cmd.AddCommand(newHistoryShowCmd(), newHistoryClearCmd())
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show [operation]",
		Short: "Show recorded invocations, newest first",
		Example: `  # All recorded invocations
  pipesctl history show

  # The latest listings, including their next-tokens, as JSON
  pipesctl history show ListPipes -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			operation := ""
			if len(args) == 1 {
				operation = args[0]
			}
			return executeHistoryShow(cmd, operation, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many records (0 = all)")

	return cmd
}

// executeHistoryShow handles the history show subcommand logic.
func executeHistoryShow(cmd *cobra.Command, operation string, limit int) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	store, err := openHistoryStore(false)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	entries, err := store.List()
	if errors.Is(err, invocation.ErrHistoryDisabled) {
		cmd.PrintErrln("History is disabled.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("listing history: %w", err)
	}

	var records []*invocation.Record
	for _, e := range entries {
		if operation != "" && e.Record.Operation != operation {
			continue
		}
		records = append(records, e.Record)
		if limit > 0 && len(records) == limit {
			break
		}
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "cli").
		Str("operation", "history_show").
		Int("record_count", len(records)).
		Msg("history retrieved")

	if len(records) == 0 {
		cmd.PrintErrln("No recorded invocations.")
		return nil
	}

	switch format {
	case formatText, formatTable:
		return renderHistoryTable(cmd, records)
	case formatNDJSON:
		out := newEmitter(format, cmd.OutOrStdout())
		for _, r := range records {
			if err = out.Emit(r); err != nil {
				return err
			}
		}
		return out.Flush()
	default:
		out := newEmitter(format, cmd.OutOrStdout())
		if err = out.Emit(records); err != nil {
			return err
		}
		return out.Flush()
	}
}

// renderHistoryTable renders records as a table.
func renderHistoryTable(cmd *cobra.Command, records []*invocation.Record) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)

	fmt.Fprintln(tw, "ID\tSTARTED\tCOMMAND\tOPERATION\tPAGES\tSTATUS\tNEXT TOKEN")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.Command,
			r.Operation,
			r.Pages,
			recordStatus(r),
			r.NextToken,
		)
	}

	return tw.Flush()
}

func recordStatus(r *invocation.Record) string {
	switch {
	case r.Declined:
		return "declined"
	case r.Error != "":
		return "failed"
	default:
		return "ok"
	}
}

func newHistoryClearCmd() *cobra.Command {
	var olderThan string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove recorded invocations",
		Example: `  # Remove everything
  pipesctl history clear

  # Remove records older than a day
  pipesctl history clear --older-than 24h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeHistoryClear(cmd, olderThan)
		},
	}

	cmd.Flags().StringVar(&olderThan, "older-than", "",
		`only remove records older than this age, in seconds or as a duration ("36h")`)

	return cmd
}

// executeHistoryClear handles the history clear subcommand logic.
func executeHistoryClear(cmd *cobra.Command, olderThan string) error {
	var age time.Duration
	if olderThan != "" {
		var err error
		if age, err = invocation.ParseAge(olderThan); err != nil {
			return apierr.Configf("invalid --older-than: %v", err)
		}
	}

	store, err := openHistoryStore(false)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	removed, err := store.Clear(age)
	if errors.Is(err, invocation.ErrHistoryDisabled) {
		cmd.PrintErrln("History is disabled.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}

	if age > 0 {
		cmd.Printf("Removed %d record(s) older than %s\n", removed, invocation.FormatDuration(age))
	} else {
		cmd.Printf("Removed %d record(s)\n", removed)
	}
	return nil
}
