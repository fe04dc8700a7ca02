package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user accepted the prompt (typed "y" or "yes").
	Accepted bool
	// Cancelled is true if reading the answer failed.
	Cancelled bool
}

//nolint:gochecknoglobals // Immutable style.
var promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))

// confirmOperation asks whether to perform operation on target. The question
// is written to the command's stderr and the answer read from its stdin.
// With force the prompt is skipped and the operation accepted.
//
// The prompt defaults to "No" when the user presses Enter without input.
func confirmOperation(cmd *cobra.Command, operation, target string, force bool) PromptResult {
	if force {
		return PromptResult{Accepted: true}
	}

	w := cmd.ErrOrStderr()
	question := fmt.Sprintf("Performing the operation %q on target %q.", operation, target)
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		question = promptStyle.Render(question)
	}
	fmt.Fprintln(w, question)
	fmt.Fprint(w, "? Continue? [y/N] ")

	return readConfirmation(cmd.InOrStdin())
}

// readConfirmation reads one line from r. Empty input, EOF and anything but
// y/yes decline.
func readConfirmation(r io.Reader) PromptResult {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if scanner.Err() != nil {
			return PromptResult{Cancelled: true}
		}
		return PromptResult{Accepted: false}
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{Accepted: false}
	}
}
