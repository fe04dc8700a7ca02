package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/pipesctl/pkg/version"
)

// newVersionCmd prints the build version. With -o json or yaml it prints the
// full build information.
func newVersionCmd(ver string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pipesctl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if format == formatText || format == formatTable {
				cmd.Printf("pipesctl version %s\n", ver)
				return nil
			}

			info := version.Get()
			info.Version = ver
			out := newEmitter(format, cmd.OutOrStdout())
			if err = out.Emit(info); err != nil {
				return err
			}
			return out.Flush()
		},
	}
}
