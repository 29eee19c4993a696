package cli

import (
	"github.com/spf13/cobra"

	"github.com/edtela/tsqn/engine"
)

// NewSelectCommand creates the select command.
func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "select <data-file> <statement-file>",
		Short: "Apply a selection statement to a data tree",
		Long: `Apply a selection statement to a data tree and print the filtered,
reshaped result. Both files may be JSON or YAML. A statement that
selects nothing prints null.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := LoadValue(args[0])
			if err != nil {
				return err
			}
			stmt, err := LoadStatement(args[1])
			if err != nil {
				return err
			}

			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Canonical: rootOpts.Canonical,
				Writer:    cmd.OutOrStdout(),
			}
			result, ok := engine.Select(data, stmt)
			if !ok {
				return formatter.WriteValue(nil)
			}
			return formatter.WriteValue(result)
		},
	}
}
