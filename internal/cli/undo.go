package cli

import (
	"github.com/spf13/cobra"

	"github.com/edtela/tsqn/engine"
)

// NewUndoCommand creates the undo command.
func NewUndoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <data-file> <changes-file>",
		Short: "Revert a change record against a data tree",
		Long: `Revert a change record (as produced by "tsqn update --changes-out")
against a data tree and print the restored data.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := LoadValue(args[0])
			if err != nil {
				return err
			}
			changes, err := LoadChangeRecord(args[1])
			if err != nil {
				return err
			}

			engine.Undo(data, changes)

			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Canonical: rootOpts.Canonical,
				Writer:    cmd.OutOrStdout(),
			}
			return formatter.WriteValue(data)
		},
	}
}
