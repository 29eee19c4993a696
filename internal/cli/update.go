package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edtela/tsqn/engine"
)

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var changesOut string

	cmd := &cobra.Command{
		Use:   "update <data-file> <statement-file>",
		Short: "Apply an update statement to a data tree",
		Long: `Apply an update statement to a data tree and print the updated data.
With --changes-out, the change record is written as JSON to the given
file ("-" for stdout) so it can be fed back into "tsqn undo".`,
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

			changes, err := engine.Update(data, stmt, nil, nil)
			if err != nil {
				return err
			}

			if changesOut != "" {
				var changesJSON []byte
				if changes == nil {
					changesJSON = []byte("null")
				} else {
					changesJSON, err = changes.MarshalJSON()
					if err != nil {
						return err
					}
				}
				if changesOut == "-" {
					formatter := &OutputFormatter{
						Format:    rootOpts.Format,
						Canonical: rootOpts.Canonical,
						Writer:    cmd.OutOrStdout(),
					}
					return formatter.WriteJSON(changesJSON)
				}
				if err := os.WriteFile(changesOut, append(changesJSON, '\n'), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", changesOut, err)
				}
			}

			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Canonical: rootOpts.Canonical,
				Writer:    cmd.OutOrStdout(),
			}
			return formatter.WriteValue(data)
		},
	}

	cmd.Flags().StringVar(&changesOut, "changes-out", "", `write the change record to a file ("-" prints it instead of the data)`)
	return cmd
}
