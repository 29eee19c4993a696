package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edtela/tsqn/engine"
)

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <value-file> <predicate-file>",
		Short: "Evaluate a predicate against a value",
		Long: `Evaluate a predicate against a value and print the boolean outcome.
Predicate evaluation is total: a comparison against a value of the
wrong kind is false, never an error.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := LoadValue(args[0])
			if err != nil {
				return err
			}
			pred, err := LoadPredicate(args[1])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%t\n", engine.Evaluate(value, pred))
			return err
		},
	}
}
