package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/edtela/tsqn/ast"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <statement-file>",
		Short: "Validate a statement's wire form",
		Long: `Parse a statement file and check that it serializes cleanly:
well-formed reserved markers, a single value inside replacement
wrappers, and no node without a wire form.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Canonical: rootOpts.Canonical,
				Writer:    cmd.OutOrStdout(),
			}

			result := ValidationResult{Valid: true}
			stmt, err := LoadStatement(args[0])
			if err == nil {
				err = ast.ValidateStatement(stmt)
			}
			if err != nil {
				result = ValidationResult{Valid: false, Error: err.Error()}
			}

			data, err := json.Marshal(result)
			if err != nil {
				return err
			}
			return formatter.WriteJSON(data)
		},
	}
}
