package cli

import (
	"github.com/spf13/cobra"

	"github.com/voicemirror/voicemirror/internal/schema"
)

// ValidationReport holds contract validation results.
type ValidationReport struct {
	Valid  bool                   `json:"valid"`
	Errors []schema.ContractError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the built-in property contract",
		Long: `Validate every property table against the contract: lower_snake_case
names, known value types, enum properties bound to an enum set, and a
fetch function behind every descriptor.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd)
		},
	}
}

func runValidate(opts *RootOptions, cmd *cobra.Command) error {
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	errs := schema.ValidateContract()
	report := ValidationReport{Valid: len(errs) == 0, Errors: errs}

	if opts.Format == "json" {
		if err := f.JSON(report); err != nil {
			return err
		}
	} else {
		if report.Valid {
			for _, table := range schema.Tables() {
				f.Printf("%s: %d properties ok\n", table.Kind, len(table.Descriptors))
			}
		} else {
			for _, e := range errs {
				f.Printf("error: %s\n", e.Error())
			}
		}
	}

	if !report.Valid {
		return NewExitError(ExitFailure, "contract validation failed")
	}
	return nil
}
