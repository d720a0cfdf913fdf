package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"imprint/internal/config"
	"imprint/internal/pipeline"
	"imprint/internal/store"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var tierFlag string

	cmd := &cobra.Command{
		Use:   "validate <name>",
		Short: "Re-run the schema and consistency checks against a stored imprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			tier, err := parseTierFlag(tierFlag)
			if err != nil {
				return err
			}

			return ctx.withPipeline(func(_ *config.Config, p *pipeline.Pipeline, _ *store.Store) error {
				results, err := p.Validate(cmd.Context(), name, tier)
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return printJSON(results)
				}
				printFindings(results)
				if results.HasErrors() {
					return fmt.Errorf("%s has %d blocking error(s)", name, len(results.Errors()))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tierFlag, "tier", "", "Tier to validate; defaults to the most promoted")
	return cmd
}
