package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"imprint/internal/config"
	"imprint/internal/pipeline"
	"imprint/internal/store"
)

func newRegenerateCommand(ctx *commandContext) *cobra.Command {
	var tierFlag string

	cmd := &cobra.Command{
		Use:   "regenerate <name>",
		Short: "Rebuild the artifact bundle from the stored definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			tier, err := parseTierFlag(tierFlag)
			if err != nil {
				return err
			}

			return ctx.withPipeline(func(_ *config.Config, p *pipeline.Pipeline, _ *store.Store) error {
				rec, err := p.Regenerate(cmd.Context(), name, tier)
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return printJSON(rec)
				}
				fmt.Printf("regenerated %d artifact(s) for %s (version %s)\n",
					len(rec.Artifacts), rec.Name, shortVersion(rec.Version))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tierFlag, "tier", "", "Tier to regenerate; defaults to the most promoted")
	return cmd
}
