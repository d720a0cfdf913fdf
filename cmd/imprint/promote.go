package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"imprint/internal/config"
	"imprint/internal/promotion"
	"imprint/internal/store"
)

func newPromoteCommand(ctx *commandContext) *cobra.Command {
	var (
		fromFlag string
		yesFlag  bool
	)

	cmd := &cobra.Command{
		Use:   "promote <name>",
		Short: "Promote an imprint one tier forward",
		Long: `Promote moves an imprint from draft to staging, or from staging to
production, after re-running its validation gates. Staging promotion also
compiles both LaTeX templates. Production promotion requires --yes and
archives any imprint currently in production under the same name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			from, err := parseTierFlag(fromFlag)
			if err != nil {
				return err
			}

			return ctx.withManager(func(_ *config.Config, mgr *promotion.Manager, _ *store.Store) error {
				rec, err := mgr.Promote(cmd.Context(), name, promotion.Options{
					From:    from,
					Confirm: yesFlag,
				})
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return printJSON(rec)
				}
				fmt.Printf("promoted %s to %s (version %s)\n", rec.Name, rec.Tier, shortVersion(rec.Version))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "Source tier (draft or staging); defaults to the most promoted non-production record")
	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Confirm promotion into production")
	return cmd
}
