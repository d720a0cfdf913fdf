package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"imprint/internal/config"
	"imprint/internal/promotion"
	"imprint/internal/store"
)

func newDeprecateCommand(ctx *commandContext) *cobra.Command {
	var tierFlag string

	cmd := &cobra.Command{
		Use:   "deprecate <name>",
		Short: "Archive an imprint from any live tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			tier, err := parseTierFlag(tierFlag)
			if err != nil {
				return err
			}

			return ctx.withManager(func(_ *config.Config, mgr *promotion.Manager, _ *store.Store) error {
				archivedFrom, err := mgr.Deprecate(cmd.Context(), name, tier)
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return printJSON(map[string]string{"name": name, "archived_from": string(archivedFrom)})
				}
				fmt.Printf("archived %s from %s\n", name, archivedFrom)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tierFlag, "tier", "", "Tier to archive from; defaults to the most promoted")
	return cmd
}
