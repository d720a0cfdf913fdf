package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"imprint/internal/config"
	"imprint/internal/store"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var tierFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List live imprint records",
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := parseTierFlag(tierFlag)
			if err != nil {
				return err
			}

			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				var tiers []store.Tier
				if tier != "" {
					tiers = append(tiers, tier)
				}
				records, err := st.List(cmd.Context(), tiers...)
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return printJSON(records)
				}
				if len(records) == 0 {
					fmt.Println("no imprints")
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, recordRow(rec))
				}
				printTable(recordHeaders(), rows, nil)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tierFlag, "tier", "", "Only list records at this tier")
	return cmd
}
