package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"imprint/internal/config"
	"imprint/internal/store"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <name>",
		Short: "Show the archive trail for an imprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				entries, err := st.History(cmd.Context(), name)
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return printJSON(entries)
				}
				if len(entries) == 0 {
					fmt.Printf("no archived versions for %s\n", name)
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						shortVersion(entry.Version),
						string(entry.Tier),
						entry.Reason,
						formatTime(entry.ArchivedAt),
					})
				}
				printTable([]string{"Version", "Tier", "Reason", "Archived"}, rows, nil)
				return nil
			})
		},
	}
	return cmd
}
