package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"imprint/internal/config"
	"imprint/internal/imprint"
	"imprint/internal/services"
	"imprint/internal/store"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var tierFlag string

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show an imprint definition and its artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			tier, err := parseTierFlag(tierFlag)
			if err != nil {
				return err
			}

			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				var rec *store.Record
				if tier == "" {
					rec, err = st.Current(cmd.Context(), name)
				} else {
					rec, err = st.Get(cmd.Context(), name, tier)
				}
				if err != nil {
					return err
				}
				if rec == nil {
					return services.Wrap(services.ErrNotFound, "cli", "show", fmt.Sprintf("no record for imprint %q", name), nil)
				}

				if ctx.jsonOutput() {
					return printJSON(rec)
				}
				printRecordDetail(rec)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tierFlag, "tier", "", "Tier to show (draft, staging, production); defaults to the most promoted")
	return cmd
}

func printRecordDetail(rec *store.Record) {
	def := rec.Definition
	fmt.Printf("%s (%s)\n", imprint.DisplayName(def.Name), def.Name)
	if def.Tagline != "" {
		fmt.Printf("  %s\n", def.Tagline)
	}
	fmt.Println()

	rows := [][]string{
		{"Tier", string(rec.Tier)},
		{"Version", rec.Version},
		{"Trim size", string(def.Design.TrimSize)},
		{"Body font", def.Design.BodyFont},
		{"Display font", def.Design.DisplayFont},
		{"Palette", def.Design.Palette.String()},
		{"Page target", fmt.Sprintf("%d", def.Design.PageCountTarget)},
		{"Genres", joinDisplayGenres(def.Focus.Genres)},
		{"Audience", def.Focus.Audience},
		{"Tone", def.Focus.Tone},
		{"Themes", strings.Join(def.Focus.Themes, ", ")},
		{"Updated", formatTime(rec.UpdatedAt)},
	}
	printTable([]string{"Field", "Value"}, rows, nil)

	if len(rec.Artifacts) > 0 {
		fmt.Println()
		artRows := make([][]string, 0, len(rec.Artifacts))
		for _, t := range artifactTypesOf(rec) {
			a := rec.Artifacts[t]
			artRows = append(artRows, []string{
				string(a.Type),
				a.Format,
				fmt.Sprintf("%d", len(a.Content)),
				shortVersion(a.Checksum),
			})
		}
		printTable([]string{"Artifact", "Format", "Bytes", "Checksum"}, artRows, []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft})
	}
}

func joinDisplayGenres(genres []string) string {
	display := make([]string, 0, len(genres))
	for _, g := range genres {
		display = append(display, imprint.DisplayGenre(g))
	}
	return strings.Join(display, ", ")
}

func parseTierFlag(value string) (store.Tier, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", nil
	}
	tier := store.Tier(value)
	if !tier.Valid() {
		return "", fmt.Errorf("unknown tier %q (expected draft, staging, production, or archive)", value)
	}
	return tier, nil
}
