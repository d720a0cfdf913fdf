package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"imprint/internal/config"
	"imprint/internal/pipeline"
	"imprint/internal/sketch"
	"imprint/internal/store"
)

func newCreateCommand(ctx *commandContext) *cobra.Command {
	var (
		textFlag         string
		fileFlag         string
		completenessFlag string
		noDefaultsFlag   bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Expand sketchy input into a new draft imprint",
		Long: `Create expands a concept sketch into a complete imprint definition,
validates it, generates the artifact bundle, and stores the result as a
draft. Input is either free text (--text) or a partial definition as JSON
(--file, use "-" for stdin).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readSketch(textFlag, fileFlag)
			if err != nil {
				return err
			}

			return ctx.withPipeline(func(cfg *config.Config, p *pipeline.Pipeline, _ *store.Store) error {
				opts := sketch.Options{AssumeDefaults: cfg.Expansion.AssumeDefaults}
				if noDefaultsFlag {
					opts.AssumeDefaults = false
				}
				rawCompleteness := completenessFlag
				if rawCompleteness == "" {
					rawCompleteness = cfg.Expansion.Completeness
				}
				completeness, err := sketch.ParseCompleteness(rawCompleteness)
				if err != nil {
					return err
				}
				opts.Completeness = completeness

				result, err := p.Create(cmd.Context(), input, opts)
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return printJSON(map[string]any{
						"record":   result.Record,
						"warnings": result.Warnings,
					})
				}

				fmt.Printf("created draft %s (version %s)\n", result.Record.Name, shortVersion(result.Record.Version))
				printTable(recordHeaders(), [][]string{recordRow(result.Record)}, nil)
				if len(result.Warnings) > 0 {
					fmt.Printf("\n%d warning(s):\n", len(result.Warnings))
					printFindings(result.Warnings)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&textFlag, "text", "t", "", "Free text concept sketch")
	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Partial definition JSON file (\"-\" for stdin)")
	cmd.Flags().StringVar(&completenessFlag, "completeness", "", "Expansion detail: minimal, standard, or full")
	cmd.Flags().BoolVar(&noDefaultsFlag, "no-defaults", false, "Fail instead of filling unstated fields with house defaults")

	return cmd
}

func readSketch(text, file string) (sketch.Input, error) {
	text = strings.TrimSpace(text)
	if text != "" && file != "" {
		return sketch.Input{}, errors.New("use either --text or --file, not both")
	}
	if text != "" {
		return sketch.FreeText(text), nil
	}
	if file == "" {
		return sketch.Input{}, errors.New("provide a sketch with --text or --file")
	}

	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return sketch.Input{}, fmt.Errorf("read sketch: %w", err)
	}
	return sketch.ParsePartialJSON(data)
}
