package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"imprint/internal/artifacts"
	"imprint/internal/store"
	"imprint/internal/validation"
)

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// printTable renders a rounded table on a terminal and tab-separated plain
// rows when piped.
func printTable(headers []string, rows [][]string, aligns []columnAlignment) {
	if stdoutIsTerminal() {
		fmt.Println(renderTable(headers, rows, aligns))
		return
	}
	fmt.Println(strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Println(strings.Join(row, "\t"))
	}
}

func printFindings(results validation.Results) {
	if len(results) == 0 {
		fmt.Println("no findings")
		return
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{string(r.Severity), r.Field, r.Message, r.SuggestedFix})
	}
	printTable([]string{"Severity", "Field", "Message", "Suggested fix"}, rows, nil)
}

func recordRow(rec *store.Record) []string {
	return []string{
		rec.Name,
		string(rec.Tier),
		shortVersion(rec.Version),
		string(rec.Definition.Design.TrimSize),
		strings.Join(rec.Definition.Focus.Genres, ", "),
		formatTime(rec.UpdatedAt),
	}
}

func recordHeaders() []string {
	return []string{"Name", "Tier", "Version", "Trim", "Genres", "Updated"}
}

// artifactTypesOf returns the record's artifact types in canonical order.
func artifactTypesOf(rec *store.Record) []artifacts.Type {
	var present []artifacts.Type
	for _, t := range artifacts.AllTypes() {
		if _, ok := rec.Artifacts[t]; ok {
			present = append(present, t)
		}
	}
	return present
}

func shortVersion(version string) string {
	if len(version) > 8 {
		return version[:8]
	}
	return version
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04")
}
