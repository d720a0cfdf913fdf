package validation_test

import (
	"sort"
	"testing"

	"imprint/internal/imprint"
	"imprint/internal/testsupport"
	"imprint/internal/validation"
)

func TestCheckSchemaCleanDefinition(t *testing.T) {
	def := testsupport.Definition(t)
	results := validation.CheckSchema(def)
	if results.HasErrors() {
		t.Fatalf("expected no errors, got %v", results.Errors())
	}
	if len(results.Warnings()) != 0 {
		t.Fatalf("expected no warnings, got %v", results.Warnings())
	}
}

func TestCheckSchemaReportsEveryError(t *testing.T) {
	def := imprint.Definition{}
	results := validation.CheckSchema(def)
	if !results.HasErrors() {
		t.Fatal("expected errors for empty definition")
	}

	fields := map[string]bool{}
	for _, r := range results.Errors() {
		fields[r.Field] = true
	}
	for _, want := range []string{
		"name",
		"design.trim_size",
		"design.body_font",
		"design.display_font",
		"design.palette.primary",
		"design.page_count_target",
		"design.margins.top_in",
		"focus.genres",
		"focus.audience",
		"focus.tone",
		"prompts",
	} {
		if !fields[want] {
			t.Errorf("missing error for %s; got fields %v", want, fields)
		}
	}
}

func TestCheckSchemaBadNameSuggestsSlug(t *testing.T) {
	def := testsupport.Definition(t, func(d *imprint.Definition) {
		d.Name = "Driftwood Press"
	})
	results := validation.CheckSchema(def)
	if !results.HasErrors() {
		t.Fatal("expected name error")
	}
	found := false
	for _, r := range results.Errors() {
		if r.Field == "name" {
			found = true
			if r.SuggestedFix != `use "driftwood-press"` {
				t.Fatalf("suggested fix = %q", r.SuggestedFix)
			}
		}
	}
	if !found {
		t.Fatal("no name finding")
	}
}

func TestCheckSchemaMissingThemesIsWarning(t *testing.T) {
	def := testsupport.Definition(t, func(d *imprint.Definition) {
		d.Focus.Themes = nil
	})
	results := validation.CheckSchema(def)
	if results.HasErrors() {
		t.Fatalf("themes should not block: %v", results.Errors())
	}
	if len(results.Warnings()) != 1 || results.Warnings()[0].Field != "focus.themes" {
		t.Fatalf("warnings = %v", results.Warnings())
	}
}

func TestCheckSchemaMissingStandardPromptWarns(t *testing.T) {
	def := testsupport.Definition(t, func(d *imprint.Definition) {
		delete(d.Prompts, imprint.PromptMarketing)
	})
	results := validation.CheckSchema(def)
	if results.HasErrors() {
		t.Fatalf("unexpected errors: %v", results.Errors())
	}
	warnings := results.Warnings()
	if len(warnings) != 1 || warnings[0].Field != "prompts.marketing" {
		t.Fatalf("warnings = %v", warnings)
	}
}

func TestCheckSchemaResultsAreSorted(t *testing.T) {
	results := validation.CheckSchema(imprint.Definition{})
	if !sort.SliceIsSorted(results, func(i, j int) bool {
		if results[i].Field != results[j].Field {
			return results[i].Field < results[j].Field
		}
		return results[i].Message < results[j].Message
	}) {
		t.Fatalf("results not sorted: %v", results)
	}
}
