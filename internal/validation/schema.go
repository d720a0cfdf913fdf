package validation

import (
	"fmt"
	"strings"

	"imprint/internal/imprint"
)

// CheckSchema runs the pure structural check over a candidate definition:
// required-field presence, type/enum conformance, non-empty prompt templates.
// Cross-field semantics belong to the consistency checker, not here.
func CheckSchema(def imprint.Definition) Results {
	var results Results

	if strings.TrimSpace(def.Name) == "" {
		results = append(results, Result{
			Field:        "name",
			Severity:     SeverityError,
			Message:      "imprint name is required",
			SuggestedFix: "derive a slug from the concept text, e.g. \"nova-shelf\"",
		})
	} else if !imprint.ValidName(def.Name) {
		results = append(results, Result{
			Field:        "name",
			Severity:     SeverityError,
			Message:      fmt.Sprintf("name %q is not a valid slug (lowercase letters, digits, hyphens, 3-64 chars)", def.Name),
			SuggestedFix: fmt.Sprintf("use %q", imprint.Slugify(def.Name)),
		})
	}

	if !def.Design.TrimSize.Valid() {
		results = append(results, Result{
			Field:        "design.trim_size",
			Severity:     SeverityError,
			Message:      fmt.Sprintf("trim size %q is not in the supported set %v", def.Design.TrimSize, imprint.AllTrimSizes()),
			SuggestedFix: "choose 6x9 for general trade fiction",
		})
	}

	if strings.TrimSpace(def.Design.BodyFont) == "" {
		results = append(results, Result{
			Field:        "design.body_font",
			Severity:     SeverityError,
			Message:      "body font is required",
			SuggestedFix: "use a readable book serif such as \"Garamond Premier Pro\"",
		})
	}
	if strings.TrimSpace(def.Design.DisplayFont) == "" {
		results = append(results, Result{
			Field:        "design.display_font",
			Severity:     SeverityError,
			Message:      "display font is required",
			SuggestedFix: "use a distinctive titling face such as \"Futura PT\"",
		})
	}

	results = append(results, checkPalette(def.Design.Palette)...)

	if def.Design.PageCountTarget <= 0 {
		results = append(results, Result{
			Field:        "design.page_count_target",
			Severity:     SeverityError,
			Message:      "page count target must be positive",
			SuggestedFix: "280 is a common trade novel target",
		})
	}

	results = append(results, checkMargins(def.Design.Margins)...)

	if len(def.Focus.Genres) == 0 {
		results = append(results, Result{
			Field:        "focus.genres",
			Severity:     SeverityError,
			Message:      "at least one genre is required",
		})
	}
	if strings.TrimSpace(def.Focus.Audience) == "" {
		results = append(results, Result{
			Field:        "focus.audience",
			Severity:     SeverityError,
			Message:      "target audience is required",
			SuggestedFix: "e.g. \"adult readers of literary fiction\"",
		})
	}
	if strings.TrimSpace(def.Focus.Tone) == "" {
		results = append(results, Result{
			Field:        "focus.tone",
			Severity:     SeverityError,
			Message:      "tone guidance is required",
			SuggestedFix: "e.g. \"wry, warm, quietly hopeful\"",
		})
	}
	if len(def.Focus.Themes) == 0 {
		results = append(results, Result{
			Field:    "focus.themes",
			Severity: SeverityWarning,
			Message:  "no focus themes declared; seed book ideas will lean on genres alone",
		})
	}

	results = append(results, checkPrompts(def)...)

	results.Sort()
	return results
}

func checkPalette(p imprint.Palette) Results {
	var results Results
	entries := []struct {
		field string
		color imprint.Color
	}{
		{"design.palette.primary", p.Primary},
		{"design.palette.secondary", p.Secondary},
		{"design.palette.accent", p.Accent},
	}
	for _, entry := range entries {
		if !entry.color.Valid() {
			results = append(results, Result{
				Field:        entry.field,
				Severity:     SeverityError,
				Message:      fmt.Sprintf("color %q is not a valid #rrggbb value", entry.color),
				SuggestedFix: "supply a six-digit hex color, e.g. \"#1a2b3c\"",
			})
		}
	}
	return results
}

func checkMargins(m imprint.Margins) Results {
	var results Results
	entries := []struct {
		field string
		value float64
	}{
		{"design.margins.top_in", m.TopIn},
		{"design.margins.bottom_in", m.BottomIn},
		{"design.margins.inner_in", m.InnerIn},
		{"design.margins.outer_in", m.OuterIn},
	}
	for _, entry := range entries {
		if entry.value <= 0 {
			results = append(results, Result{
				Field:        entry.field,
				Severity:     SeverityError,
				Message:      "margin must be positive",
				SuggestedFix: "0.75in is a safe trade default",
			})
		}
	}
	return results
}

func checkPrompts(def imprint.Definition) Results {
	var results Results
	if len(def.Prompts) == 0 {
		return Results{{
			Field:        "prompts",
			Severity:     SeverityError,
			Message:      "at least one prompt template is required",
			SuggestedFix: "expansion normally supplies manuscript, back_cover, and marketing templates",
		}}
	}
	for purpose, tmpl := range def.Prompts {
		if strings.TrimSpace(tmpl) == "" {
			results = append(results, Result{
				Field:    fmt.Sprintf("prompts.%s", purpose),
				Severity: SeverityError,
				Message:  "prompt template is empty",
			})
		}
	}
	for _, purpose := range imprint.StandardPromptPurposes() {
		if !def.HasPrompt(purpose) {
			results = append(results, Result{
				Field:        fmt.Sprintf("prompts.%s", purpose),
				Severity:     SeverityWarning,
				Message:      fmt.Sprintf("standard purpose %q has no template; the prompt-set generator will refuse to run", purpose),
				SuggestedFix: "re-run expansion with assume_defaults to fill the standard purposes",
			})
		}
	}
	return results
}
