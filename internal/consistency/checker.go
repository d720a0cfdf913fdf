// Package consistency cross-validates a schema-passed imprint definition.
// Each rule inspects a fixed field pair (or small set) and reports conflicts
// with a suggested resolution. Rules are independent and order-insensitive;
// the checker returns the union of all violations, sorted for determinism.
//
// The rule table is the documented, authoritative coverage:
//
//	trim-margins      text block must stay positive for the trim size
//	trim-page-count   page target must be comfortable at the trim size
//	palette-genre     palette luminance vs genre family conventions
//	palette-contrast  primary and secondary must be distinguishable
//	font-pairing      display face must differ from body face
//	body-font-serif   long-form fiction reads better in a serif (warning)
//	tone-audience     children's audiences exclude grim/explicit tone
package consistency

import (
	"fmt"
	"strings"

	"imprint/internal/imprint"
	"imprint/internal/validation"
)

// Rule is one entry in the fixed rule table.
type Rule struct {
	Name   string
	Fields []string
	Check  func(def imprint.Definition) []validation.Result
}

// Error carries the error-level conflicts from a failed consistency check,
// with suggested fixes attached, so callers can surface actionable feedback
// instead of a raw failure.
type Error struct {
	Results validation.Results
}

func (e *Error) Error() string {
	errs := e.Results.Errors()
	lines := make([]string, 0, len(errs))
	for _, r := range errs {
		lines = append(lines, r.String())
	}
	return fmt.Sprintf("consistency check failed (%d conflicts): %s", len(errs), strings.Join(lines, "; "))
}

// Check evaluates every rule and returns the union of violations.
// A definition with zero errors (warnings permitted) is eligible for
// artifact generation.
func Check(def imprint.Definition) validation.Results {
	var results validation.Results
	for _, rule := range Rules() {
		results = append(results, rule.Check(def)...)
	}
	results.Sort()
	return results
}

// Rules returns the fixed rule table.
func Rules() []Rule {
	return ruleTable
}

var ruleTable = []Rule{
	{
		Name:   "trim-margins",
		Fields: []string{"design.trim_size", "design.margins"},
		Check:  checkTrimMargins,
	},
	{
		Name:   "trim-page-count",
		Fields: []string{"design.trim_size", "design.page_count_target"},
		Check:  checkTrimPageCount,
	},
	{
		Name:   "palette-genre",
		Fields: []string{"design.palette", "focus.genres"},
		Check:  checkPaletteGenre,
	},
	{
		Name:   "palette-contrast",
		Fields: []string{"design.palette.primary", "design.palette.secondary"},
		Check:  checkPaletteContrast,
	},
	{
		Name:   "font-pairing",
		Fields: []string{"design.body_font", "design.display_font"},
		Check:  checkFontPairing,
	},
	{
		Name:   "body-font-serif",
		Fields: []string{"design.body_font", "focus.genres"},
		Check:  checkBodyFontSerif,
	},
	{
		Name:   "tone-audience",
		Fields: []string{"focus.tone", "focus.audience"},
		Check:  checkToneAudience,
	},
}

// minTextBlockIn is the smallest acceptable printable text block dimension.
const minTextBlockIn = 2.5

func checkTrimMargins(def imprint.Definition) []validation.Result {
	trim := def.Design.TrimSize
	if !trim.Valid() {
		return nil
	}
	width, height := trim.Dimensions()
	m := def.Design.Margins
	blockWidth := width - m.InnerIn - m.OuterIn
	blockHeight := height - m.TopIn - m.BottomIn
	var results []validation.Result
	if blockWidth < minTextBlockIn {
		results = append(results, validation.Result{
			Field:    "design.trim_size",
			Severity: validation.SeverityError,
			Message: fmt.Sprintf(
				"margins (inner %.2fin + outer %.2fin) leave a %.2fin text block on trim size %s; templates were computed for a wider page",
				m.InnerIn, m.OuterIn, blockWidth, trim),
			SuggestedFix: fmt.Sprintf("reduce horizontal margins or move to trim size %s", trim.NextLarger()),
		})
	}
	if blockHeight < minTextBlockIn {
		results = append(results, validation.Result{
			Field:    "design.margins",
			Severity: validation.SeverityError,
			Message: fmt.Sprintf(
				"margins (top %.2fin + bottom %.2fin) leave a %.2fin text block on trim size %s",
				m.TopIn, m.BottomIn, blockHeight, trim),
			SuggestedFix: fmt.Sprintf("reduce vertical margins or move to trim size %s", trim.NextLarger()),
		})
	}
	return results
}

func checkTrimPageCount(def imprint.Definition) []validation.Result {
	trim := def.Design.TrimSize
	target := def.Design.PageCountTarget
	if !trim.Valid() || target <= 0 {
		return nil
	}
	ceiling := trim.MaxComfortablePages()
	if target <= ceiling {
		return nil
	}
	return []validation.Result{{
		Field:    "design.page_count_target",
		Severity: validation.SeverityError,
		Message: fmt.Sprintf(
			"page count target %d exceeds the %d-page comfort ceiling for trim size %s",
			target, ceiling, trim),
		SuggestedFix: fmt.Sprintf("raise the trim size to %s or split titles near %d pages", trim.NextLarger(), ceiling),
	}}
}

func checkPaletteGenre(def imprint.Definition) []validation.Result {
	if !def.Design.Palette.Valid() {
		return nil
	}
	luminance := def.Design.Palette.Primary.Luminance()
	var results []validation.Result
	seen := map[imprint.GenreFamily]bool{}
	for _, genre := range def.Focus.Genres {
		family := imprint.FamilyForGenre(genre)
		if seen[family] {
			continue
		}
		seen[family] = true
		switch family {
		case imprint.FamilyHorror:
			if luminance > 0.7 {
				results = append(results, validation.Result{
					Field:        "design.palette.primary",
					Severity:     validation.SeverityWarning,
					Message:      fmt.Sprintf("a bright primary (%s) reads against horror shelf conventions", def.Design.Palette.Primary),
					SuggestedFix: "darken the primary toward near-black and keep brightness in the accent",
				})
			}
		case imprint.FamilyChildrens:
			if luminance < 0.25 {
				results = append(results, validation.Result{
					Field:        "design.palette.primary",
					Severity:     validation.SeverityError,
					Message:      fmt.Sprintf("a near-black primary (%s) conflicts with children's shelf conventions for genre %q", def.Design.Palette.Primary, imprint.NormalizeGenre(genre)),
					SuggestedFix: "lift the primary above mid luminance; reserve dark tones for type",
				})
			}
		case imprint.FamilyRomance:
			if luminance < 0.15 {
				results = append(results, validation.Result{
					Field:        "design.palette.primary",
					Severity:     validation.SeverityWarning,
					Message:      "very dark primaries are unusual for romance covers",
					SuggestedFix: "consider a warm mid-luminance primary",
				})
			}
		}
	}
	return results
}

func checkPaletteContrast(def imprint.Definition) []validation.Result {
	p := def.Design.Palette
	if !p.Valid() {
		return nil
	}
	delta := p.Primary.Luminance() - p.Secondary.Luminance()
	if delta < 0 {
		delta = -delta
	}
	if delta >= 0.15 {
		return nil
	}
	return []validation.Result{{
		Field:        "design.palette.secondary",
		Severity:     validation.SeverityError,
		Message:      fmt.Sprintf("primary %s and secondary %s are nearly indistinguishable (luminance delta %.2f)", p.Primary, p.Secondary, delta),
		SuggestedFix: "pick a secondary at least 0.15 luminance away from the primary",
	}}
}

func checkFontPairing(def imprint.Definition) []validation.Result {
	body := strings.TrimSpace(def.Design.BodyFont)
	display := strings.TrimSpace(def.Design.DisplayFont)
	if body == "" || display == "" {
		return nil
	}
	if !strings.EqualFold(body, display) {
		return nil
	}
	return []validation.Result{{
		Field:        "design.display_font",
		Severity:     validation.SeverityError,
		Message:      fmt.Sprintf("display font duplicates the body font (%q); covers and interiors will not differentiate", body),
		SuggestedFix: "pair the body serif with a contrasting titling face",
	}}
}

var serifMarkers = []string{"garamond", "caslon", "minion", "baskerville", "sabon", "palatino", "georgia", "jenson", "bembo", "serif"}

func isLikelySerif(font string) bool {
	lowered := strings.ToLower(font)
	for _, marker := range serifMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

var longFormFamilies = map[imprint.GenreFamily]bool{
	imprint.FamilySpeculative: true,
	imprint.FamilyLiterary:    true,
	imprint.FamilyCrime:       true,
	imprint.FamilyRomance:     true,
	imprint.FamilyHorror:      true,
}

func checkBodyFontSerif(def imprint.Definition) []validation.Result {
	body := strings.TrimSpace(def.Design.BodyFont)
	if body == "" || isLikelySerif(body) {
		return nil
	}
	for _, genre := range def.Focus.Genres {
		if longFormFamilies[imprint.FamilyForGenre(genre)] {
			return []validation.Result{{
				Field:        "design.body_font",
				Severity:     validation.SeverityWarning,
				Message:      fmt.Sprintf("body font %q does not look like a book serif; long-form %s titles usually set in serif", body, imprint.NormalizeGenre(genre)),
				SuggestedFix: "consider Garamond, Caslon, or Minion for body text",
			}}
		}
	}
	return nil
}

var grimToneMarkers = []string{"grim", "bleak", "brutal", "explicit", "graphic", "nihilistic"}

func checkToneAudience(def imprint.Definition) []validation.Result {
	audience := strings.ToLower(def.Focus.Audience)
	if !strings.Contains(audience, "child") && !strings.Contains(audience, "middle grade") && !strings.Contains(audience, "kid") {
		return nil
	}
	tone := strings.ToLower(def.Focus.Tone)
	for _, marker := range grimToneMarkers {
		if strings.Contains(tone, marker) {
			return []validation.Result{{
				Field:        "focus.tone",
				Severity:     validation.SeverityError,
				Message:      fmt.Sprintf("tone guidance %q conflicts with a children's audience", def.Focus.Tone),
				SuggestedFix: "soften the tone guidance or retarget the audience",
			}}
		}
	}
	return nil
}
