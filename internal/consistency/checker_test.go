package consistency_test

import (
	"strings"
	"testing"

	"imprint/internal/consistency"
	"imprint/internal/imprint"
	"imprint/internal/testsupport"
	"imprint/internal/validation"
)

func TestCheckCleanDefinition(t *testing.T) {
	def := testsupport.Definition(t)
	results := consistency.Check(def)
	if len(results) != 0 {
		t.Fatalf("expected no findings, got %v", results)
	}
}

func TestTightMarginsOnSmallTrimSuggestLargerTrim(t *testing.T) {
	def := testsupport.Definition(t, func(d *imprint.Definition) {
		d.Design.TrimSize = imprint.Trim5x8
		d.Design.Margins = imprint.Margins{TopIn: 1.0, BottomIn: 1.0, InnerIn: 1.5, OuterIn: 1.25}
	})

	results := consistency.Check(def)
	if !results.HasErrors() {
		t.Fatal("expected text block conflict on 5x8 with wide margins")
	}

	var found bool
	for _, r := range results.Errors() {
		if r.Field == "design.trim_size" {
			found = true
			if !strings.Contains(r.SuggestedFix, string(imprint.Trim5x8.NextLarger())) {
				t.Fatalf("fix should name the next trim size, got %q", r.SuggestedFix)
			}
		}
	}
	if !found {
		t.Fatalf("no trim-margins finding in %v", results)
	}

	// The same margins are fine once the trim grows.
	def.Design.TrimSize = imprint.Trim6x9
	if results := consistency.Check(def); results.HasErrors() {
		t.Fatalf("6x9 should absorb the margins, got %v", results.Errors())
	}
}

func TestPageCountCeilingPerTrim(t *testing.T) {
	def := testsupport.Definition(t, func(d *imprint.Definition) {
		d.Design.TrimSize = imprint.Trim5x8
		d.Design.PageCountTarget = 500
	})

	results := consistency.Check(def)
	var found bool
	for _, r := range results.Errors() {
		if r.Field == "design.page_count_target" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected page count conflict, got %v", results)
	}

	def.Design.PageCountTarget = 260
	if results := consistency.Check(def); results.HasErrors() {
		t.Fatalf("260 pages should fit 5x8, got %v", results.Errors())
	}
}

func TestPaletteGenreConventions(t *testing.T) {
	horror := testsupport.Definition(t, func(d *imprint.Definition) {
		d.Focus.Genres = []string{"horror"}
		d.Design.Palette.Primary = imprint.Color("#fdf6e3")
		d.Design.Palette.Secondary = imprint.Color("#101c2e")
	})
	results := consistency.Check(horror)
	if results.HasErrors() {
		t.Fatalf("bright horror primary should warn, not block: %v", results.Errors())
	}
	if len(results.Warnings()) == 0 {
		t.Fatal("expected bright-primary warning for horror")
	}

	childrens := testsupport.Definition(t, func(d *imprint.Definition) {
		d.Focus.Genres = []string{"picture book"}
		d.Design.Palette.Primary = imprint.Color("#0a0a0a")
		d.Design.Palette.Secondary = imprint.Color("#f5f1e8")
	})
	if results := consistency.Check(childrens); !results.HasErrors() {
		t.Fatal("near-black primary should block for a children's genre")
	}
}

func TestPaletteContrast(t *testing.T) {
	def := testsupport.Definition(t, func(d *imprint.Definition) {
		d.Design.Palette.Primary = imprint.Color("#404040")
		d.Design.Palette.Secondary = imprint.Color("#4a4a4a")
	})
	results := consistency.Check(def)
	var found bool
	for _, r := range results.Errors() {
		if r.Field == "design.palette.secondary" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected contrast conflict, got %v", results)
	}
}

func TestFontPairingRejectsDuplicate(t *testing.T) {
	def := testsupport.Definition(t, func(d *imprint.Definition) {
		d.Design.DisplayFont = d.Design.BodyFont
	})
	results := consistency.Check(def)
	if !results.HasErrors() {
		t.Fatal("expected duplicate font conflict")
	}
}

func TestSansBodyFontWarnsForLongForm(t *testing.T) {
	def := testsupport.Definition(t, func(d *imprint.Definition) {
		d.Design.BodyFont = "Helvetica Neue"
	})
	results := consistency.Check(def)
	if results.HasErrors() {
		t.Fatalf("sans body should warn, not block: %v", results.Errors())
	}
	var found bool
	for _, r := range results.Warnings() {
		if r.Field == "design.body_font" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected body font warning, got %v", results)
	}
}

func TestGrimToneBlocksChildrensAudience(t *testing.T) {
	def := testsupport.Definition(t, func(d *imprint.Definition) {
		d.Focus.Audience = "children ages 8-12"
		d.Focus.Tone = "bleak, unflinching"
	})
	results := consistency.Check(def)
	var found bool
	for _, r := range results.Errors() {
		if r.Field == "focus.tone" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected tone-audience conflict, got %v", results)
	}
}

func TestCheckReturnsUnionSorted(t *testing.T) {
	def := testsupport.Definition(t, func(d *imprint.Definition) {
		d.Design.DisplayFont = d.Design.BodyFont
		d.Design.Palette.Secondary = d.Design.Palette.Primary
		d.Design.PageCountTarget = 5000
	})
	first := consistency.Check(def)
	second := consistency.Check(def)
	if len(first) < 3 {
		t.Fatalf("expected at least three findings, got %v", first)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("check not deterministic: %v vs %v", first[i], second[i])
		}
	}
	var _ validation.Results = first
}
