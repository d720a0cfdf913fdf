package testsupport

import (
	"context"
	"strings"
	"testing"
	"time"

	"imprint/internal/imprint"
	"imprint/internal/services/texcompile"
)

// Definition returns a fully populated, gate-clean definition for tests.
// Options mutate it before return.
func Definition(t testing.TB, opts ...func(*imprint.Definition)) imprint.Definition {
	t.Helper()

	def := imprint.Definition{
		Name:    "driftwood-press",
		Tagline: "Quiet stories from the edge of the map",
		Mission: "Character-driven speculative fiction for patient readers.",
		Design: imprint.DesignStrategy{
			TrimSize:    imprint.Trim55x85,
			BodyFont:    "Sabon LT Pro",
			DisplayFont: "Eurostile Next",
			Palette: imprint.Palette{
				Primary:   imprint.Color("#101c2e"),
				Secondary: imprint.Color("#3a6ea5"),
				Accent:    imprint.Color("#c0c6d4"),
			},
			PageCountTarget: 320,
			Margins: imprint.Margins{
				TopIn:    0.75,
				BottomIn: 0.75,
				InnerIn:  0.875,
				OuterIn:  0.625,
			},
		},
		Focus: imprint.FocusProfile{
			Genres:   []string{"science fiction"},
			Audience: "adult readers of literary sf",
			Tone:     "contemplative, precise",
			Themes:   []string{"memory", "distance"},
		},
		Prompts:    map[imprint.PromptPurpose]string{},
		CodexTypes: []string{"frontlist-title"},
		CreatedAt:  time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}
	for _, purpose := range imprint.StandardPromptPurposes() {
		def.Prompts[purpose] = "Write " + string(purpose) + " copy for a contemplative science fiction title."
	}

	for _, opt := range opts {
		opt(&def)
	}
	return def
}

// StubOracle is a texcompile.Oracle that records compile calls and can be
// forced to fail for named templates.
type StubOracle struct {
	Compiled []string
	FailFor  map[string][]string
}

var _ texcompile.Oracle = (*StubOracle)(nil)

func (o *StubOracle) Compile(_ context.Context, templateName string, source []byte) error {
	o.Compiled = append(o.Compiled, templateName)
	if diags, ok := o.FailFor[templateName]; ok {
		return &texcompile.CompilationError{Template: templateName, Diagnostics: diags}
	}
	if len(source) == 0 {
		return &texcompile.CompilationError{Template: templateName, Diagnostics: []string{"empty source"}}
	}
	return nil
}

// StubGenerator is a generation.Client returning canned responses in order.
// Calls beyond the canned list repeat the final response.
type StubGenerator struct {
	Responses []string
	Err       error
	Prompts   []string
	calls     int
}

func (g *StubGenerator) GenerateJSON(_ context.Context, _ string, userPrompt string) (string, error) {
	g.Prompts = append(g.Prompts, userPrompt)
	if g.Err != nil {
		return "", g.Err
	}
	if len(g.Responses) == 0 {
		return "{}", nil
	}
	idx := g.calls
	if idx >= len(g.Responses) {
		idx = len(g.Responses) - 1
	}
	g.calls++
	return g.Responses[idx], nil
}

// PromptContains reports whether any recorded prompt includes the fragment.
func (g *StubGenerator) PromptContains(fragment string) bool {
	for _, p := range g.Prompts {
		if strings.Contains(p, fragment) {
			return true
		}
	}
	return false
}
