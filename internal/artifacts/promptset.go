package artifacts

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"imprint/internal/imprint"
)

// promptSet is the serialized prompt bundle consumed by downstream content
// generation. Template text comes straight from the definition; this
// generator only packages and refuses, it never invents.
type promptSet struct {
	Imprint  string            `json:"imprint"`
	Tagline  string            `json:"tagline,omitempty"`
	Mission  string            `json:"mission,omitempty"`
	Audience string            `json:"audience"`
	Tone     string            `json:"tone"`
	Genres   []string          `json:"genres"`
	Themes   []string          `json:"themes,omitempty"`
	Prompts  map[string]string `json:"prompts"`
}

func generatePromptSet(def imprint.Definition, _ Set) ([]byte, error) {
	for _, purpose := range imprint.StandardPromptPurposes() {
		if !def.HasPrompt(purpose) {
			return nil, &MissingDependencyError{
				ArtifactType: TypePromptSet,
				Missing:      fmt.Sprintf("prompts.%s", purpose),
			}
		}
	}
	if strings.TrimSpace(def.Focus.Audience) == "" {
		return nil, &MissingDependencyError{ArtifactType: TypePromptSet, Missing: "focus.audience"}
	}
	if strings.TrimSpace(def.Focus.Tone) == "" {
		return nil, &MissingDependencyError{ArtifactType: TypePromptSet, Missing: "focus.tone"}
	}

	prompts := make(map[string]string, len(def.Prompts))
	for purpose, text := range def.Prompts {
		prompts[string(purpose)] = text
	}

	genres := append([]string(nil), def.Focus.Genres...)
	sort.Strings(genres)
	themes := append([]string(nil), def.Focus.Themes...)
	sort.Strings(themes)

	set := promptSet{
		Imprint:  def.Name,
		Tagline:  def.Tagline,
		Mission:  def.Mission,
		Audience: def.Focus.Audience,
		Tone:     def.Focus.Tone,
		Genres:   genres,
		Themes:   themes,
		Prompts:  prompts,
	}
	content, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode prompt set: %w", err)
	}
	return append(content, '\n'), nil
}
