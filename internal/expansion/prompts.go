package expansion

import (
	"encoding/json"
	"fmt"
	"strings"

	"imprint/internal/imprint"
	"imprint/internal/sketch"
)

const expansionSystemPrompt = `You are a publishing operations assistant. You design complete publishing imprints from loose concept descriptions.
You MUST respond with a single JSON object and nothing else, using exactly this shape (omit fields you cannot infer rather than inventing placeholders):
{
  "name": "lowercase-hyphenated-slug",
  "tagline": string,
  "mission": string,
  "trim_size": one of ["5x8","5.25x8","5.5x8.5","6x9","7x10","8.5x11"],
  "body_font": string,
  "display_font": string,
  "palette": {"primary": "#rrggbb", "secondary": "#rrggbb", "accent": "#rrggbb"},
  "page_count_target": integer,
  "genres": [string],
  "audience": string,
  "tone": string,
  "themes": [string],
  "prompts": {"manuscript": string, "back_cover": string, "marketing": string},
  "codex_types": [string]
}
Choose industry-standard values: real typefaces, shelf-conventional palettes for the genre, and a trim size that suits the declared page count.`

const fillSystemPrompt = `You are a publishing operations assistant completing a partially designed imprint.
You MUST respond with a single JSON object containing ONLY the requested fields, using the same field names and value shapes as the original schema. Do not repeat fields that were not requested.`

// expansionPayload mirrors the JSON shape requested from the model. All
// fields are loose; normalization happens during merge.
type expansionPayload struct {
	Name            string            `json:"name"`
	Tagline         string            `json:"tagline"`
	Mission         string            `json:"mission"`
	TrimSize        string            `json:"trim_size"`
	BodyFont        string            `json:"body_font"`
	DisplayFont     string            `json:"display_font"`
	Palette         palettePayload    `json:"palette"`
	PageCountTarget int               `json:"page_count_target"`
	Genres          []string          `json:"genres"`
	Audience        string            `json:"audience"`
	Tone            string            `json:"tone"`
	Themes          []string          `json:"themes"`
	Prompts         map[string]string `json:"prompts"`
	CodexTypes      []string          `json:"codex_types"`
}

type palettePayload struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

func buildUserPrompt(input sketch.Input, opts sketch.Options) (string, error) {
	var b strings.Builder
	switch input.Kind {
	case sketch.KindFreeText:
		fmt.Fprintf(&b, "Imprint concept:\n%s\n", strings.TrimSpace(input.Text))
	case sketch.KindPartial:
		encoded, err := json.MarshalIndent(input.Fields, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode partial input: %w", err)
		}
		fmt.Fprintf(&b, "Partially specified imprint (keep every supplied value verbatim, fill the rest):\n%s\n", encoded)
	default:
		return "", fmt.Errorf("unsupported input kind %q", input.Kind)
	}

	switch opts.Completeness {
	case sketch.CompletenessMinimal:
		b.WriteString("\nFill only the required fields: name, trim_size, body_font, display_font, palette, page_count_target, genres, audience, tone, and the three standard prompts.")
	case sketch.CompletenessFull:
		b.WriteString("\nFill every field, including tagline, mission, at least four themes, codex_types, and a series_blurb prompt in addition to the standard three.")
	default:
		b.WriteString("\nFill every required field plus tagline, mission, and at least two themes.")
	}
	return b.String(), nil
}

func buildFillPrompt(missing []string, def imprint.Definition) string {
	summary := map[string]any{
		"name":     def.Name,
		"genres":   def.Focus.Genres,
		"audience": def.Focus.Audience,
		"tone":     def.Focus.Tone,
	}
	encoded, _ := json.Marshal(summary)
	return fmt.Sprintf(
		"The imprint so far: %s\nSupply values for exactly these missing fields: %s",
		encoded, strings.Join(missing, ", "))
}
