package imprint

import (
	"regexp"
	"strings"
	"time"
)

// PromptPurpose identifies what a prompt template is used to generate.
type PromptPurpose string

const (
	PromptManuscript  PromptPurpose = "manuscript"
	PromptBackCover   PromptPurpose = "back_cover"
	PromptMarketing   PromptPurpose = "marketing"
	PromptSeriesBlurb PromptPurpose = "series_blurb"
)

// StandardPromptPurposes returns the purposes every imprint must cover.
// Custom purposes beyond these are allowed and carried through untouched.
func StandardPromptPurposes() []PromptPurpose {
	return []PromptPurpose{PromptManuscript, PromptBackCover, PromptMarketing}
}

// Margins describes the interior page margins in inches.
type Margins struct {
	TopIn    float64 `json:"top_in"`
	BottomIn float64 `json:"bottom_in"`
	InnerIn  float64 `json:"inner_in"`
	OuterIn  float64 `json:"outer_in"`
}

// DesignStrategy captures the physical and visual identity of an imprint.
type DesignStrategy struct {
	TrimSize        TrimSize `json:"trim_size"`
	BodyFont        string   `json:"body_font"`
	DisplayFont     string   `json:"display_font"`
	Palette         Palette  `json:"palette"`
	PageCountTarget int      `json:"page_count_target"`
	Margins         Margins  `json:"margins"`
}

// FocusProfile captures the editorial direction of an imprint.
type FocusProfile struct {
	Genres   []string `json:"genres"`
	Audience string   `json:"audience"`
	Tone     string   `json:"tone"`
	Themes   []string `json:"themes"`
}

// Definition is the full imprint record produced by the expansion engine and
// consumed by every generator. Name is the immutable store key.
type Definition struct {
	Name       string                   `json:"name"`
	Tagline    string                   `json:"tagline,omitempty"`
	Mission    string                   `json:"mission,omitempty"`
	Design     DesignStrategy           `json:"design"`
	Focus      FocusProfile             `json:"focus"`
	Prompts    map[PromptPurpose]string `json:"prompts"`
	CodexTypes []string                 `json:"codex_types,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
}

var nameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,62}[a-z0-9]$`)

// ValidName reports whether a string is usable as an imprint store key.
func ValidName(name string) bool {
	return nameRe.MatchString(name)
}

// Slugify derives a store key from free-form text.
func Slugify(value string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// Clone returns a deep copy so callers can derive new candidates without
// sharing slice or map storage with the original.
func (d Definition) Clone() Definition {
	cp := d
	cp.Focus.Genres = append([]string(nil), d.Focus.Genres...)
	cp.Focus.Themes = append([]string(nil), d.Focus.Themes...)
	cp.CodexTypes = append([]string(nil), d.CodexTypes...)
	if d.Prompts != nil {
		cp.Prompts = make(map[PromptPurpose]string, len(d.Prompts))
		for purpose, tmpl := range d.Prompts {
			cp.Prompts[purpose] = tmpl
		}
	}
	return cp
}

// HasPrompt reports whether a non-empty template exists for the purpose.
func (d Definition) HasPrompt(purpose PromptPurpose) bool {
	return strings.TrimSpace(d.Prompts[purpose]) != ""
}
