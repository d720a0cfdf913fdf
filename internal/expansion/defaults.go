package expansion

import (
	"fmt"
	"strings"

	"imprint/internal/imprint"
)

// houseDefaults captures the industry-standard values applied per genre
// family when assume_defaults is set and neither the caller nor the model
// supplied a field.
type houseDefaults struct {
	trim      imprint.TrimSize
	bodyFont  string
	display   string
	palette   imprint.Palette
	pageCount int
}

var familyDefaults = map[imprint.GenreFamily]houseDefaults{
	imprint.FamilySpeculative: {
		trim:      imprint.Trim55x85,
		bodyFont:  "Sabon LT Pro",
		display:   "Eurostile Next",
		palette:   imprint.Palette{Primary: "#101c2e", Secondary: "#3a6ea5", Accent: "#c0c6d4"},
		pageCount: 320,
	},
	imprint.FamilyLiterary: {
		trim:      imprint.Trim55x85,
		bodyFont:  "Garamond Premier Pro",
		display:   "Optima Nova",
		palette:   imprint.Palette{Primary: "#f4f1ea", Secondary: "#40413f", Accent: "#a0522d"},
		pageCount: 288,
	},
	imprint.FamilyCrime: {
		trim:      imprint.Trim55x85,
		bodyFont:  "Minion Pro",
		display:   "Trade Gothic Next",
		palette:   imprint.Palette{Primary: "#1b1b1d", Secondary: "#8c1c13", Accent: "#d8d5cd"},
		pageCount: 336,
	},
	imprint.FamilyRomance: {
		trim:      imprint.Trim5x8,
		bodyFont:  "Adobe Caslon Pro",
		display:   "Carattere",
		palette:   imprint.Palette{Primary: "#f3d7da", Secondary: "#7a3b4f", Accent: "#e3b23c"},
		pageCount: 272,
	},
	imprint.FamilyChildrens: {
		trim:      imprint.Trim7x10,
		bodyFont:  "Andika",
		display:   "Fredoka",
		palette:   imprint.Palette{Primary: "#fde18a", Secondary: "#2a9d8f", Accent: "#e76f51"},
		pageCount: 96,
	},
	imprint.FamilyNonfiction: {
		trim:      imprint.Trim6x9,
		bodyFont:  "Freight Text Pro",
		display:   "Founders Grotesk",
		palette:   imprint.Palette{Primary: "#ffffff", Secondary: "#14213d", Accent: "#fca311"},
		pageCount: 304,
	},
	imprint.FamilyHorror: {
		trim:      imprint.Trim55x85,
		bodyFont:  "Jenson Pro",
		display:   "Nocturne Serif",
		palette:   imprint.Palette{Primary: "#120a0d", Secondary: "#5c0a14", Accent: "#9e9a8e"},
		pageCount: 320,
	},
}

// defaultMargins is the standard trade margin set applied when margins are
// not supplied. Inner is wider than outer to clear the binding gutter.
var defaultMargins = imprint.Margins{TopIn: 0.75, BottomIn: 0.75, InnerIn: 0.875, OuterIn: 0.625}

const defaultCodexType = "frontlist-title"

// defaultsForGenres picks the defaults of the first recognized genre family.
func defaultsForGenres(genres []string) houseDefaults {
	if len(genres) > 0 {
		return familyDefaults[imprint.FamilyForGenre(genres[0])]
	}
	return familyDefaults[imprint.FamilyLiterary]
}

// stockPromptTemplate renders the house template for a standard purpose,
// themed with the imprint's focus and tone so the prompt set is usable
// without custom templates.
func stockPromptTemplate(purpose imprint.PromptPurpose, focus imprint.FocusProfile) string {
	genres := make([]string, 0, len(focus.Genres))
	for _, genre := range focus.Genres {
		genres = append(genres, imprint.DisplayGenre(genre))
	}
	genreList := strings.Join(genres, ", ")
	themeList := strings.Join(focus.Themes, ", ")
	if themeList == "" {
		themeList = "the imprint's core themes"
	}

	switch purpose {
	case imprint.PromptManuscript:
		return strings.TrimSpace(fmt.Sprintf(`SYSTEM: You are a staff author for a publishing imprint specializing in %s.
AUDIENCE: %s
TONE: %s
TASK: Draft the requested chapter or section, staying inside the imprint's themes (%s).
CONSTRAINT: Match the tone guidance exactly; never break genre conventions without editorial instruction.
OUTPUT: Prose only, no front matter.`, genreList, focus.Audience, focus.Tone, themeList))
	case imprint.PromptBackCover:
		return strings.TrimSpace(fmt.Sprintf(`SYSTEM: You are a senior copywriter for a %s imprint.
AUDIENCE: %s
TASK: Write back-cover copy of 120-180 words for the supplied synopsis.
TONE: %s
CONSTRAINT: End with a one-line hook. No spoilers past the midpoint.
OUTPUT: Plain text.`, genreList, focus.Audience, focus.Tone))
	case imprint.PromptMarketing:
		return strings.TrimSpace(fmt.Sprintf(`SYSTEM: You are a book marketing strategist for a %s imprint aimed at %s.
TASK: Produce a launch copy kit for the supplied title: one tagline, three social posts, one newsletter blurb.
TONE: %s
OUTPUT: JSON {"tagline": string, "social": [string], "newsletter": string}.`, genreList, focus.Audience, focus.Tone))
	case imprint.PromptSeriesBlurb:
		return strings.TrimSpace(fmt.Sprintf(`SYSTEM: You are a series editor for a %s imprint.
TASK: Write a 60-word series blurb connecting the supplied titles through the themes: %s.
OUTPUT: Plain text.`, genreList, themeList))
	default:
		return ""
	}
}
