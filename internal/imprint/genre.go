package imprint

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GenreFamily groups related genres so defaults and conventions can be keyed
// coarsely without enumerating every subgenre.
type GenreFamily string

const (
	FamilySpeculative GenreFamily = "speculative"
	FamilyLiterary    GenreFamily = "literary"
	FamilyCrime       GenreFamily = "crime"
	FamilyRomance     GenreFamily = "romance"
	FamilyChildrens   GenreFamily = "childrens"
	FamilyNonfiction  GenreFamily = "nonfiction"
	FamilyHorror      GenreFamily = "horror"
)

var genreAliases = map[string]string{
	"sf":            "science fiction",
	"sci-fi":        "science fiction",
	"scifi":         "science fiction",
	"ya":            "young adult",
	"kidlit":        "children's",
	"kids":          "children's",
	"lit fic":       "literary fiction",
	"litfic":        "literary fiction",
	"detective":     "mystery",
	"whodunit":      "mystery",
	"self help":     "self-help",
	"memoirs":       "memoir",
	"biographies":   "biography",
	"cozy":          "cozy mystery",
	"paranormal":    "paranormal romance",
	"histfic":       "historical fiction",
	"picture books": "picture book",
}

var genreFamilies = map[string]GenreFamily{
	"science fiction":      FamilySpeculative,
	"space opera":          FamilySpeculative,
	"fantasy":              FamilySpeculative,
	"epic fantasy":         FamilySpeculative,
	"dark fantasy":         FamilyHorror,
	"horror":               FamilyHorror,
	"thriller":             FamilyCrime,
	"mystery":              FamilyCrime,
	"cozy mystery":         FamilyCrime,
	"true crime":           FamilyCrime,
	"romance":              FamilyRomance,
	"paranormal romance":   FamilyRomance,
	"literary fiction":     FamilyLiterary,
	"historical fiction":   FamilyLiterary,
	"memoir":               FamilyNonfiction,
	"biography":            FamilyNonfiction,
	"self-help":            FamilyNonfiction,
	"narrative nonfiction": FamilyNonfiction,
	"children's":           FamilyChildrens,
	"middle grade":         FamilyChildrens,
	"picture book":         FamilyChildrens,
	"young adult":          FamilyLiterary,
}

// NormalizeGenre lowercases, trims, and resolves common aliases.
func NormalizeGenre(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if canonical, ok := genreAliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// FamilyForGenre returns the coarse family for a normalized genre.
// Unknown genres default to literary, the least constrained family.
func FamilyForGenre(genre string) GenreFamily {
	if family, ok := genreFamilies[NormalizeGenre(genre)]; ok {
		return family
	}
	return FamilyLiterary
}

var titleCaser = cases.Title(language.AmericanEnglish)

// DisplayGenre renders a normalized genre for tables and generated artifacts.
func DisplayGenre(genre string) string {
	return titleCaser.String(NormalizeGenre(genre))
}

// DisplayName renders an imprint slug as a human readable title.
func DisplayName(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "-", " "))
}
