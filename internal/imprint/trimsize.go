package imprint

import (
	"fmt"
	"strings"
)

// TrimSize is one of the enumerated physical book dimensions supported by the
// template generators and print workflow.
type TrimSize string

const (
	Trim5x8   TrimSize = "5x8"
	Trim525x8 TrimSize = "5.25x8"
	Trim55x85 TrimSize = "5.5x8.5"
	Trim6x9   TrimSize = "6x9"
	Trim7x10  TrimSize = "7x10"
	Trim85x11 TrimSize = "8.5x11"
)

type trimGeometry struct {
	widthIn  float64
	heightIn float64
	// maxComfortablePages is the page count beyond which this trim reads as
	// cramped at standard body sizes; the consistency checker warns past it.
	maxComfortablePages int
}

var trimTable = map[TrimSize]trimGeometry{
	Trim5x8:   {5.0, 8.0, 280},
	Trim525x8: {5.25, 8.0, 320},
	Trim55x85: {5.5, 8.5, 380},
	Trim6x9:   {6.0, 9.0, 600},
	Trim7x10:  {7.0, 10.0, 800},
	Trim85x11: {8.5, 11.0, 1000},
}

var trimOrder = []TrimSize{Trim5x8, Trim525x8, Trim55x85, Trim6x9, Trim7x10, Trim85x11}

// AllTrimSizes returns the supported trim sizes in ascending page-area order.
func AllTrimSizes() []TrimSize {
	cp := make([]TrimSize, len(trimOrder))
	copy(cp, trimOrder)
	return cp
}

// ParseTrimSize normalizes a user or model supplied trim value. It tolerates
// whitespace, an "in" suffix, inch marks on either dimension, and the unicode
// multiplication sign.
func ParseTrimSize(value string) (TrimSize, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, "×", "x")
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ReplaceAll(normalized, "\"", "")
	normalized = strings.TrimSuffix(normalized, "in")
	candidate := TrimSize(normalized)
	_, ok := trimTable[candidate]
	return candidate, ok
}

// Valid reports whether the trim size is in the supported set.
func (t TrimSize) Valid() bool {
	_, ok := trimTable[t]
	return ok
}

// Dimensions returns the trim width and height in inches.
func (t TrimSize) Dimensions() (width, height float64) {
	geom := trimTable[t]
	return geom.widthIn, geom.heightIn
}

// MaxComfortablePages returns the page count ceiling used by the
// trim-vs-page-count consistency rule. Zero for unknown trims.
func (t TrimSize) MaxComfortablePages() int {
	return trimTable[t].maxComfortablePages
}

// NextLarger returns the next larger supported trim, or the same trim when it
// is already the largest. Used to build suggested fixes.
func (t TrimSize) NextLarger() TrimSize {
	for i, candidate := range trimOrder {
		if candidate == t && i+1 < len(trimOrder) {
			return trimOrder[i+1]
		}
	}
	return t
}

func (t TrimSize) String() string { return string(t) }

// MustParseTrimSize is a test and defaults-table helper.
func MustParseTrimSize(value string) TrimSize {
	trim, ok := ParseTrimSize(value)
	if !ok {
		panic(fmt.Sprintf("unsupported trim size %q", value))
	}
	return trim
}
