package artifacts

import (
	"strings"

	"imprint/internal/imprint"
)

// Cover geometry: front and back panels at trim size plus bleed on every
// outside edge, spine width derived from the page count target at a standard
// cream stock thickness.
const (
	bleedIn       = 0.125
	pagesPerInch  = 444.0
	minSpineWidth = 0.1
	coverTemplate = `% Cover template for imprint "{{.Name}}" ({{.DisplayName}})
% Wrap cover: back + spine + front at {{.TrimWidth}}in x {{.TrimHeight}}in trim, {{.Bleed}}in bleed.
\documentclass{article}
\usepackage[paperwidth={{.PaperWidth}}in,paperheight={{.PaperHeight}}in,margin=0in]{geometry}
\usepackage{tikz}
\usepackage{fontspec}
\setmainfont{{"{"}}{{.BodyFont}}}
\newfontfamily\displayfont{{"{"}}{{.DisplayFont}}}

\definecolor{imprintPrimary}{HTML}{{"{"}}{{.Primary}}}
\definecolor{imprintSecondary}{HTML}{{"{"}}{{.Secondary}}}
\definecolor{imprintAccent}{HTML}{{"{"}}{{.Accent}}}

\pagestyle{empty}
\begin{document}
\begin{tikzpicture}[remember picture,overlay]
  \fill[imprintPrimary] (current page.south west) rectangle (current page.north east);
  % Spine band
  \fill[imprintSecondary]
    ([xshift={{.SpineLeft}}in]current page.south west) rectangle
    ([xshift={{.SpineRight}}in]current page.north west);
  % Front panel title block
  \node[anchor=north east, text=imprintAccent, font=\displayfont\Huge,
        xshift=-0.75in, yshift=-1.25in] at (current page.north east)
    {Title Placeholder};
  \node[anchor=south east, text=imprintAccent, font=\displayfont\large,
        xshift=-0.75in, yshift=0.9in] at (current page.south east)
    {{"{"}}{{.DisplayName}}};
  % Back panel copy block
  \node[anchor=north west, text=imprintAccent, text width={{.BackTextWidth}}in,
        xshift=0.75in, yshift=-1.25in] at (current page.north west)
    {Back cover copy placeholder.};
\end{tikzpicture}
\end{document}
`
)

type coverData struct {
	Name          string
	DisplayName   string
	TrimWidth     string
	TrimHeight    string
	Bleed         string
	PaperWidth    string
	PaperHeight   string
	SpineLeft     string
	SpineRight    string
	BackTextWidth string
	BodyFont      string
	DisplayFont   string
	Primary       string
	Secondary     string
	Accent        string
}

func generateCover(def imprint.Definition, _ Set) ([]byte, error) {
	if !def.Design.TrimSize.Valid() {
		return nil, &MissingDependencyError{ArtifactType: TypeCoverTemplate, Missing: "design.trim_size"}
	}
	if !def.Design.Palette.Valid() {
		return nil, &MissingDependencyError{ArtifactType: TypeCoverTemplate, Missing: "design.palette"}
	}
	if strings.TrimSpace(def.Design.DisplayFont) == "" {
		return nil, &MissingDependencyError{ArtifactType: TypeCoverTemplate, Missing: "design.display_font"}
	}
	if def.Design.PageCountTarget <= 0 {
		return nil, &MissingDependencyError{ArtifactType: TypeCoverTemplate, Missing: "design.page_count_target"}
	}

	width, height := def.Design.TrimSize.Dimensions()
	spine := float64(def.Design.PageCountTarget) / pagesPerInch
	if spine < minSpineWidth {
		spine = minSpineWidth
	}
	paperWidth := 2*width + spine + 2*bleedIn
	paperHeight := height + 2*bleedIn

	data := coverData{
		Name:          def.Name,
		DisplayName:   imprint.DisplayName(def.Name),
		TrimWidth:     formatInches(width),
		TrimHeight:    formatInches(height),
		Bleed:         formatInches(bleedIn),
		PaperWidth:    formatInches(paperWidth),
		PaperHeight:   formatInches(paperHeight),
		SpineLeft:     formatInches(bleedIn + width),
		SpineRight:    formatInches(bleedIn + width + spine),
		BackTextWidth: formatInches(width - 1.5),
		BodyFont:      def.Design.BodyFont,
		DisplayFont:   def.Design.DisplayFont,
		Primary:       def.Design.Palette.Primary.HexTriplet(),
		Secondary:     def.Design.Palette.Secondary.HexTriplet(),
		Accent:        def.Design.Palette.Accent.HexTriplet(),
	}
	return renderTemplate("cover", coverTemplate, data)
}
