package artifacts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"imprint/internal/imprint"
)

// interiorTemplate is a memoir-class book interior parameterized by the
// design strategy. Geometry is computed here so the template and the
// definition can never disagree about the page.
const interiorTemplate = `% Interior template for imprint "{{.Name}}" ({{.DisplayName}})
% Trim size {{.TrimWidth}}in x {{.TrimHeight}}in, generated by the imprint pipeline. Do not hand-edit.
\documentclass[11pt,twoside]{memoir}
\setstocksize{{"{"}}{{.TrimHeight}}in}{{"{"}}{{.TrimWidth}}in}
\settrimmedsize{\stockheight}{\stockwidth}{*}
\setlrmarginsandblock{{"{"}}{{.InnerMargin}}in}{{"{"}}{{.OuterMargin}}in}{*}
\setulmarginsandblock{{"{"}}{{.TopMargin}}in}{{"{"}}{{.BottomMargin}}in}{*}
\checkandfixthelayout

\usepackage{fontspec}
\setmainfont{{"{"}}{{.BodyFont}}}
\newfontfamily\displayfont{{"{"}}{{.DisplayFont}}}

\renewcommand*{\chaptitlefont}{\displayfont\Huge}
\setlength{\parindent}{1.2em}

% House style: {{.Tone}}
\begin{document}
\frontmatter
\title{\displayfont Title Placeholder}
\author{Author Placeholder}
\maketitle

\mainmatter
\chapter{Chapter One}
Body text placeholder set in {{.BodyFont}} at a {{.PageCount}}-page target.

\backmatter
\end{document}
`

type interiorData struct {
	Name         string
	DisplayName  string
	TrimWidth    string
	TrimHeight   string
	InnerMargin  string
	OuterMargin  string
	TopMargin    string
	BottomMargin string
	BodyFont     string
	DisplayFont  string
	Tone         string
	PageCount    int
}

func generateInterior(def imprint.Definition, _ Set) ([]byte, error) {
	if !def.Design.TrimSize.Valid() {
		return nil, &MissingDependencyError{ArtifactType: TypeInteriorTemplate, Missing: "design.trim_size"}
	}
	if strings.TrimSpace(def.Design.BodyFont) == "" {
		return nil, &MissingDependencyError{ArtifactType: TypeInteriorTemplate, Missing: "design.body_font"}
	}
	if strings.TrimSpace(def.Design.DisplayFont) == "" {
		return nil, &MissingDependencyError{ArtifactType: TypeInteriorTemplate, Missing: "design.display_font"}
	}
	if def.Design.Margins == (imprint.Margins{}) {
		return nil, &MissingDependencyError{ArtifactType: TypeInteriorTemplate, Missing: "design.margins"}
	}

	width, height := def.Design.TrimSize.Dimensions()
	data := interiorData{
		Name:         def.Name,
		DisplayName:  imprint.DisplayName(def.Name),
		TrimWidth:    formatInches(width),
		TrimHeight:   formatInches(height),
		InnerMargin:  formatInches(def.Design.Margins.InnerIn),
		OuterMargin:  formatInches(def.Design.Margins.OuterIn),
		TopMargin:    formatInches(def.Design.Margins.TopIn),
		BottomMargin: formatInches(def.Design.Margins.BottomIn),
		BodyFont:     def.Design.BodyFont,
		DisplayFont:  def.Design.DisplayFont,
		Tone:         def.Focus.Tone,
		PageCount:    def.Design.PageCountTarget,
	}
	return renderTemplate("interior", interiorTemplate, data)
}

func renderTemplate(name, text string, data any) ([]byte, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s template: %w", name, err)
	}
	return buf.Bytes(), nil
}

func formatInches(value float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", value), "0"), ".")
}
