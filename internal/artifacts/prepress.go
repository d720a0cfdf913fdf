package artifacts

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"imprint/internal/imprint"
)

// prepressConfig describes the production workflow a print operator runs
// against the generated templates. Checksums pin each step to the exact
// template bytes so a stale template cannot slip through a proof cycle.
type prepressConfig struct {
	Imprint string          `yaml:"imprint"`
	Trim    prepressTrim    `yaml:"trim"`
	Binding string          `yaml:"binding"`
	Inputs  prepressInputs  `yaml:"inputs"`
	Steps   []prepressStep  `yaml:"steps"`
	Checks  []prepressCheck `yaml:"checks"`
}

type prepressTrim struct {
	Size      string  `yaml:"size"`
	WidthIn   float64 `yaml:"width_in"`
	HeightIn  float64 `yaml:"height_in"`
	PageCount int     `yaml:"page_count_target"`
	BleedIn   float64 `yaml:"bleed_in"`
}

type prepressInputs struct {
	Interior prepressInput `yaml:"interior"`
	Cover    prepressInput `yaml:"cover"`
}

type prepressInput struct {
	Artifact string `yaml:"artifact"`
	Checksum string `yaml:"checksum"`
}

type prepressStep struct {
	Name    string `yaml:"name"`
	Tool    string `yaml:"tool"`
	Input   string `yaml:"input,omitempty"`
	Output  string `yaml:"output,omitempty"`
	Depends string `yaml:"depends_on,omitempty"`
}

type prepressCheck struct {
	Name     string `yaml:"name"`
	Expected string `yaml:"expected"`
}

func generatePrepress(def imprint.Definition, upstream Set) ([]byte, error) {
	interior, ok := upstream[TypeInteriorTemplate]
	if !ok {
		return nil, &MissingDependencyError{ArtifactType: TypePrepressWorkflow, Missing: string(TypeInteriorTemplate)}
	}
	cover, ok := upstream[TypeCoverTemplate]
	if !ok {
		return nil, &MissingDependencyError{ArtifactType: TypePrepressWorkflow, Missing: string(TypeCoverTemplate)}
	}

	width, height := def.Design.TrimSize.Dimensions()
	cfg := prepressConfig{
		Imprint: def.Name,
		Trim: prepressTrim{
			Size:      string(def.Design.TrimSize),
			WidthIn:   width,
			HeightIn:  height,
			PageCount: def.Design.PageCountTarget,
			BleedIn:   bleedIn,
		},
		Binding: "perfect",
		Inputs: prepressInputs{
			Interior: prepressInput{Artifact: string(TypeInteriorTemplate), Checksum: interior.Checksum},
			Cover:    prepressInput{Artifact: string(TypeCoverTemplate), Checksum: cover.Checksum},
		},
		Steps: []prepressStep{
			{Name: "compile-interior", Tool: "tectonic", Input: "interior.tex", Output: "interior.pdf"},
			{Name: "compile-cover", Tool: "tectonic", Input: "cover.tex", Output: "cover.pdf"},
			{Name: "preflight", Tool: "pdfinfo", Input: "interior.pdf", Depends: "compile-interior"},
			{Name: "proof", Tool: "review", Input: "interior.pdf", Depends: "preflight"},
			{Name: "print-ready", Tool: "package", Output: "print-bundle.zip", Depends: "proof"},
		},
		Checks: []prepressCheck{
			{Name: "page-size", Expected: fmt.Sprintf("%sin x %sin", formatInches(width), formatInches(height))},
			{Name: "page-count-within-target", Expected: fmt.Sprintf("<= %d", def.Design.PageCountTarget)},
			{Name: "fonts-embedded", Expected: "all"},
		},
	}

	content, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode prepress workflow: %w", err)
	}
	return content, nil
}
