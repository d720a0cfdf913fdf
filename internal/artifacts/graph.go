package artifacts

import (
	"fmt"
	"time"

	"imprint/internal/imprint"
)

// generator is one node in the dependency graph. generate must be a pure
// function of the definition and its declared upstream artifacts.
type generator struct {
	artifactType Type
	format       string
	requires     []Type
	generate     func(def imprint.Definition, upstream Set) ([]byte, error)
}

// graph returns the full generator table. New artifact types join the
// pipeline by declaring their dependencies here; evaluation order is derived,
// not hand-maintained.
func graph() []generator {
	return []generator{
		{artifactType: TypeInteriorTemplate, format: "tex", generate: generateInterior},
		{artifactType: TypeCoverTemplate, format: "tex", generate: generateCover},
		{artifactType: TypePromptSet, format: "json", generate: generatePromptSet},
		{
			artifactType: TypePrepressWorkflow,
			format:       "yaml",
			requires:     []Type{TypeInteriorTemplate, TypeCoverTemplate},
			generate:     generatePrepress,
		},
		{
			artifactType: TypeSchedule,
			format:       "json",
			requires:     []Type{TypePrepressWorkflow},
			generate:     generateSchedule,
		},
	}
}

// GenerateAll evaluates every generator in topological order and returns the
// complete bundle, or the first failure with nothing partial exposed.
// Version tags the artifacts with the definition version they derive from.
func GenerateAll(def imprint.Definition, version string, now time.Time) (Set, error) {
	order, err := topoOrder(graph())
	if err != nil {
		return nil, err
	}

	set := make(Set, len(order))
	for _, gen := range order {
		for _, required := range gen.requires {
			if _, ok := set[required]; !ok {
				return nil, &MissingDependencyError{ArtifactType: gen.artifactType, Missing: string(required)}
			}
		}
		content, err := gen.generate(def, set)
		if err != nil {
			return nil, err
		}
		set[gen.artifactType] = Artifact{
			Type:        gen.artifactType,
			ImprintName: def.Name,
			Version:     version,
			Format:      gen.format,
			Content:     content,
			Checksum:    checksum(content),
			GeneratedAt: now.UTC(),
		}
	}
	return set, nil
}

// topoOrder sorts generators so every node follows its dependencies.
func topoOrder(gens []generator) ([]generator, error) {
	byType := make(map[Type]generator, len(gens))
	for _, gen := range gens {
		byType[gen.artifactType] = gen
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[Type]int, len(gens))
	var order []generator

	var visit func(t Type) error
	visit = func(t Type) error {
		switch state[t] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("artifact graph: dependency cycle through %s", t)
		}
		gen, ok := byType[t]
		if !ok {
			return fmt.Errorf("artifact graph: unknown dependency %s", t)
		}
		state[t] = visiting
		for _, dep := range gen.requires {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[t] = done
		order = append(order, gen)
		return nil
	}

	for _, gen := range gens {
		if err := visit(gen.artifactType); err != nil {
			return nil, err
		}
	}
	return order, nil
}
