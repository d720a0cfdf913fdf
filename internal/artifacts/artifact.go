package artifacts

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Type identifies one of the derived deliverables.
type Type string

const (
	TypeInteriorTemplate Type = "interior-template"
	TypeCoverTemplate    Type = "cover-template"
	TypePromptSet        Type = "prompt-set"
	TypePrepressWorkflow Type = "prepress-workflow"
	TypeSchedule         Type = "schedule"
)

// AllTypes returns the artifact types in generation-friendly display order.
func AllTypes() []Type {
	return []Type{
		TypeInteriorTemplate,
		TypeCoverTemplate,
		TypePromptSet,
		TypePrepressWorkflow,
		TypeSchedule,
	}
}

// Artifact is one generated deliverable. Content is deterministic derived
// data; it is never hand-edited, only regenerated wholesale.
type Artifact struct {
	Type        Type      `json:"type"`
	ImprintName string    `json:"imprint_name"`
	Version     string    `json:"version"`
	Format      string    `json:"format"`
	Content     []byte    `json:"content"`
	Checksum    string    `json:"checksum"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Set holds the complete artifact bundle keyed by type.
type Set map[Type]Artifact

// Complete reports whether every core artifact type is present.
func (s Set) Complete() bool {
	for _, t := range AllTypes() {
		if _, ok := s[t]; !ok {
			return false
		}
	}
	return true
}

// Clone copies the set, including content buffers, so archived snapshots
// cannot alias live artifact data.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	cp := make(Set, len(s))
	for t, a := range s {
		a.Content = append([]byte(nil), a.Content...)
		cp[t] = a
	}
	return cp
}

// MissingDependencyError reports a generator invoked before its prerequisite
// field or upstream artifact exists. This is an ordering bug in the caller,
// not user-correctable input.
type MissingDependencyError struct {
	ArtifactType Type
	Missing      string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("generator %s: missing dependency %s", e.ArtifactType, e.Missing)
}

func checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
