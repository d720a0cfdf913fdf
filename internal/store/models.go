package store

import (
	"time"

	"imprint/internal/artifacts"
	"imprint/internal/imprint"
)

// Tier is the promotion stage an imprint record currently occupies.
type Tier string

const (
	TierDraft      Tier = "draft"
	TierStaging    Tier = "staging"
	TierProduction Tier = "production"
	TierArchive    Tier = "archive"
)

// Tiers lists the live tiers in promotion order. Archive is terminal and
// lives in its own table.
func Tiers() []Tier {
	return []Tier{TierDraft, TierStaging, TierProduction}
}

// Valid reports whether the tier is one of the known live tiers or archive.
func (t Tier) Valid() bool {
	switch t {
	case TierDraft, TierStaging, TierProduction, TierArchive:
		return true
	default:
		return false
	}
}

// rank orders live tiers so Current can pick the most promoted record.
func (t Tier) rank() int {
	switch t {
	case TierProduction:
		return 3
	case TierStaging:
		return 2
	case TierDraft:
		return 1
	default:
		return 0
	}
}

// Record is one live imprint definition at a tier, together with the
// artifact bundle generated from it. A name holds at most one record per
// tier.
type Record struct {
	ID         int64
	Name       string
	Version    string
	Tier       Tier
	Definition imprint.Definition
	Artifacts  artifacts.Set
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ArchiveEntry is an immutable snapshot of a record at the moment it left
// the live tiers. Entries are append-only; nothing updates or deletes them.
type ArchiveEntry struct {
	ID         int64
	Name       string
	Version    string
	Tier       Tier
	Definition imprint.Definition
	Artifacts  artifacts.Set
	Reason     string
	ArchivedAt time.Time
}

// Archive reasons recorded when a live record leaves its tier.
const (
	ReasonSuperseded = "superseded"
	ReasonDeprecated = "deprecated"
)
