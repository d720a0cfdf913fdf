package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"imprint/internal/artifacts"
	"imprint/internal/imprint"
)

const recordColumns = "id, name, version, tier, definition_json, artifacts_json, created_at, updated_at"

// SaveDraft writes a new draft record for the imprint. An existing draft for
// the same name is archived as superseded inside the same transaction, so a
// failed save never loses the previous draft.
func (s *Store) SaveDraft(ctx context.Context, def imprint.Definition, version string, set artifacts.Set) (*Record, error) {
	ctx = ensureContext(ctx)
	defJSON, artJSON, err := encodeRecord(def, set)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	err = retryOnBusy(ctx, func() error {
		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return txErr
		}
		defer tx.Rollback()

		if archErr := archiveTierTx(ctx, tx, def.Name, TierDraft, ReasonSuperseded, timestamp); archErr != nil {
			return archErr
		}
		if _, execErr := tx.ExecContext(
			ctx,
			`INSERT INTO imprints (name, version, tier, definition_json, artifacts_json, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			def.Name, version, TierDraft, defJSON, artJSON, timestamp, timestamp,
		); execErr != nil {
			return execErr
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return s.Get(ctx, def.Name, TierDraft)
}

// ReplaceArtifacts swaps the artifact bundle on a live record, keeping the
// definition and tier untouched. The version argument pins the write to the
// record the caller generated against; a record replaced in between makes the
// swap fail instead of attaching a bundle derived from stale bytes.
func (s *Store) ReplaceArtifacts(ctx context.Context, name string, tier Tier, version string, set artifacts.Set) error {
	artJSON, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal artifacts: %w", err)
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE imprints SET artifacts_json = ?, updated_at = ? WHERE name = ? AND tier = ? AND version = ?`,
		string(artJSON),
		time.Now().UTC().Format(time.RFC3339Nano),
		name,
		tier,
		version,
	)
	if err != nil {
		return fmt.Errorf("replace artifacts: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("replace artifacts: no %s record for %q at version %s", tier, name, version)
	}
	return nil
}

// Get fetches the record for a name at a tier, or nil when absent.
func (s *Store) Get(ctx context.Context, name string, tier Tier) (*Record, error) {
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT `+recordColumns+` FROM imprints WHERE name = ? AND tier = ?`,
		name, tier,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// GetVersion fetches a live record by name and version regardless of tier.
func (s *Store) GetVersion(ctx context.Context, name, version string) (*Record, error) {
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT `+recordColumns+` FROM imprints WHERE name = ? AND version = ? LIMIT 1`,
		name, version,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get version: %w", err)
	}
	return rec, nil
}

// Current returns the most promoted live record for a name, or nil when the
// name has no live records at all.
func (s *Store) Current(ctx context.Context, name string) (*Record, error) {
	records, err := s.ByName(ctx, name)
	if err != nil {
		return nil, err
	}
	var current *Record
	for _, rec := range records {
		if current == nil || rec.Tier.rank() > current.Tier.rank() {
			current = rec
		}
	}
	return current, nil
}

// ByName returns every live record for a name across tiers.
func (s *Store) ByName(ctx context.Context, name string) ([]*Record, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+recordColumns+` FROM imprints WHERE name = ? ORDER BY created_at`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("query by name: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// List returns live records filtered by tier set, or all records when no
// tier is provided, ordered by name then tier rank.
func (s *Store) List(ctx context.Context, tiers ...Tier) ([]*Record, error) {
	ctx = ensureContext(ctx)
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + recordColumns + ` FROM imprints`
	orderClause := ` ORDER BY name, tier`

	if len(tiers) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(tiers))
		args := make([]any, len(tiers))
		for i, tier := range tiers {
			args[i] = tier
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE tier IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// History returns the archive trail for a name, oldest first.
func (s *Store) History(ctx context.Context, name string) ([]ArchiveEntry, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT id, name, version, tier, definition_json, artifacts_json, reason, archived_at
         FROM imprint_archive WHERE name = ? ORDER BY archived_at, id`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []ArchiveEntry
	for rows.Next() {
		var (
			entry       ArchiveEntry
			tierStr     string
			defJSON     string
			artJSON     string
			archivedRaw string
		)
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.Version, &tierStr, &defJSON, &artJSON, &entry.Reason, &archivedRaw); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entry.Tier = Tier(tierStr)
		if err := decodeRecordJSON(defJSON, artJSON, &entry.Definition, &entry.Artifacts); err != nil {
			return nil, err
		}
		if archived, err := parseTimeString(archivedRaw); err == nil {
			entry.ArchivedAt = archived
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Stats returns a count of live records grouped by tier.
func (s *Store) Stats(ctx context.Context) (map[Tier]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT tier, COUNT(1) FROM imprints GROUP BY tier`)
	if err != nil {
		return nil, fmt.Errorf("store stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Tier]int)
	for rows.Next() {
		var tier Tier
		var count int
		if err := rows.Scan(&tier, &count); err != nil {
			return nil, err
		}
		stats[tier] = count
	}
	return stats, rows.Err()
}

func collectRecords(rows *sql.Rows) ([]*Record, error) {
	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		rec        Record
		tierStr    string
		defJSON    string
		artJSON    string
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&rec.ID, &rec.Name, &rec.Version, &tierStr, &defJSON, &artJSON, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	rec.Tier = Tier(tierStr)
	if err := decodeRecordJSON(defJSON, artJSON, &rec.Definition, &rec.Artifacts); err != nil {
		return nil, err
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		rec.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		rec.UpdatedAt = updated
	}
	return &rec, nil
}

func encodeRecord(def imprint.Definition, set artifacts.Set) (string, string, error) {
	defJSON, err := json.Marshal(def)
	if err != nil {
		return "", "", fmt.Errorf("marshal definition: %w", err)
	}
	artJSON, err := json.Marshal(set)
	if err != nil {
		return "", "", fmt.Errorf("marshal artifacts: %w", err)
	}
	return string(defJSON), string(artJSON), nil
}

func decodeRecordJSON(defJSON, artJSON string, def *imprint.Definition, set *artifacts.Set) error {
	if err := json.Unmarshal([]byte(defJSON), def); err != nil {
		return fmt.Errorf("unmarshal definition: %w", err)
	}
	if artJSON != "" {
		if err := json.Unmarshal([]byte(artJSON), set); err != nil {
			return fmt.Errorf("unmarshal artifacts: %w", err)
		}
	}
	return nil
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
