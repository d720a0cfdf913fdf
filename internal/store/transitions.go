package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CommitPromotion moves the named record from one tier to the next inside a
// single transaction. When the destination tier is already occupied, the
// occupant is archived as superseded in the same transaction, so a reader
// never observes two records at one tier or a gap where the old one was.
//
// The version argument pins the promotion to the record the caller
// validated; a concurrent replacement makes the commit fail instead of
// promoting bytes nobody checked.
func (s *Store) CommitPromotion(ctx context.Context, name, version string, from, to Tier) (*Record, error) {
	ctx = ensureContext(ctx)
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	err := retryOnBusy(ctx, func() error {
		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return txErr
		}
		defer tx.Rollback()

		var id int64
		row := tx.QueryRowContext(
			ctx,
			`SELECT id FROM imprints WHERE name = ? AND tier = ? AND version = ?`,
			name, from, version,
		)
		if scanErr := row.Scan(&id); scanErr != nil {
			if errors.Is(scanErr, sql.ErrNoRows) {
				return fmt.Errorf("no %s record for %q at version %s", from, name, version)
			}
			return scanErr
		}

		if archErr := archiveTierTx(ctx, tx, name, to, ReasonSuperseded, timestamp); archErr != nil {
			return archErr
		}
		if _, execErr := tx.ExecContext(
			ctx,
			`UPDATE imprints SET tier = ?, updated_at = ? WHERE id = ?`,
			to, timestamp, id,
		); execErr != nil {
			return execErr
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, fmt.Errorf("commit promotion: %w", err)
	}
	return s.Get(ctx, name, to)
}

// Deprecate archives the record at the given tier with the deprecated
// reason. It reports whether a record was actually archived.
func (s *Store) Deprecate(ctx context.Context, name string, tier Tier) (bool, error) {
	ctx = ensureContext(ctx)
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	archived := false
	err := retryOnBusy(ctx, func() error {
		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return txErr
		}
		defer tx.Rollback()

		moved, archErr := archiveTierMovedTx(ctx, tx, name, tier, ReasonDeprecated, timestamp)
		if archErr != nil {
			return archErr
		}
		archived = moved
		return tx.Commit()
	})
	if err != nil {
		return false, fmt.Errorf("deprecate: %w", err)
	}
	return archived, nil
}

// archiveTierTx copies the occupant of a tier into the archive and removes
// it from the live table. A vacant tier is a no-op.
func archiveTierTx(ctx context.Context, tx *sql.Tx, name string, tier Tier, reason, timestamp string) error {
	_, err := archiveTierMovedTx(ctx, tx, name, tier, reason, timestamp)
	return err
}

func archiveTierMovedTx(ctx context.Context, tx *sql.Tx, name string, tier Tier, reason, timestamp string) (bool, error) {
	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO imprint_archive (name, version, tier, definition_json, artifacts_json, reason, archived_at)
         SELECT name, version, tier, definition_json, artifacts_json, ?, ?
         FROM imprints WHERE name = ? AND tier = ?`,
		reason, timestamp, name, tier,
	)
	if err != nil {
		return false, fmt.Errorf("archive %s record: %w", tier, err)
	}
	copied, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if copied == 0 {
		return false, nil
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM imprints WHERE name = ? AND tier = ?`, name, tier); err != nil {
		return false, fmt.Errorf("remove archived %s record: %w", tier, err)
	}
	return true, nil
}
