package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"

	"github.com/smartagri/seat-allocator/pkg/core/model"
	"github.com/smartagri/seat-allocator/pkg/db"
)

// CommitAllocation writes the allocation pass and flips the scheme lock in one transaction.
// The scheme row is locked first, so a concurrent pass for the same scheme blocks here and
// then observes the lock set by whichever committed first. Inserts take a share lock on the
// same row, so once it is held the pending set below cannot grow.
func (d *DB) CommitAllocation(ctx context.Context, schemeID string, pending []string, changes map[string]model.Status) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked bool
	err = tx.QueryRow(ctx, `SELECT allocation_locked FROM scheme WHERE id = $1 FOR UPDATE`, schemeID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", db.ErrSchemeNotFound, schemeID)
	}
	if err != nil {
		return fmt.Errorf("failed to lock scheme: %w", err)
	}
	if locked {
		return fmt.Errorf("%w: %s", db.ErrAllocationLocked, schemeID)
	}

	current, err := pendingIDs(ctx, tx, schemeID)
	if err != nil {
		return err
	}
	if db.PendingChanged(pending, current) {
		return fmt.Errorf("%w: %s", db.ErrStaleApplicant, schemeID)
	}

	for _, id := range sortedKeys(changes) {
		tag, err := tx.Exec(ctx, `
			UPDATE applicant SET status = $2, updated_at = NOW()
			WHERE id = $1 AND scheme_id = $3 AND status = $4
		`, id, string(changes[id]), schemeID, string(model.StatusPending))
		if err != nil {
			return fmt.Errorf("failed to update applicant %s: %w", id, err)
		}
		if tag.RowsAffected() != 1 {
			return fmt.Errorf("%w: %s", db.ErrStaleApplicant, id)
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE scheme SET allocation_locked = TRUE WHERE id = $1`, schemeID); err != nil {
		return fmt.Errorf("failed to lock scheme allocation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// sortedKeys gives a fixed update order so concurrent writers acquire row locks consistently
func sortedKeys(changes map[string]model.Status) []string {
	keys := make([]string, 0, len(changes))
	for id := range changes {
		keys = append(keys, id)
	}
	slices.Sort(keys)
	return keys
}

// pendingIDs locks and returns the scheme's pending applicant IDs in ID order
func pendingIDs(ctx context.Context, tx pgx.Tx, schemeID string) ([]string, error) {
	rows, err := tx.Query(ctx, `
		SELECT id FROM applicant WHERE scheme_id = $1 AND status = $2 ORDER BY id FOR UPDATE
	`, schemeID, string(model.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("failed to query pending applicants: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan pending applicants: %w", err)
	}
	return ids, nil
}
