package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/smartagri/seat-allocator/pkg/core/model"
	"github.com/smartagri/seat-allocator/pkg/db"
)

// UpdateStatus changes one applicant's status. When the policy triggers, a transaction-scoped
// advisory lock on (scheme_id, district) serialises promotion so two rejections in the same
// district cannot both promote the same waitlisted applicant.
func (d *DB) UpdateStatus(ctx context.Context, applicantID string, status model.Status, policy db.PromotionPolicy) (*db.StatusUpdate, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	applicant, err := scanApplicant(tx.QueryRow(ctx, `
		SELECT `+applicantColumns+` FROM applicant WHERE id = $1 FOR UPDATE
	`, applicantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", db.ErrApplicantNotFound, applicantID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock applicant: %w", err)
	}

	previous := applicant.Status
	if err := model.ValidateTransition(previous, status); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE applicant SET status = $2, updated_at = NOW() WHERE id = $1
	`, applicantID, string(status)); err != nil {
		return nil, fmt.Errorf("failed to update applicant status: %w", err)
	}
	applicant.Status = status

	var promoted *model.Applicant
	if policy != nil && policy.Triggers(previous, status) {
		promoted, err = promote(ctx, tx, applicant.SchemeID, applicant.District, policy)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &db.StatusUpdate{
		Applicant:      *applicant,
		PreviousStatus: previous,
		Promoted:       promoted,
	}, nil
}

// promote selects and promotes one waitlisted applicant inside tx
func promote(ctx context.Context, tx pgx.Tx, schemeID, district string, policy db.PromotionPolicy) (*model.Applicant, error) {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))`, schemeID, district); err != nil {
		return nil, fmt.Errorf("failed to acquire district lock: %w", err)
	}

	waiting, err := listWaiting(ctx, tx, schemeID, district, true)
	if err != nil {
		return nil, err
	}

	candidate, found := policy.Select(waiting)
	if !found {
		return nil, nil
	}

	tag, err := tx.Exec(ctx, `
		UPDATE applicant SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3
	`, candidate.ID, string(model.StatusProvisionallyApproved), string(model.StatusWaiting))
	if err != nil {
		return nil, fmt.Errorf("failed to promote applicant %s: %w", candidate.ID, err)
	}
	if tag.RowsAffected() != 1 {
		return nil, fmt.Errorf("failed to promote applicant %s: no longer waiting", candidate.ID)
	}

	candidate.Status = model.StatusProvisionallyApproved
	return &candidate, nil
}
