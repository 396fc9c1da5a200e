package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/smartagri/seat-allocator/pkg/core/model"
	"github.com/smartagri/seat-allocator/pkg/db"
)

const applicantColumns = `id, scheme_id, submission_seq, applicant_name, aadhaar_number, phone_number,
	district, category, income, land_size, impact_score, status, submitted_at`

// querier is satisfied by both the pool and a transaction
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanApplicant(row pgx.Row) (*model.Applicant, error) {
	var a model.Applicant
	var category, status string
	if err := row.Scan(&a.ID, &a.SchemeID, &a.SubmissionSeq, &a.ApplicantName, &a.AadhaarNumber, &a.PhoneNumber,
		&a.District, &category, &a.Income, &a.LandSize, &a.ImpactScore, &status, &a.SubmittedAt); err != nil {
		return nil, err
	}
	a.Category = model.Category(category)
	a.Status = model.Status(status)
	return &a, nil
}

func queryApplicants(ctx context.Context, q querier, sql string, args ...any) ([]model.Applicant, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query applicants: %w", err)
	}
	defer rows.Close()

	var applicants []model.Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan applicant: %w", err)
		}
		applicants = append(applicants, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applicants: %w", err)
	}

	return applicants, nil
}

// GetApplicant retrieves an applicant by ID
func (d *DB) GetApplicant(ctx context.Context, applicantID string) (*model.Applicant, error) {
	a, err := scanApplicant(d.pool.QueryRow(ctx, `SELECT `+applicantColumns+` FROM applicant WHERE id = $1`, applicantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", db.ErrApplicantNotFound, applicantID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query applicant: %w", err)
	}
	return a, nil
}

// FindApplicant looks up a scheme's application by aadhaar number
func (d *DB) FindApplicant(ctx context.Context, schemeID, aadhaarNumber string) (*model.Applicant, error) {
	a, err := scanApplicant(d.pool.QueryRow(ctx, `
		SELECT `+applicantColumns+` FROM applicant WHERE scheme_id = $1 AND aadhaar_number = $2
	`, schemeID, aadhaarNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: scheme %s", db.ErrApplicantNotFound, schemeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query applicant: %w", err)
	}
	return a, nil
}

// ListApplicants retrieves all of a scheme's applicants in submission order
func (d *DB) ListApplicants(ctx context.Context, schemeID string) ([]model.Applicant, error) {
	return queryApplicants(ctx, d.pool, `
		SELECT `+applicantColumns+` FROM applicant WHERE scheme_id = $1 ORDER BY submission_seq
	`, schemeID)
}

// ListPendingApplicants retrieves a scheme's pending applicants in submission order
func (d *DB) ListPendingApplicants(ctx context.Context, schemeID string) ([]model.Applicant, error) {
	return queryApplicants(ctx, d.pool, `
		SELECT `+applicantColumns+` FROM applicant
		WHERE scheme_id = $1 AND status = $2
		ORDER BY submission_seq
	`, schemeID, string(model.StatusPending))
}

// ListWaitingApplicants retrieves a district's waitlist, highest score first
func (d *DB) ListWaitingApplicants(ctx context.Context, schemeID, district string) ([]model.Applicant, error) {
	return listWaiting(ctx, d.pool, schemeID, district, false)
}

func listWaiting(ctx context.Context, q querier, schemeID, district string, forUpdate bool) ([]model.Applicant, error) {
	sql := `
		SELECT ` + applicantColumns + ` FROM applicant
		WHERE scheme_id = $1 AND district = $2 AND status = $3
		ORDER BY impact_score DESC, submission_seq`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	return queryApplicants(ctx, q, sql, schemeID, district, string(model.StatusWaiting))
}

// InsertApplicant inserts a new applicant; the database assigns the submission sequence.
// The scheme row is share-locked for the insert, so it cannot interleave with a committing
// allocation pass.
func (d *DB) InsertApplicant(ctx context.Context, a *model.Applicant) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked bool
	err = tx.QueryRow(ctx, `SELECT allocation_locked FROM scheme WHERE id = $1 FOR SHARE`, a.SchemeID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", db.ErrSchemeNotFound, a.SchemeID)
	}
	if err != nil {
		return fmt.Errorf("failed to lock scheme: %w", err)
	}
	if locked {
		return fmt.Errorf("%w: %s", db.ErrAllocationLocked, a.SchemeID)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO applicant (id, scheme_id, applicant_name, aadhaar_number, phone_number, district,
			category, income, land_size, impact_score, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING submission_seq, submitted_at
	`, a.ID, a.SchemeID, a.ApplicantName, a.AadhaarNumber, a.PhoneNumber, a.District,
		string(a.Category), a.Income, a.LandSize, a.ImpactScore, string(a.Status)).Scan(&a.SubmissionSeq, &a.SubmittedAt)
	if isUniqueViolation(err, applicantAadhaarConstraint) {
		return fmt.Errorf("%w: %s", db.ErrDuplicateApplicant, a.SchemeID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert applicant: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const (
	uniqueViolationCode = "23505"

	// applicantAadhaarConstraint is the name Postgres gives UNIQUE (scheme_id, aadhaar_number)
	applicantAadhaarConstraint = "applicant_scheme_id_aadhaar_number_key"
)

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == constraint
}
