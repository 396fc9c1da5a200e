package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/smartagri/seat-allocator/pkg/core/model"
	"github.com/smartagri/seat-allocator/pkg/db"
)

const schemeColumns = `id, title, description, max_income, max_land_size, deadline,
	district_quotas, reservations, allocation_locked, created_at`

// schemeRecord holds a scheme row as stored, before its configuration documents are parsed
type schemeRecord struct {
	ID               string
	Title            string
	Description      string
	MaxIncome        *int
	MaxLandSize      *float64
	Deadline         string
	DistrictQuotas   string
	Reservations     string
	AllocationLocked bool
	CreatedAt        time.Time
}

func (r schemeRecord) toModel() *model.Scheme {
	quotas, reservations, malformed := model.ParseSchemeConfig(r.DistrictQuotas, r.Reservations)
	return &model.Scheme{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		MaxIncome:        r.MaxIncome,
		MaxLandSize:      r.MaxLandSize,
		Deadline:         r.Deadline,
		DistrictQuotas:   quotas,
		Reservations:     reservations,
		ConfigMalformed:  malformed,
		AllocationLocked: r.AllocationLocked,
		CreatedAt:        r.CreatedAt,
	}
}

func scanScheme(row pgx.Row) (*model.Scheme, error) {
	var r schemeRecord
	if err := row.Scan(&r.ID, &r.Title, &r.Description, &r.MaxIncome, &r.MaxLandSize, &r.Deadline,
		&r.DistrictQuotas, &r.Reservations, &r.AllocationLocked, &r.CreatedAt); err != nil {
		return nil, err
	}
	return r.toModel(), nil
}

// GetScheme retrieves a scheme by ID
func (d *DB) GetScheme(ctx context.Context, schemeID string) (*model.Scheme, error) {
	scheme, err := scanScheme(d.pool.QueryRow(ctx, `SELECT `+schemeColumns+` FROM scheme WHERE id = $1`, schemeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", db.ErrSchemeNotFound, schemeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query scheme: %w", err)
	}
	return scheme, nil
}

// ListSchemes retrieves all schemes in creation order
func (d *DB) ListSchemes(ctx context.Context) ([]model.Scheme, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+schemeColumns+` FROM scheme ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schemes: %w", err)
	}
	defer rows.Close()

	var schemes []model.Scheme
	for rows.Next() {
		scheme, err := scanScheme(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheme: %w", err)
		}
		schemes = append(schemes, *scheme)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schemes: %w", err)
	}

	return schemes, nil
}

// InsertScheme inserts a new scheme record, assigning an ID if it has none
func (d *DB) InsertScheme(ctx context.Context, scheme *model.Scheme) error {
	if scheme.ID == "" {
		scheme.ID = uuid.New().String()
	}

	quotas, reservations, err := model.EncodeSchemeConfig(scheme.DistrictQuotas, scheme.Reservations)
	if err != nil {
		return err
	}

	err = d.pool.QueryRow(ctx, `
		INSERT INTO scheme (id, title, description, max_income, max_land_size, deadline, district_quotas, reservations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, scheme.ID, scheme.Title, scheme.Description, scheme.MaxIncome, scheme.MaxLandSize, scheme.Deadline,
		quotas, reservations).Scan(&scheme.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert scheme: %w", err)
	}
	return nil
}
