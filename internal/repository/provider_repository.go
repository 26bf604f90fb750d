package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/busline/bus-ticket-booking/internal/model"
)

// ProviderRepo stores the payment providers payments are recorded
// against.  Provider names carry a unique index; duplicates surface
// as ErrProviderNameTaken.
type ProviderRepo struct {
	db *sql.DB
}

// NewProviderRepo returns a ProviderRepo bound to the given database.
func NewProviderRepo(db *sql.DB) *ProviderRepo { return &ProviderRepo{db: db} }

const providerCols = `id, provider_name, provider_type, api_endpoint, created_at, updated_at`

func scanProvider(row interface{ Scan(...any) error }, p *model.PaymentProvider) error {
	return row.Scan(&p.ID, &p.ProviderName, &p.ProviderType, &p.APIEndpoint, &p.CreatedAt, &p.UpdatedAt)
}

// isDuplicateKey reports whether err is a MySQL unique key violation.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// Create inserts a new provider and populates the generated ID and
// DB-default fields on the provided struct.
func (r *ProviderRepo) Create(ctx context.Context, p *model.PaymentProvider) error {
	const q = `INSERT INTO payment_providers (provider_name, provider_type, api_endpoint) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.ProviderName, p.ProviderType, p.APIEndpoint)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrProviderNameTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT ` + providerCols + ` FROM payment_providers WHERE id = ?`
	return scanProvider(r.db.QueryRowContext(ctx, sel, p.ID), p)
}

// GetByID retrieves a provider by its ID.
func (r *ProviderRepo) GetByID(ctx context.Context, id uint64) (*model.PaymentProvider, error) {
	const q = `SELECT ` + providerCols + ` FROM payment_providers WHERE id = ?`
	var p model.PaymentProvider
	if err := scanProvider(r.db.QueryRowContext(ctx, q, id), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns providers ordered by name, optionally narrowed to one
// provider type.
func (r *ProviderRepo) List(ctx context.Context, providerType model.ProviderType) ([]model.PaymentProvider, error) {
	q := `SELECT ` + providerCols + ` FROM payment_providers`
	args := []any{}
	if providerType != "" {
		q += ` WHERE provider_type = ?`
		args = append(args, providerType)
	}
	q += ` ORDER BY provider_name ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.PaymentProvider, 0)
	for rows.Next() {
		var p model.PaymentProvider
		if err := scanProvider(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites a provider's name, type and endpoint.
func (r *ProviderRepo) Update(ctx context.Context, p *model.PaymentProvider) error {
	const q = `UPDATE payment_providers
               SET provider_name = ?, provider_type = ?, api_endpoint = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, p.ProviderName, p.ProviderType, p.APIEndpoint, p.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrProviderNameTaken
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM payment_providers WHERE id = ?`, p.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProviderNotFound
			}
			return err
		}
	}
	const sel = `SELECT ` + providerCols + ` FROM payment_providers WHERE id = ?`
	return scanProvider(r.db.QueryRowContext(ctx, sel, p.ID), p)
}

// Delete removes a provider.  Providers still referenced by payments
// respond with ErrConflict.
func (r *ProviderRepo) Delete(ctx context.Context, id uint64) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM payments WHERE payment_provider_id = ? LIMIT 1`, id).Scan(&one)
	if err == nil {
		return ErrConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM payment_providers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProviderNotFound
	}
	return nil
}
