package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/busline/bus-ticket-booking/internal/model"
)

// CompanyRepo manages persistence for bus companies.
type CompanyRepo struct {
	db *sql.DB
}

// NewCompanyRepo returns a CompanyRepo bound to the given database.
func NewCompanyRepo(db *sql.DB) *CompanyRepo { return &CompanyRepo{db: db} }

const companyCols = `id, company_name, phone, email, address, created_at, updated_at`

func scanCompany(row interface{ Scan(...any) error }, c *model.BusCompany) error {
	return row.Scan(&c.ID, &c.CompanyName, &c.Phone, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt)
}

// Create inserts a bus company and populates the generated ID.
func (r *CompanyRepo) Create(ctx context.Context, c *model.BusCompany) error {
	const q = `INSERT INTO bus_companies (company_name, phone, email, address) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.CompanyName, c.Phone, c.Email, c.Address)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	const sel = `SELECT ` + companyCols + ` FROM bus_companies WHERE id = ?`
	return scanCompany(r.db.QueryRowContext(ctx, sel, c.ID), c)
}

// GetByID retrieves a company by its ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id uint64) (*model.BusCompany, error) {
	const q = `SELECT ` + companyCols + ` FROM bus_companies WHERE id = ?`
	var c model.BusCompany
	if err := scanCompany(r.db.QueryRowContext(ctx, q, id), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns all companies ordered by name.
func (r *CompanyRepo) List(ctx context.Context) ([]model.BusCompany, error) {
	const q = `SELECT ` + companyCols + ` FROM bus_companies ORDER BY company_name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.BusCompany, 0)
	for rows.Next() {
		var c model.BusCompany
		if err := scanCompany(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites a company's fields.
func (r *CompanyRepo) Update(ctx context.Context, c *model.BusCompany) error {
	const q = `UPDATE bus_companies SET company_name = ?, phone = ?, email = ?, address = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.CompanyName, c.Phone, c.Email, c.Address, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM bus_companies WHERE id = ?`, c.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCompanyNotFound
			}
			return err
		}
	}
	const sel = `SELECT ` + companyCols + ` FROM bus_companies WHERE id = ?`
	return scanCompany(r.db.QueryRowContext(ctx, sel, c.ID), c)
}

// Delete removes a company that owns no buses.
func (r *CompanyRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	var busCount int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM buses WHERE company_id = ?`, id).Scan(&busCount); err != nil {
		return err
	}
	if busCount > 0 {
		return ErrConflict
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM bus_companies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCompanyNotFound
	}
	return nil
}
