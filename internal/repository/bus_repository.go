package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/busline/bus-ticket-booking/internal/model"
)

// BusRepo manages persistence for buses and their uploaded images.
type BusRepo struct {
	db *sql.DB
}

// NewBusRepo returns a BusRepo bound to the given database.
func NewBusRepo(db *sql.DB) *BusRepo { return &BusRepo{db: db} }

const busCols = `id, company_id, name, description, license_plate, capacity, created_at, updated_at`

func scanBus(row interface{ Scan(...any) error }, b *model.Bus) error {
	return row.Scan(&b.ID, &b.CompanyID, &b.Name, &b.Description, &b.LicensePlate, &b.Capacity, &b.CreatedAt, &b.UpdatedAt)
}

// Create inserts a bus and populates the generated ID.
func (r *BusRepo) Create(ctx context.Context, b *model.Bus) error {
	const q = `INSERT INTO buses (company_id, name, description, license_plate, capacity) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.CompanyID, b.Name, b.Description, b.LicensePlate, b.Capacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT ` + busCols + ` FROM buses WHERE id = ?`
	return scanBus(r.db.QueryRowContext(ctx, sel, b.ID), b)
}

// GetByID retrieves a bus by its ID.
func (r *BusRepo) GetByID(ctx context.Context, id uint64) (*model.Bus, error) {
	const q = `SELECT ` + busCols + ` FROM buses WHERE id = ?`
	var b model.Bus
	if err := scanBus(r.db.QueryRowContext(ctx, q, id), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBusNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListByCompany returns all buses owned by a company.
func (r *BusRepo) ListByCompany(ctx context.Context, companyID uint64) ([]model.Bus, error) {
	const q = `SELECT ` + busCols + ` FROM buses WHERE company_id = ? ORDER BY name ASC`
	return r.queryList(ctx, q, companyID)
}

// List returns every bus ordered by company then name.
func (r *BusRepo) List(ctx context.Context) ([]model.Bus, error) {
	const q = `SELECT ` + busCols + ` FROM buses ORDER BY company_id ASC, name ASC`
	return r.queryList(ctx, q)
}

func (r *BusRepo) queryList(ctx context.Context, q string, args ...any) ([]model.Bus, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Bus, 0)
	for rows.Next() {
		var b model.Bus
		if err := scanBus(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites a bus's editable fields.
func (r *BusRepo) Update(ctx context.Context, b *model.Bus) error {
	const q = `UPDATE buses SET name = ?, description = ?, license_plate = ?, capacity = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, b.Name, b.Description, b.LicensePlate, b.Capacity, b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM buses WHERE id = ?`, b.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBusNotFound
			}
			return err
		}
	}
	const sel = `SELECT ` + busCols + ` FROM buses WHERE id = ?`
	return scanBus(r.db.QueryRowContext(ctx, sel, b.ID), b)
}

// Delete removes a bus together with its seats and images, refusing
// while schedules still reference it.
func (r *BusRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	var schedCount int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM schedules WHERE bus_id = ?`, id).Scan(&schedCount); err != nil {
		return err
	}
	if schedCount > 0 {
		return ErrConflict
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM seats WHERE bus_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM bus_images WHERE bus_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM buses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBusNotFound
	}
	return nil
}

// AddImage records an uploaded image for a bus.
func (r *BusRepo) AddImage(ctx context.Context, img *model.BusImage) error {
	const q = `INSERT INTO bus_images (bus_id, path, is_primary) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, img.BusID, img.Path, img.IsPrimary)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	img.ID = uint64(id)
	const sel = `SELECT id, bus_id, path, is_primary, created_at FROM bus_images WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, img.ID).Scan(&img.ID, &img.BusID, &img.Path, &img.IsPrimary, &img.CreatedAt)
}

// ListImages returns the images recorded for a bus.
func (r *BusRepo) ListImages(ctx context.Context, busID uint64) ([]model.BusImage, error) {
	const q = `SELECT id, bus_id, path, is_primary, created_at FROM bus_images WHERE bus_id = ? ORDER BY is_primary DESC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, busID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.BusImage, 0)
	for rows.Next() {
		var img model.BusImage
		if err := rows.Scan(&img.ID, &img.BusID, &img.Path, &img.IsPrimary, &img.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
