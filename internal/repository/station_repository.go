package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/busline/bus-ticket-booking/internal/model"
)

// StationRepo manages persistence for stations.
type StationRepo struct {
	db *sql.DB
}

// NewStationRepo returns a StationRepo bound to the given database.
func NewStationRepo(db *sql.DB) *StationRepo { return &StationRepo{db: db} }

const stationCols = `id, name, location, created_at, updated_at`

func scanStation(row interface{ Scan(...any) error }, s *model.Station) error {
	return row.Scan(&s.ID, &s.Name, &s.Location, &s.CreatedAt, &s.UpdatedAt)
}

// Create inserts a station and populates the generated ID.
func (r *StationRepo) Create(ctx context.Context, s *model.Station) error {
	const q = `INSERT INTO stations (name, location) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.Name, s.Location)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT ` + stationCols + ` FROM stations WHERE id = ?`
	return scanStation(r.db.QueryRowContext(ctx, sel, s.ID), s)
}

// GetByID retrieves a station by its ID.
func (r *StationRepo) GetByID(ctx context.Context, id uint64) (*model.Station, error) {
	const q = `SELECT ` + stationCols + ` FROM stations WHERE id = ?`
	var s model.Station
	if err := scanStation(r.db.QueryRowContext(ctx, q, id), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns stations, optionally filtered by a case-insensitive
// name substring.
func (r *StationRepo) List(ctx context.Context, search string) ([]model.Station, error) {
	q := `SELECT ` + stationCols + ` FROM stations`
	args := []any{}
	if search != "" {
		q += ` WHERE name LIKE ? OR location LIKE ?`
		pat := "%" + search + "%"
		args = append(args, pat, pat)
	}
	q += ` ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Station, 0)
	for rows.Next() {
		var s model.Station
		if err := scanStation(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites a station's fields.
func (r *StationRepo) Update(ctx context.Context, s *model.Station) error {
	const q = `UPDATE stations SET name = ?, location = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, s.Name, s.Location, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM stations WHERE id = ?`, s.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrStationNotFound
			}
			return err
		}
	}
	const sel = `SELECT ` + stationCols + ` FROM stations WHERE id = ?`
	return scanStation(r.db.QueryRowContext(ctx, sel, s.ID), s)
}

// Delete removes a station that no route references.
func (r *StationRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	var routeCount int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM routes WHERE departure_station_id = ? OR arrival_station_id = ?`, id, id).Scan(&routeCount); err != nil {
		return err
	}
	if routeCount > 0 {
		return ErrConflict
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM stations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStationNotFound
	}
	return nil
}
