package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/busline/bus-ticket-booking/internal/model"
)

// RouteRepo manages persistence for routes.  A route's price is the
// base fare the booking service multiplies by the seat type factor.
type RouteRepo struct {
	db *sql.DB
}

// NewRouteRepo returns a RouteRepo bound to the given database.
func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

const routeCols = `id, departure_station_id, arrival_station_id, price, duration, distance, created_at, updated_at`

func scanRoute(row interface{ Scan(...any) error }, rt *model.Route) error {
	return row.Scan(&rt.ID, &rt.DepartureStationID, &rt.ArrivalStationID, &rt.Price, &rt.Duration, &rt.Distance, &rt.CreatedAt, &rt.UpdatedAt)
}

// Create inserts a route and populates the generated ID and defaults.
func (r *RouteRepo) Create(ctx context.Context, rt *model.Route) error {
	const q = `INSERT INTO routes (departure_station_id, arrival_station_id, price, duration, distance) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rt.DepartureStationID, rt.ArrivalStationID, rt.Price, rt.Duration, rt.Distance)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	const sel = `SELECT ` + routeCols + ` FROM routes WHERE id = ?`
	return scanRoute(r.db.QueryRowContext(ctx, sel, rt.ID), rt)
}

// GetByID retrieves a route by its ID.
func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (*model.Route, error) {
	const q = `SELECT ` + routeCols + ` FROM routes WHERE id = ?`
	var rt model.Route
	if err := scanRoute(r.db.QueryRowContext(ctx, q, id), &rt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	return &rt, nil
}

// List returns all routes ordered by id.  The route table is small
// reference data, so no pagination is applied.
func (r *RouteRepo) List(ctx context.Context) ([]model.Route, error) {
	const q = `SELECT ` + routeCols + ` FROM routes ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Route, 0)
	for rows.Next() {
		var rt model.Route
		if err := scanRoute(rows, &rt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByStations returns routes between the two stations, if any.
func (r *RouteRepo) FindByStations(ctx context.Context, departureStationID, arrivalStationID uint64) ([]model.Route, error) {
	const q = `SELECT ` + routeCols + ` FROM routes WHERE departure_station_id = ? AND arrival_station_id = ? ORDER BY price ASC`
	rows, err := r.db.QueryContext(ctx, q, departureStationID, arrivalStationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Route, 0)
	for rows.Next() {
		var rt model.Route
		if err := scanRoute(rows, &rt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites a route's editable fields.
func (r *RouteRepo) Update(ctx context.Context, rt *model.Route) error {
	const q = `UPDATE routes SET departure_station_id = ?, arrival_station_id = ?, price = ?, duration = ?, distance = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, rt.DepartureStationID, rt.ArrivalStationID, rt.Price, rt.Duration, rt.Distance, rt.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM routes WHERE id = ?`, rt.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRouteNotFound
			}
			return err
		}
	}
	const sel = `SELECT ` + routeCols + ` FROM routes WHERE id = ?`
	return scanRoute(r.db.QueryRowContext(ctx, sel, rt.ID), rt)
}

// Delete removes a route that no schedule references.
func (r *RouteRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM schedules WHERE route_id = ?`, id).Scan(&schedCount); err != nil {
		return err
	}
	if schedCount > 0 {
		return ErrConflict
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM routes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRouteNotFound
	}
	return nil
}
