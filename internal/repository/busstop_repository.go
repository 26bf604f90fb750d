package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/busline/bus-ticket-booking/internal/model"
)

// BusStopRepo stores the intermediate stations a bus calls at, with
// the arrival/departure window and ordering for each stop.
type BusStopRepo struct {
	db *sql.DB
}

// NewBusStopRepo returns a BusStopRepo bound to the given database.
func NewBusStopRepo(db *sql.DB) *BusStopRepo { return &BusStopRepo{db: db} }

const busStopCols = `id, bus_id, station_id, arrival_time, departure_time, sequence, platform, is_active, created_at, updated_at`

func scanBusStop(row interface{ Scan(...any) error }, s *model.BusStop) error {
	return row.Scan(
		&s.ID, &s.BusID, &s.StationID, &s.ArrivalTime, &s.DepartureTime,
		&s.Sequence, &s.Platform, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
}

// Create inserts a new stop.  The referenced bus and station must
// exist; missing rows surface as their respective not-found errors so
// handlers can 404 instead of exposing a foreign key failure.
func (r *BusStopRepo) Create(ctx context.Context, s *model.BusStop) error {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM buses WHERE id = ?`, s.BusID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBusNotFound
		}
		return err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM stations WHERE id = ?`, s.StationID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStationNotFound
		}
		return err
	}
	const q = `INSERT INTO bus_stations (bus_id, station_id, arrival_time, departure_time, sequence, platform, is_active)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		s.BusID, s.StationID,
		s.ArrivalTime.UTC().Format(dbTime), s.DepartureTime.UTC().Format(dbTime),
		s.Sequence, s.Platform, s.IsActive,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT ` + busStopCols + ` FROM bus_stations WHERE id = ?`
	return scanBusStop(r.db.QueryRowContext(ctx, sel, s.ID), s)
}

// GetByID retrieves a stop by its ID.
func (r *BusStopRepo) GetByID(ctx context.Context, id uint64) (*model.BusStop, error) {
	const q = `SELECT ` + busStopCols + ` FROM bus_stations WHERE id = ?`
	var s model.BusStop
	if err := scanBusStop(r.db.QueryRowContext(ctx, q, id), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBusStopNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByBus returns a bus's stops in trip order.
func (r *BusStopRepo) ListByBus(ctx context.Context, busID uint64) ([]model.BusStop, error) {
	const q = `SELECT ` + busStopCols + ` FROM bus_stations WHERE bus_id = ? ORDER BY sequence ASC, arrival_time ASC`
	return r.queryList(ctx, q, busID)
}

// ListByStation returns all stops calling at a station ordered by
// arrival time, for station departure boards.
func (r *BusStopRepo) ListByStation(ctx context.Context, stationID uint64) ([]model.BusStop, error) {
	const q = `SELECT ` + busStopCols + ` FROM bus_stations WHERE station_id = ? ORDER BY arrival_time ASC`
	return r.queryList(ctx, q, stationID)
}

func (r *BusStopRepo) queryList(ctx context.Context, q string, args ...any) ([]model.BusStop, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.BusStop, 0)
	for rows.Next() {
		var s model.BusStop
		if err := scanBusStop(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites a stop's window, ordering, platform and active flag.
// The bus and station references are immutable; recreate the stop to
// move it.
func (r *BusStopRepo) Update(ctx context.Context, s *model.BusStop) error {
	const q = `UPDATE bus_stations
               SET arrival_time = ?, departure_time = ?, sequence = ?, platform = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		s.ArrivalTime.UTC().Format(dbTime), s.DepartureTime.UTC().Format(dbTime),
		s.Sequence, s.Platform, s.IsActive, s.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM bus_stations WHERE id = ?`, s.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBusStopNotFound
			}
			return err
		}
	}
	const sel = `SELECT ` + busStopCols + ` FROM bus_stations WHERE id = ?`
	return scanBusStop(r.db.QueryRowContext(ctx, sel, s.ID), s)
}

// Delete removes a stop.
func (r *BusStopRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bus_stations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBusStopNotFound
	}
	return nil
}
