package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/busline/bus-ticket-booking/internal/model"
)

// dbTime is the DATETIME layout used when binding time parameters.
// Values are always stored in UTC; the driver's parseTime option
// converts them back to time.Time on scan.
const dbTime = "2006-01-02 15:04:05"

// ScheduleRepo provides storage and retrieval of schedule rows and the
// atomic seat-inventory adjustment used by the booking service.  The
// repository itself is not concurrency-aware beyond the conditional
// UPDATE in AdjustAvailableSeatsTx; callers compose it with tickets
// inside a single transaction.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo returns a ScheduleRepo bound to the given database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *ScheduleRepo) DB() *sql.DB { return r.db }

const scheduleCols = `id, route_id, bus_id, departure_time, arrival_time, available_seat, total_seats, status, created_at, updated_at`

func scanSchedule(row interface{ Scan(...any) error }, s *model.Schedule) error {
	return row.Scan(
		&s.ID, &s.RouteID, &s.BusID, &s.DepartureTime, &s.ArrivalTime,
		&s.AvailableSeat, &s.TotalSeats, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
}

// Create inserts a new schedule and populates the generated ID and
// DB-default fields on the provided struct.  The caller is expected to
// have validated the time range and the seat counters already.
func (r *ScheduleRepo) Create(ctx context.Context, s *model.Schedule) error {
	const q = `INSERT INTO schedules (route_id, bus_id, departure_time, arrival_time, available_seat, total_seats, status)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		s.RouteID, s.BusID,
		s.DepartureTime.UTC().Format(dbTime), s.ArrivalTime.UTC().Format(dbTime),
		s.AvailableSeat, s.TotalSeats, s.Status,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT ` + scheduleCols + ` FROM schedules WHERE id = ?`
	return scanSchedule(r.db.QueryRowContext(ctx, sel, s.ID), s)
}

// GetByID retrieves a schedule by its ID.  It returns
// ErrScheduleNotFound when there is no matching row.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (*model.Schedule, error) {
	const q = `SELECT ` + scheduleCols + ` FROM schedules WHERE id = ?`
	var s model.Schedule
	if err := scanSchedule(r.db.QueryRowContext(ctx, q, id), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByIDWithDetails loads a schedule together with its route, both
// stations, the bus and the operating company.  Read-only; used by
// detail endpoints.
func (r *ScheduleRepo) GetByIDWithDetails(ctx context.Context, id uint64) (*model.ScheduleDetails, error) {
	const q = `SELECT s.id, s.route_id, s.bus_id, s.departure_time, s.arrival_time,
                      s.available_seat, s.total_seats, s.status, s.created_at, s.updated_at,
                      r.id, r.departure_station_id, r.arrival_station_id, r.price, r.duration, r.distance,
                      ds.id, ds.name, ds.location,
                      ars.id, ars.name, ars.location,
                      b.id, b.company_id, b.name, b.license_plate, b.capacity,
                      c.id, c.company_name
               FROM schedules s
               JOIN routes r   ON r.id = s.route_id
               JOIN stations ds  ON ds.id = r.departure_station_id
               JOIN stations ars ON ars.id = r.arrival_station_id
               JOIN buses b    ON b.id = s.bus_id
               JOIN bus_companies c ON c.id = b.company_id
               WHERE s.id = ?`
	var d model.ScheduleDetails
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.RouteID, &d.BusID, &d.DepartureTime, &d.ArrivalTime,
		&d.AvailableSeat, &d.TotalSeats, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.Route.ID, &d.Route.DepartureStationID, &d.Route.ArrivalStationID,
		&d.Route.Price, &d.Route.Duration, &d.Route.Distance,
		&d.DepartureStation.ID, &d.DepartureStation.Name, &d.DepartureStation.Location,
		&d.ArrivalStation.ID, &d.ArrivalStation.Name, &d.ArrivalStation.Location,
		&d.Bus.ID, &d.Bus.CompanyID, &d.Bus.Name, &d.Bus.LicensePlate, &d.Bus.Capacity,
		&d.Company.ID, &d.Company.CompanyName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &d, nil
}

// GetForBookingTx loads a schedule joined with its route's base fare
// under FOR UPDATE so the row stays locked until the booking
// transaction commits.  Concurrent bookings for the same schedule
// serialize on this lock.
func (r *ScheduleRepo) GetForBookingTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Schedule, float64, error) {
	const q = `SELECT s.id, s.route_id, s.bus_id, s.departure_time, s.arrival_time,
                      s.available_seat, s.total_seats, s.status, s.created_at, s.updated_at,
                      r.price
               FROM schedules s
               JOIN routes r ON r.id = s.route_id
               WHERE s.id = ?
               FOR UPDATE`
	var s model.Schedule
	var baseFare float64
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.RouteID, &s.BusID, &s.DepartureTime, &s.ArrivalTime,
		&s.AvailableSeat, &s.TotalSeats, &s.Status, &s.CreatedAt, &s.UpdatedAt,
		&baseFare,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrScheduleNotFound
		}
		return nil, 0, err
	}
	return &s, baseFare, nil
}

// AdjustAvailableSeatsTx applies delta to a schedule's available seat
// counter and recomputes its status in one conditional UPDATE.  Delta
// is negative for a booking and positive for a cancellation.  The
// WHERE guard keeps 0 <= available_seat <= total_seats: when the guard
// fails the statement matches no row, state is left unchanged and
// ErrNoSeatsAvailable is returned (ErrScheduleNotFound when the id
// does not exist at all).  Status becomes FULL exactly when the new
// counter is zero and AVAILABLE otherwise; a CANCELLED schedule keeps
// its status.  Two transactions adjusting the same schedule serialize
// on the row lock this UPDATE takes, so the last remaining seat can
// only be claimed once.
func (r *ScheduleRepo) AdjustAvailableSeatsTx(ctx context.Context, tx *sql.Tx, id uint64, delta int32) error {
	const q = `UPDATE schedules
               SET status = CASE
                       WHEN status = 'CANCELLED' THEN status
                       WHEN available_seat + ? = 0 THEN 'FULL'
                       ELSE 'AVAILABLE'
                   END,
                   available_seat = available_seat + ?
               WHERE id = ?
                 AND available_seat + ? >= 0
                 AND available_seat + ? <= total_seats`
	res, err := tx.ExecContext(ctx, q, delta, delta, id, delta, delta)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	// The guard rejected the update or the row is missing; probe to
	// tell the two apart.
	var cur uint32
	err = tx.QueryRowContext(ctx, `SELECT available_seat FROM schedules WHERE id = ?`, id).Scan(&cur)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrScheduleNotFound
	}
	if err != nil {
		return err
	}
	return ErrNoSeatsAvailable
}

// ScheduleQuery carries pagination and filters for List.
type ScheduleQuery struct {
	Page          int
	Limit         int
	RouteID       uint64
	BusID         uint64
	Status        model.ScheduleStatus
	DepartureDate string // "2006-01-02"; matches departures on that day
	SortBy        string
	SortOrder     string
}

// scheduleSortCols whitelists the columns List may sort by.
var scheduleSortCols = map[string]bool{
	"id": true, "departure_time": true, "arrival_time": true,
	"available_seat": true, "created_at": true,
}

// List returns a page of schedules matching the query along with the
// total number of matching rows.
func (r *ScheduleRepo) List(ctx context.Context, q ScheduleQuery) ([]model.Schedule, uint64, error) {
	where := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if q.RouteID != 0 {
		where = append(where, "route_id = ?")
		args = append(args, q.RouteID)
	}
	if q.BusID != 0 {
		where = append(where, "bus_id = ?")
		args = append(args, q.BusID)
	}
	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, q.Status)
	}
	if q.DepartureDate != "" {
		where = append(where, "departure_time >= ? AND departure_time < ? + INTERVAL 1 DAY")
		args = append(args, q.DepartureDate, q.DepartureDate)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total uint64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schedules"+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortBy := q.SortBy
	if !scheduleSortCols[sortBy] {
		sortBy = "departure_time"
	}
	order := "ASC"
	if strings.EqualFold(q.SortOrder, "DESC") {
		order = "DESC"
	}
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	sel := fmt.Sprintf("SELECT %s FROM schedules%s ORDER BY %s %s LIMIT ? OFFSET ?", scheduleCols, clause, sortBy, order)
	rows, err := r.db.QueryContext(ctx, sel, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]model.Schedule, 0, limit)
	for rows.Next() {
		var s model.Schedule
		if err := scanSchedule(rows, &s); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// FindByRouteAndDate returns AVAILABLE schedules on a route departing
// within the given day, ordered by departure time.
func (r *ScheduleRepo) FindByRouteAndDate(ctx context.Context, routeID uint64, date string) ([]model.Schedule, error) {
	const q = `SELECT ` + scheduleCols + ` FROM schedules
               WHERE route_id = ? AND status = 'AVAILABLE'
                 AND departure_time >= ? AND departure_time < ? + INTERVAL 1 DAY
               ORDER BY departure_time ASC`
	return r.queryList(ctx, q, routeID, date, date)
}

// FindByBusAndDate returns schedules assigned to a bus within the
// given day regardless of status, ordered by departure time.
func (r *ScheduleRepo) FindByBusAndDate(ctx context.Context, busID uint64, date string) ([]model.Schedule, error) {
	const q = `SELECT ` + scheduleCols + ` FROM schedules
               WHERE bus_id = ?
                 AND departure_time >= ? AND departure_time < ? + INTERVAL 1 DAY
               ORDER BY departure_time ASC`
	return r.queryList(ctx, q, busID, date, date)
}

// Popular returns up to limit AVAILABLE schedules ordered by how many
// seats remain, most first.
func (r *ScheduleRepo) Popular(ctx context.Context, limit int) ([]model.Schedule, error) {
	if limit < 1 {
		limit = 10
	}
	const q = `SELECT ` + scheduleCols + ` FROM schedules
               WHERE status = 'AVAILABLE'
               ORDER BY available_seat DESC
               LIMIT ?`
	return r.queryList(ctx, q, limit)
}

func (r *ScheduleRepo) queryList(ctx context.Context, q string, args ...any) ([]model.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Schedule
	for rows.Next() {
		var s model.Schedule
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites a schedule's operator-editable fields.  The seat
// counter is owned by the adjuster; Update refuses to change it and
// only touches times and status.  Returns ErrScheduleNotFound when no
// row matched.
func (r *ScheduleRepo) Update(ctx context.Context, s *model.Schedule) error {
	const q = `UPDATE schedules
               SET route_id = ?, bus_id = ?, departure_time = ?, arrival_time = ?, status = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		s.RouteID, s.BusID,
		s.DepartureTime.UTC().Format(dbTime), s.ArrivalTime.UTC().Format(dbTime),
		s.Status, s.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports zero affected rows for a no-op update too;
		// check existence before declaring the schedule missing.
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM schedules WHERE id = ?`, s.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrScheduleNotFound
			}
			return err
		}
	}
	const sel = `SELECT ` + scheduleCols + ` FROM schedules WHERE id = ?`
	return scanSchedule(r.db.QueryRowContext(ctx, sel, s.ID), s)
}

// Cancel marks a schedule CANCELLED.  Tickets already booked on it
// stay BOOKED; cancelling them individually releases inventory but
// never flips the schedule back to AVAILABLE.
func (r *ScheduleRepo) Cancel(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE schedules SET status = 'CANCELLED' WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM schedules WHERE id = ?`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrScheduleNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a schedule that no ticket references.  The check and
// the delete run in one transaction; ErrConflict is returned while
// tickets still point at the schedule so booking history is never
// orphaned.
func (r *ScheduleRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	var ticketCount int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets WHERE schedule_id = ?`, id).Scan(&ticketCount); err != nil {
		return err
	}
	if ticketCount > 0 {
		return ErrConflict
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}
