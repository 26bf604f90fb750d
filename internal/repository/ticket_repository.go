package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/busline/bus-ticket-booking/internal/model"
)

// TicketRepo provides CRUD operations for tickets and the lifecycle
// primitives the booking service composes inside transactions.  A
// ticket starts BOOKED and can only transition to CANCELLED; the row
// is retained afterwards for audit and payment linkage.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// DB exposes the underlying sql.DB for transaction composition.
func (r *TicketRepo) DB() *sql.DB { return r.db }

const ticketCols = `id, schedule_id, seat_id, departure_time, arrival_time, seat_type, price, status, created_at, updated_at`

func scanTicket(row interface{ Scan(...any) error }, t *model.Ticket) error {
	return row.Scan(
		&t.ID, &t.ScheduleID, &t.SeatID, &t.DepartureTime, &t.ArrivalTime,
		&t.SeatType, &t.Price, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
}

// ActiveExistsTx reports whether a BOOKED ticket already exists for
// the (schedule, seat) pair.  The probe runs FOR UPDATE inside the
// caller's transaction so a concurrent booking for the same pair
// blocks until this transaction resolves, which is what keeps the
// at-most-one-BOOKED-ticket invariant under simultaneous requests.
func (r *TicketRepo) ActiveExistsTx(ctx context.Context, tx *sql.Tx, scheduleID, seatID uint64) (bool, error) {
	const q = `SELECT id FROM tickets
               WHERE schedule_id = ? AND seat_id = ? AND status = 'BOOKED'
               LIMIT 1
               FOR UPDATE`
	var id uint64
	err := tx.QueryRowContext(ctx, q, scheduleID, seatID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateTx inserts a new ticket within the caller's transaction and
// populates the generated ID and DB-default fields on the provided
// record.  Status should already be set (BOOKED for bookings).  The
// caller must commit or roll back the transaction.
func (r *TicketRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Ticket) error {
	const q = `INSERT INTO tickets (schedule_id, seat_id, departure_time, arrival_time, seat_type, price, status)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		t.ScheduleID, t.SeatID,
		t.DepartureTime.UTC().Format(dbTime), t.ArrivalTime.UTC().Format(dbTime),
		t.SeatType, t.Price, t.Status,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT ` + ticketCols + ` FROM tickets WHERE id = ?`
	return scanTicket(tx.QueryRowContext(ctx, sel, t.ID), t)
}

// GetForUpdateTx loads a ticket under FOR UPDATE so its status cannot
// change under the caller's transaction.  Returns ErrTicketNotFound
// when the id does not exist.
func (r *TicketRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Ticket, error) {
	const q = `SELECT ` + ticketCols + ` FROM tickets WHERE id = ? FOR UPDATE`
	var t model.Ticket
	if err := scanTicket(tx.QueryRowContext(ctx, q, id), &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// CancelTx flips a ticket's status to CANCELLED within the caller's
// transaction.  The ticket must have been loaded with GetForUpdateTx
// and verified to still be BOOKED; this method only performs the
// write.
func (r *TicketRepo) CancelTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `UPDATE tickets SET status = 'CANCELLED', updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = 'BOOKED'`
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// The FOR UPDATE load should make this unreachable; keep the
		// guard so a misuse surfaces as a typed error, not silence.
		return ErrTicketAlreadyCancelled
	}
	return nil
}

// GetByID retrieves a ticket by its ID.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	const q = `SELECT ` + ticketCols + ` FROM tickets WHERE id = ?`
	var t model.Ticket
	if err := scanTicket(r.db.QueryRowContext(ctx, q, id), &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetByIDWithDetails returns a ticket with its schedule (and the
// schedule's route, stations, bus and company), its seat and its
// payments.
func (r *TicketRepo) GetByIDWithDetails(ctx context.Context, id uint64) (*model.TicketDetails, error) {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := model.TicketDetails{Ticket: *t, Payments: []model.Payment{}}

	sched, err := NewScheduleRepo(r.db).GetByIDWithDetails(ctx, t.ScheduleID)
	if err != nil && !errors.Is(err, ErrScheduleNotFound) {
		return nil, err
	}
	d.Schedule = sched

	const seatQ = `SELECT id, bus_id, seat_number, seat_type, price_for_seat_type, created_at, updated_at FROM seats WHERE id = ?`
	var seat model.Seat
	err = r.db.QueryRowContext(ctx, seatQ, t.SeatID).Scan(
		&seat.ID, &seat.BusID, &seat.SeatNumber, &seat.SeatType, &seat.PriceForSeatType, &seat.CreatedAt, &seat.UpdatedAt,
	)
	if err == nil {
		d.Seat = &seat
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	const payQ = `SELECT id, user_id, ticket_id, payment_method, amount, status, created_at, updated_at
                  FROM payments WHERE ticket_id = ? ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, payQ, t.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.TicketID, &p.PaymentMethod, &p.Amount, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		d.Payments = append(d.Payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

// TicketQuery carries pagination and filters for List.
type TicketQuery struct {
	Page          int
	Limit         int
	ScheduleID    uint64
	SeatID        uint64
	Status        model.TicketStatus
	DepartureDate string // "2006-01-02"
	SortBy        string
	SortOrder     string
}

var ticketSortCols = map[string]bool{
	"id": true, "departure_time": true, "price": true, "created_at": true,
}

// List returns a page of tickets matching the query and the total
// count of matching rows.
func (r *TicketRepo) List(ctx context.Context, q TicketQuery) ([]model.Ticket, uint64, error) {
	where := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if q.ScheduleID != 0 {
		where = append(where, "schedule_id = ?")
		args = append(args, q.ScheduleID)
	}
	if q.SeatID != 0 {
		where = append(where, "seat_id = ?")
		args = append(args, q.SeatID)
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
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tickets"+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortBy := q.SortBy
	if !ticketSortCols[sortBy] {
		sortBy = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(q.SortOrder, "ASC") {
		order = "ASC"
	}
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	sel := fmt.Sprintf("SELECT %s FROM tickets%s ORDER BY %s %s LIMIT ? OFFSET ?", ticketCols, clause, sortBy, order)
	rows, err := r.db.QueryContext(ctx, sel, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]model.Ticket, 0, limit)
	for rows.Next() {
		var t model.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// FindBySchedule returns all tickets on a schedule ordered by seat.
func (r *TicketRepo) FindBySchedule(ctx context.Context, scheduleID uint64) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketCols + ` FROM tickets WHERE schedule_id = ? ORDER BY seat_id ASC`
	return r.queryList(ctx, q, scheduleID)
}

// FindBySeat returns every ticket ever issued for a physical seat.
func (r *TicketRepo) FindBySeat(ctx context.Context, seatID uint64) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketCols + ` FROM tickets WHERE seat_id = ? ORDER BY departure_time DESC`
	return r.queryList(ctx, q, seatID)
}

// FindByDateRange returns tickets whose departure falls in
// [start, end], ordered by departure time ascending.
func (r *TicketRepo) FindByDateRange(ctx context.Context, start, end string) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketCols + ` FROM tickets
               WHERE departure_time >= ? AND departure_time <= ?
               ORDER BY departure_time ASC`
	return r.queryList(ctx, q, start, end)
}

func (r *TicketRepo) queryList(ctx context.Context, q string, args ...any) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Ticket
	for rows.Next() {
		var t model.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Statistics aggregates ticket counts and the revenue of tickets that
// are still BOOKED, all in one grouped scan.
func (r *TicketRepo) Statistics(ctx context.Context) (*model.TicketStatistics, error) {
	const q = `SELECT COUNT(*),
                      COALESCE(SUM(status = 'BOOKED'), 0),
                      COALESCE(SUM(status = 'CANCELLED'), 0),
                      COALESCE(SUM(CASE WHEN status = 'BOOKED' THEN price ELSE 0 END), 0)
               FROM tickets`
	var s model.TicketStatistics
	if err := r.db.QueryRowContext(ctx, q).Scan(&s.TotalTickets, &s.BookedTickets, &s.CancelledTickets, &s.TotalRevenue); err != nil {
		return nil, err
	}
	return &s, nil
}

// Update rewrites a ticket's operator-editable fields (times, seat
// type and price).  Status changes go through the booking service so
// inventory stays in step; Update deliberately leaves status alone.
func (r *TicketRepo) Update(ctx context.Context, t *model.Ticket) error {
	const q = `UPDATE tickets
               SET departure_time = ?, arrival_time = ?, seat_type = ?, price = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		t.DepartureTime.UTC().Format(dbTime), t.ArrivalTime.UTC().Format(dbTime),
		t.SeatType, t.Price, t.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM tickets WHERE id = ?`, t.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTicketNotFound
			}
			return err
		}
	}
	const sel = `SELECT ` + ticketCols + ` FROM tickets WHERE id = ?`
	return scanTicket(r.db.QueryRowContext(ctx, sel, t.ID), t)
}

// Delete hard-removes a ticket row.  Intended for operator cleanup of
// test data; regular flows cancel instead so the audit trail stays
// intact.  Payments referencing the ticket keep it alive (ErrConflict).
func (r *TicketRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	var payCount int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments WHERE ticket_id = ?`, id).Scan(&payCount); err != nil {
		return err
	}
	if payCount > 0 {
		return ErrConflict
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTicketNotFound
	}
	return nil
}
