package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/busline/bus-ticket-booking/internal/model"
)

// SeatRepo provides access to the seats reference data.  Seats are
// read-mostly: the booking service only ever reads them to validate
// and price a booking.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo returns a SeatRepo bound to the given database.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

const seatCols = `id, bus_id, seat_number, seat_type, price_for_seat_type, created_at, updated_at`

func scanSeat(row interface{ Scan(...any) error }, s *model.Seat) error {
	return row.Scan(&s.ID, &s.BusID, &s.SeatNumber, &s.SeatType, &s.PriceForSeatType, &s.CreatedAt, &s.UpdatedAt)
}

// Create inserts a seat and populates the generated ID and defaults.
func (r *SeatRepo) Create(ctx context.Context, s *model.Seat) error {
	const q = `INSERT INTO seats (bus_id, seat_number, seat_type, price_for_seat_type) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.BusID, s.SeatNumber, s.SeatType, s.PriceForSeatType)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT ` + seatCols + ` FROM seats WHERE id = ?`
	return scanSeat(r.db.QueryRowContext(ctx, sel, s.ID), s)
}

// GetByID retrieves a seat by its ID.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatCols + ` FROM seats WHERE id = ?`
	var s model.Seat
	if err := scanSeat(r.db.QueryRowContext(ctx, q, id), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetOnBusTx loads a seat and verifies it belongs to the given bus,
// inside the caller's transaction.  The booking service uses this to
// reject seats from other vehicles before claiming inventory.
func (r *SeatRepo) GetOnBusTx(ctx context.Context, tx *sql.Tx, seatID, busID uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatCols + ` FROM seats WHERE id = ? AND bus_id = ?`
	var s model.Seat
	if err := scanSeat(tx.QueryRowContext(ctx, q, seatID, busID), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByBus returns all seats on a bus ordered by seat number.
func (r *SeatRepo) ListByBus(ctx context.Context, busID uint64) ([]model.Seat, error) {
	const q = `SELECT ` + seatCols + ` FROM seats WHERE bus_id = ? ORDER BY seat_number ASC`
	rows, err := r.db.QueryContext(ctx, q, busID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := scanSeat(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBulk inserts multiple seats in one statement.  Passing an
// empty slice has no effect and returns nil.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (bus_id, seat_number, seat_type, price_for_seat_type) VALUES `
	args := make([]any, 0, len(seats)*4)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, s.BusID, s.SeatNumber, s.SeatType, s.PriceForSeatType)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// Update rewrites a seat's editable fields.
func (r *SeatRepo) Update(ctx context.Context, s *model.Seat) error {
	const q = `UPDATE seats SET seat_number = ?, seat_type = ?, price_for_seat_type = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, s.SeatNumber, s.SeatType, s.PriceForSeatType, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM seats WHERE id = ?`, s.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSeatNotFound
			}
			return err
		}
	}
	const sel = `SELECT ` + seatCols + ` FROM seats WHERE id = ?`
	return scanSeat(r.db.QueryRowContext(ctx, sel, s.ID), s)
}

// Delete removes a seat that no BOOKED ticket references.
func (r *SeatRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	var active int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets WHERE seat_id = ? AND status = 'BOOKED'`, id).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return ErrConflict
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM seats WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSeatNotFound
	}
	return nil
}
