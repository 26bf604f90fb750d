package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/busline/bus-ticket-booking/internal/model"
)

// PaymentRepo records money received for tickets.  Payments are an
// external-collaborator surface: the booking core never reads them,
// it only guarantees a committed ticket id for them to reference.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentCols = `id, user_id, ticket_id, payment_provider_id, payment_method, amount, status, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }, p *model.Payment) error {
	return row.Scan(&p.ID, &p.UserID, &p.TicketID, &p.ProviderID, &p.PaymentMethod, &p.Amount, &p.Status, &p.CreatedAt, &p.UpdatedAt)
}

// Create records a payment against a ticket.  The referenced ticket
// and provider must exist; missing rows surface as their not-found
// errors so the handler can produce a 404 instead of a bare foreign
// key error.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM tickets WHERE id = ?`, p.TicketID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTicketNotFound
		}
		return err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM payment_providers WHERE id = ?`, p.ProviderID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProviderNotFound
		}
		return err
	}
	const q = `INSERT INTO payments (user_id, ticket_id, payment_provider_id, payment_method, amount, status) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.UserID, p.TicketID, p.ProviderID, p.PaymentMethod, p.Amount, p.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT ` + paymentCols + ` FROM payments WHERE id = ?`
	return scanPayment(r.db.QueryRowContext(ctx, sel, p.ID), p)
}

// GetByID retrieves a payment by its ID.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE id = ?`
	var p model.Payment
	if err := scanPayment(r.db.QueryRowContext(ctx, q, id), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByTicket returns payments recorded for a ticket, oldest first.
func (r *PaymentRepo) ListByTicket(ctx context.Context, ticketID uint64) ([]model.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE ticket_id = ? ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, q, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Payment, 0)
	for rows.Next() {
		var p model.Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves a payment to the given settlement state.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, id uint64, status model.PaymentStatus) (*model.Payment, error) {
	const q = `UPDATE payments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM payments WHERE id = ?`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrPaymentNotFound
			}
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}
