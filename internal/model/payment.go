package model

import "time"

// PaymentMethod is how a payment was made.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentOnline PaymentMethod = "ONLINE"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentOnline
}

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

// Payment records money received for a ticket.  Payments reference
// tickets by id only; cancelling a ticket never deletes its payments.
type Payment struct {
	ID            uint64        `json:"id"`          // payments.id
	ProviderID    uint64        `json:"provider_id"` // payments.payment_provider_id
	UserID        uint64        `json:"user_id"`     // payments.user_id
	TicketID      uint64        `json:"ticket_id"`      // payments.ticket_id
	PaymentMethod PaymentMethod `json:"payment_method"` // payments.payment_method
	Amount        float64       `json:"amount"`         // payments.amount
	Status        PaymentStatus `json:"status"`         // payments.status
	CreatedAt     time.Time     `json:"created_at"`     // payments.created_at
	UpdatedAt     time.Time     `json:"updated_at"`     // payments.updated_at
}
