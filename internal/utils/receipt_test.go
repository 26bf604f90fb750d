package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/busline/bus-ticket-booking/internal/model"
)

func TestBuildTicketReceipt(t *testing.T) {
	dep := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	d := &model.TicketDetails{
		Ticket: model.Ticket{
			ID:            42,
			ScheduleID:    1,
			SeatID:        7,
			DepartureTime: dep,
			ArrivalTime:   dep.Add(5 * time.Hour),
			SeatType:      model.SeatVIP,
			Price:         75,
			Status:        model.TicketBooked,
		},
		Seat: &model.Seat{SeatNumber: "A1", SeatType: model.SeatVIP},
		Payments: []model.Payment{
			{PaymentMethod: model.PaymentCash, Amount: 75, Status: model.PaymentCompleted},
		},
	}

	pdf, filename, err := BuildTicketReceipt(d)
	require.NoError(t, err)
	assert.Equal(t, "TICKET_42.pdf", filename)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "output must be a PDF document")
}

func TestBuildTicketReceiptWithoutDetails(t *testing.T) {
	// Schedule and seat joins may be absent; the renderer falls back
	// to placeholders instead of panicking.
	d := &model.TicketDetails{
		Ticket: model.Ticket{ID: 9, Status: model.TicketCancelled},
	}
	pdf, filename, err := BuildTicketReceipt(d)
	require.NoError(t, err)
	assert.Equal(t, "TICKET_9.pdf", filename)
	assert.NotEmpty(t, pdf)
}
