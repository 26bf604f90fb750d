// Package queue defines message payloads exchanged over the message broker
// plus the publisher and background consumer for ticket lifecycle events.
package queue

// Event types carried in TicketEvent.Event.
const (
	EventTicketBooked    = "ticket.booked"
	EventTicketCancelled = "ticket.cancelled"
)

// TicketEvent is published when a ticket is booked or cancelled.  It carries
// enough information for downstream consumers to log, notify, or trigger
// analytics without querying the primary database.
type TicketEvent struct {
	Event            string  `json:"event"`
	TicketID         uint64  `json:"ticket_id"`
	ScheduleID       uint64  `json:"schedule_id"`
	SeatID           uint64  `json:"seat_id"`
	SeatNumber       string  `json:"seat_number"`
	SeatType         string  `json:"seat_type"`
	DepartureStation string  `json:"departure_station"`
	ArrivalStation   string  `json:"arrival_station"`
	DepartureTime    string  `json:"departure_time"`
	Price            float64 `json:"price"`
	OccurredAt       string  `json:"occurred_at"`
}
