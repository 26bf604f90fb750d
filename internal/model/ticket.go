package model

import "time"

// TicketStatus enumerates the lifecycle states of a ticket.  The only
// legal transition is BOOKED -> CANCELLED; CANCELLED is terminal and
// the row is kept for audit and payment linkage.
type TicketStatus string

const (
	TicketBooked    TicketStatus = "BOOKED"
	TicketCancelled TicketStatus = "CANCELLED"
)

// Valid reports whether s is a known ticket status.
func (s TicketStatus) Valid() bool {
	return s == TicketBooked || s == TicketCancelled
}

// Ticket is a single seat reservation on a schedule.  Departure and
// arrival times are denormalized from the schedule at booking time so
// the ticket remains a faithful record even if the schedule is later
// edited.  At most one BOOKED ticket may exist per (ScheduleID,
// SeatID) pair at any instant.
//
// Fields:
//  ID            – primary key identifier.
//  ScheduleID    – schedule the seat is reserved on.
//  SeatID        – physical seat being reserved.
//  DepartureTime – copy of the schedule's departure time at booking.
//  ArrivalTime   – copy of the schedule's arrival time at booking.
//  SeatType      – seat class used to price the ticket.
//  Price         – base fare multiplied by the seat type factor.
//  Status        – BOOKED or CANCELLED.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Ticket struct {
	ID            uint64       `json:"id"`             // tickets.id
	ScheduleID    uint64       `json:"schedule_id"`    // tickets.schedule_id
	SeatID        uint64       `json:"seat_id"`        // tickets.seat_id
	DepartureTime time.Time    `json:"departure_time"` // tickets.departure_time
	ArrivalTime   time.Time    `json:"arrival_time"`   // tickets.arrival_time
	SeatType      SeatType     `json:"seat_type"`      // tickets.seat_type
	Price         float64      `json:"price"`          // tickets.price
	Status        TicketStatus `json:"status"`         // tickets.status
	CreatedAt     time.Time    `json:"created_at"`     // tickets.created_at
	UpdatedAt     time.Time    `json:"updated_at"`     // tickets.updated_at
}

// TicketDetails bundles a ticket with the schedule, seat and payment
// rows it references for detail endpoints.
type TicketDetails struct {
	Ticket
	Schedule *ScheduleDetails `json:"schedule,omitempty"`
	Seat     *Seat            `json:"seat,omitempty"`
	Payments []Payment        `json:"payments"`
}

// TicketStatistics aggregates counts and revenue over all tickets.
// Revenue only counts tickets that are still BOOKED.
type TicketStatistics struct {
	TotalTickets     uint64  `json:"total_tickets"`
	BookedTickets    uint64  `json:"booked_tickets"`
	CancelledTickets uint64  `json:"cancelled_tickets"`
	TotalRevenue     float64 `json:"total_revenue"`
}
