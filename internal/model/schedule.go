package model

import "time"

// ScheduleStatus enumerates the states of a schedule's seat inventory.
// AVAILABLE and FULL are derived from the available seat counter; a
// schedule only becomes CANCELLED through an explicit operator action
// and never leaves that state automatically.
type ScheduleStatus string

const (
	ScheduleAvailable ScheduleStatus = "AVAILABLE"
	ScheduleFull      ScheduleStatus = "FULL"
	ScheduleCancelled ScheduleStatus = "CANCELLED"
)

// Valid reports whether s is one of the known schedule statuses.
func (s ScheduleStatus) Valid() bool {
	switch s {
	case ScheduleAvailable, ScheduleFull, ScheduleCancelled:
		return true
	}
	return false
}

// Schedule represents one bus departure on a route.  It owns the seat
// inventory for that departure: AvailableSeat counts the seats still
// open for booking and must always satisfy 0 <= AvailableSeat <=
// TotalSeats.  Status is FULL exactly when AvailableSeat is zero and
// AVAILABLE otherwise, unless the schedule has been CANCELLED.
//
// Fields:
//  ID            – primary key identifier.
//  RouteID       – route this departure runs on.
//  BusID         – bus assigned to the departure.
//  DepartureTime – when the bus leaves the departure station.
//  ArrivalTime   – when the bus reaches the arrival station (after DepartureTime).
//  AvailableSeat – seats still open for booking.
//  TotalSeats    – capacity of the departure (>= 1).
//  Status        – derived inventory state, see ScheduleStatus.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Schedule struct {
	ID            uint64         `json:"id"`             // schedules.id
	RouteID       uint64         `json:"route_id"`       // schedules.route_id
	BusID         uint64         `json:"bus_id"`         // schedules.bus_id
	DepartureTime time.Time      `json:"departure_time"` // schedules.departure_time
	ArrivalTime   time.Time      `json:"arrival_time"`   // schedules.arrival_time
	AvailableSeat uint32         `json:"available_seat"` // schedules.available_seat
	TotalSeats    uint32         `json:"total_seats"`    // schedules.total_seats
	Status        ScheduleStatus `json:"status"`         // schedules.status
	CreatedAt     time.Time      `json:"created_at"`     // schedules.created_at
	UpdatedAt     time.Time      `json:"updated_at"`     // schedules.updated_at
}

// ScheduleDetails extends Schedule with the route, station, bus and
// company rows it references.  It is assembled by the repository for
// read endpoints and never written back.
type ScheduleDetails struct {
	Schedule
	Route            Route      `json:"route"`
	DepartureStation Station    `json:"departure_station"`
	ArrivalStation   Station    `json:"arrival_station"`
	Bus              Bus        `json:"bus"`
	Company          BusCompany `json:"company"`
}
