package model

import "time"

// SeatType is the class of a physical seat.  The class decides the
// fare multiplier applied to the route's base price when a ticket is
// booked.
type SeatType string

const (
	SeatLuxury   SeatType = "LUXURY"
	SeatVIP      SeatType = "VIP"
	SeatStandard SeatType = "STANDARD"
)

// Valid reports whether t is a known seat type.
func (t SeatType) Valid() bool {
	switch t {
	case SeatLuxury, SeatVIP, SeatStandard:
		return true
	}
	return false
}

// Multiplier returns the fare factor for the seat type.  Unknown
// values price as STANDARD so a bad enum never zeroes a fare.
func (t SeatType) Multiplier() float64 {
	switch t {
	case SeatLuxury:
		return 2.0
	case SeatVIP:
		return 1.5
	default:
		return 1.0
	}
}

// Seat describes a physical seat on a bus.  Seats are read-mostly
// reference data consumed when pricing and validating a booking.
//
// Fields:
//  ID               – primary key identifier.
//  BusID            – bus the seat belongs to.
//  SeatNumber       – label printed on the seat (e.g. "A12").
//  SeatType         – class of the seat, see SeatType.
//  PriceForSeatType – optional per-seat price override; zero means none.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Seat struct {
	ID               uint64    `json:"id"`                  // seats.id
	BusID            uint64    `json:"bus_id"`              // seats.bus_id
	SeatNumber       string    `json:"seat_number"`         // seats.seat_number
	SeatType         SeatType  `json:"seat_type"`           // seats.seat_type
	PriceForSeatType float64   `json:"price_for_seat_type"` // seats.price_for_seat_type
	CreatedAt        time.Time `json:"created_at"`          // seats.created_at
	UpdatedAt        time.Time `json:"updated_at"`          // seats.updated_at
}
