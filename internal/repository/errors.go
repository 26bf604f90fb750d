// Package repository defines error values that are reused across
// multiple repositories and the booking service.  These sentinel
// values allow higher layers such as handlers to distinguish between
// failure scenarios and map them deterministically to HTTP status
// codes: the *NotFound family becomes 404, ErrSeatAlreadyBooked,
// ErrNoSeatsAvailable, ErrTicketAlreadyCancelled, ErrScheduleCancelled
// and ErrConflict become 409, and ErrInvalidTimeRange becomes 400.
package repository

import "errors"

// ErrScheduleNotFound indicates that no schedule row matched the id.
var ErrScheduleNotFound = errors.New("schedule not found")

// ErrTicketNotFound indicates that no ticket row matched the id.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrSeatNotFound indicates that the seat does not exist or does not
// belong to the bus serving the schedule being booked.
var ErrSeatNotFound = errors.New("seat not found")

// ErrRouteNotFound indicates that no route row matched the id.
var ErrRouteNotFound = errors.New("route not found")

// ErrStationNotFound indicates that no station row matched the id.
var ErrStationNotFound = errors.New("station not found")

// ErrBusNotFound indicates that no bus row matched the id.
var ErrBusNotFound = errors.New("bus not found")

// ErrCompanyNotFound indicates that no bus company row matched the id.
var ErrCompanyNotFound = errors.New("bus company not found")

// ErrPaymentNotFound indicates that no payment row matched the id.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrUserNotFound indicates that no user row matched the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrProviderNotFound indicates that no payment provider row matched
// the id.
var ErrProviderNotFound = errors.New("payment provider not found")

// ErrBusStopNotFound indicates that no bus stop row matched the id.
var ErrBusStopNotFound = errors.New("bus stop not found")

// ErrProviderNameTaken is returned when creating or renaming a payment
// provider to a name another provider already uses.
var ErrProviderNameTaken = errors.New("provider name already in use")

// ErrSeatAlreadyBooked is returned when an active BOOKED ticket
// already exists for the requested (schedule, seat) pair.
var ErrSeatAlreadyBooked = errors.New("seat already booked")

// ErrNoSeatsAvailable is returned when an inventory adjustment would
// push available_seat outside [0, total_seats].  The adjustment does
// not apply; schedule state is left unchanged.
var ErrNoSeatsAvailable = errors.New("no seats available")

// ErrTicketAlreadyCancelled is returned when cancelling a ticket that
// is already in its terminal CANCELLED state.
var ErrTicketAlreadyCancelled = errors.New("ticket already cancelled")

// ErrScheduleCancelled is returned when booking against a schedule an
// operator has cancelled.
var ErrScheduleCancelled = errors.New("schedule cancelled")

// ErrInvalidTimeRange is returned when a departure time is not
// strictly before its arrival time.
var ErrInvalidTimeRange = errors.New("departure time must be before arrival time")

// ErrConflict is returned when a delete cannot be performed because of
// dependent records, such as removing a schedule that still has
// tickets.  Handlers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailTaken is returned when registering with an email that
// already has an account.
var ErrEmailTaken = errors.New("email already registered")
