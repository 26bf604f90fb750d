// Package service contains the booking orchestrator.  It owns the
// transactional flow that repositories expose as Tx building blocks:
// every booking or cancellation runs in a single database transaction
// so the ticket row and the schedule's seat counter always move
// together.
package service

import (
	"context"
	"log"
	"time"

	"github.com/busline/bus-ticket-booking/internal/model"
	"github.com/busline/bus-ticket-booking/internal/queue"
	"github.com/busline/bus-ticket-booking/internal/repository"
)

// BookingService coordinates schedules, seats and tickets for the two
// operations that mutate seat inventory.  All dependencies must be
// non-nil.
type BookingService struct {
	ScheduleRepo *repository.ScheduleRepo
	SeatRepo     *repository.SeatRepo
	TicketRepo   *repository.TicketRepo

	// PublishEvent is called after a successful commit.  It defaults
	// to queue.PublishTicketEvent and is a field so tests can stub it.
	PublishEvent func(ctx context.Context, ev queue.TicketEvent) error
}

// NewBookingService constructs a BookingService.
func NewBookingService(scheduleRepo *repository.ScheduleRepo, seatRepo *repository.SeatRepo, ticketRepo *repository.TicketRepo) *BookingService {
	if scheduleRepo == nil || seatRepo == nil || ticketRepo == nil {
		panic("nil repository passed to NewBookingService")
	}
	return &BookingService{
		ScheduleRepo: scheduleRepo,
		SeatRepo:     seatRepo,
		TicketRepo:   ticketRepo,
		PublishEvent: queue.PublishTicketEvent,
	}
}

// BookTicket reserves one seat on a schedule and returns the created
// ticket.  The whole flow runs in one transaction:
//
//  1. the schedule row is locked FOR UPDATE together with its route's
//     base fare (ErrScheduleNotFound, ErrScheduleCancelled);
//  2. the seat must exist on the schedule's bus (ErrSeatNotFound);
//  3. no other BOOKED ticket may hold the (schedule, seat) pair
//     (ErrSeatAlreadyBooked);
//  4. the available seat counter is decremented under its capacity
//     guard (ErrNoSeatsAvailable rolls everything back);
//  5. the ticket is inserted and the transaction committed.
//
// seatType overrides the seat's own class when set and valid; the
// price is the route base fare scaled by the class multiplier, unless
// the seat carries an explicit per-class price.
func (s *BookingService) BookTicket(ctx context.Context, scheduleID, seatID uint64, seatType model.SeatType) (*model.Ticket, error) {
	tx, err := s.ScheduleRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	sched, baseFare, err := s.ScheduleRepo.GetForBookingTx(ctx, tx, scheduleID)
	if err != nil {
		return nil, err
	}
	if sched.Status == model.ScheduleCancelled {
		return nil, repository.ErrScheduleCancelled
	}

	seat, err := s.SeatRepo.GetOnBusTx(ctx, tx, seatID, sched.BusID)
	if err != nil {
		return nil, err
	}

	taken, err := s.TicketRepo.ActiveExistsTx(ctx, tx, scheduleID, seatID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, repository.ErrSeatAlreadyBooked
	}

	resolvedType := seat.SeatType
	if seatType != "" && seatType.Valid() {
		resolvedType = seatType
	}
	price := baseFare * resolvedType.Multiplier()
	if seat.PriceForSeatType > 0 {
		price = seat.PriceForSeatType
	}

	if err := s.ScheduleRepo.AdjustAvailableSeatsTx(ctx, tx, scheduleID, -1); err != nil {
		return nil, err
	}

	t := &model.Ticket{
		ScheduleID:    scheduleID,
		SeatID:        seatID,
		DepartureTime: sched.DepartureTime,
		ArrivalTime:   sched.ArrivalTime,
		SeatType:      resolvedType,
		Price:         price,
		Status:        model.TicketBooked,
	}
	if err := s.TicketRepo.CreateTx(ctx, tx, t); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	s.publish(ctx, queue.EventTicketBooked, t, seat)
	return t, nil
}

// CancelTicket flips a BOOKED ticket to CANCELLED and returns the
// seat to the schedule's pool.  ErrTicketNotFound when the id is
// unknown, ErrTicketAlreadyCancelled when the ticket has already been
// cancelled.  The returned ticket reflects the final state.
func (s *BookingService) CancelTicket(ctx context.Context, ticketID uint64) (*model.Ticket, error) {
	tx, err := s.TicketRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	t, err := s.TicketRepo.GetForUpdateTx(ctx, tx, ticketID)
	if err != nil {
		return nil, err
	}
	if t.Status == model.TicketCancelled {
		return nil, repository.ErrTicketAlreadyCancelled
	}

	if err := s.TicketRepo.CancelTx(ctx, tx, ticketID); err != nil {
		return nil, err
	}
	if err := s.ScheduleRepo.AdjustAvailableSeatsTx(ctx, tx, t.ScheduleID, +1); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	t.Status = model.TicketCancelled
	s.publish(ctx, queue.EventTicketCancelled, t, nil)
	return t, nil
}

// publish sends a ticket event after commit.  Failures are logged and
// swallowed: the booking already happened.
func (s *BookingService) publish(ctx context.Context, event string, t *model.Ticket, seat *model.Seat) {
	if s.PublishEvent == nil {
		return
	}
	ev := queue.TicketEvent{
		Event:         event,
		TicketID:      t.ID,
		ScheduleID:    t.ScheduleID,
		SeatID:        t.SeatID,
		SeatType:      string(t.SeatType),
		DepartureTime: t.DepartureTime.UTC().Format(time.RFC3339),
		Price:         t.Price,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if seat != nil {
		ev.SeatNumber = seat.SeatNumber
	}
	if err := s.PublishEvent(ctx, ev); err != nil {
		log.Printf("booking: publish %s for ticket %d failed: %v", event, t.ID, err)
	}
}
