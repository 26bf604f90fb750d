package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/busline/bus-ticket-booking/internal/model"
	"github.com/busline/bus-ticket-booking/internal/queue"
	"github.com/busline/bus-ticket-booking/internal/repository"
)

var (
	depTime = time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	arrTime = time.Date(2026, 9, 10, 13, 0, 0, 0, time.UTC)
)

// newBookingFixture wires a BookingService onto a sqlmock database
// with event publishing captured into the returned slice.
func newBookingFixture(t *testing.T) (*BookingService, sqlmock.Sqlmock, *[]queue.TicketEvent) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	var events []queue.TicketEvent
	svc := NewBookingService(
		repository.NewScheduleRepo(db),
		repository.NewSeatRepo(db),
		repository.NewTicketRepo(db),
	)
	svc.PublishEvent = func(_ context.Context, ev queue.TicketEvent) error {
		events = append(events, ev)
		return nil
	}
	return svc, mock, &events
}

var bookingScheduleCols = []string{
	"id", "route_id", "bus_id", "departure_time", "arrival_time",
	"available_seat", "total_seats", "status", "created_at", "updated_at",
	"price",
}

var seatCols = []string{
	"id", "bus_id", "seat_number", "seat_type", "price_for_seat_type",
	"created_at", "updated_at",
}

var ticketCols = []string{
	"id", "schedule_id", "seat_id", "departure_time", "arrival_time",
	"seat_type", "price", "status", "created_at", "updated_at",
}

func bookingScheduleRow(available uint32, status string) *sqlmock.Rows {
	return sqlmock.NewRows(bookingScheduleCols).
		AddRow(1, 5, 3, depTime, arrTime, available, 40, status, depTime, depTime, 50.0)
}

func seatRow(seatType string, priceOverride float64) *sqlmock.Rows {
	return sqlmock.NewRows(seatCols).
		AddRow(7, 3, "A1", seatType, priceOverride, depTime, depTime)
}

func TestBookTicketSuccess(t *testing.T) {
	svc, mock, events := newBookingFixture(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM schedules s").WithArgs(1).
		WillReturnRows(bookingScheduleRow(12, "AVAILABLE"))
	mock.ExpectQuery("FROM seats WHERE id = \\? AND bus_id = \\?").WithArgs(7, 3).
		WillReturnRows(seatRow("STANDARD", 0))
	mock.ExpectQuery("FROM tickets").WithArgs(1, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("UPDATE schedules").WithArgs(-1, -1, 1, -1, -1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO tickets").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery("FROM tickets WHERE id = \\?").WithArgs(42).
		WillReturnRows(sqlmock.NewRows(ticketCols).
			AddRow(42, 1, 7, depTime, arrTime, "STANDARD", 50.0, "BOOKED", depTime, depTime))
	mock.ExpectCommit()

	ticket, err := svc.BookTicket(context.Background(), 1, 7, "")
	if err != nil {
		t.Fatalf("BookTicket error: %v", err)
	}
	if ticket.ID != 42 || ticket.Status != model.TicketBooked {
		t.Fatalf("unexpected ticket: %+v", ticket)
	}
	if ticket.Price != 50.0 {
		t.Fatalf("expected base fare price, got %v", ticket.Price)
	}
	if len(*events) != 1 || (*events)[0].Event != queue.EventTicketBooked {
		t.Fatalf("expected one booked event, got %+v", *events)
	}
	if (*events)[0].SeatNumber != "A1" {
		t.Fatalf("event missing seat number: %+v", (*events)[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookTicketSeatTypeOverridePricing(t *testing.T) {
	svc, mock, _ := newBookingFixture(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM schedules s").WithArgs(1).
		WillReturnRows(bookingScheduleRow(12, "AVAILABLE"))
	mock.ExpectQuery("FROM seats WHERE id = \\? AND bus_id = \\?").WithArgs(7, 3).
		WillReturnRows(seatRow("STANDARD", 0))
	mock.ExpectQuery("FROM tickets").WithArgs(1, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("UPDATE schedules").WithArgs(-1, -1, 1, -1, -1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO tickets").
		WithArgs(1, 7, sqlmock.AnyArg(), sqlmock.AnyArg(), "VIP", 75.0, "BOOKED").
		WillReturnResult(sqlmock.NewResult(43, 1))
	mock.ExpectQuery("FROM tickets WHERE id = \\?").WithArgs(43).
		WillReturnRows(sqlmock.NewRows(ticketCols).
			AddRow(43, 1, 7, depTime, arrTime, "VIP", 75.0, "BOOKED", depTime, depTime))
	mock.ExpectCommit()

	// Base fare 50 scaled by the VIP multiplier.
	ticket, err := svc.BookTicket(context.Background(), 1, 7, model.SeatVIP)
	if err != nil {
		t.Fatalf("BookTicket error: %v", err)
	}
	if ticket.SeatType != model.SeatVIP || ticket.Price != 75.0 {
		t.Fatalf("unexpected pricing: %+v", ticket)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookTicketSeatPriceOverrideWins(t *testing.T) {
	svc, mock, _ := newBookingFixture(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM schedules s").WithArgs(1).
		WillReturnRows(bookingScheduleRow(12, "AVAILABLE"))
	mock.ExpectQuery("FROM seats WHERE id = \\? AND bus_id = \\?").WithArgs(7, 3).
		WillReturnRows(seatRow("LUXURY", 130.0))
	mock.ExpectQuery("FROM tickets").WithArgs(1, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("UPDATE schedules").WithArgs(-1, -1, 1, -1, -1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO tickets").
		WithArgs(1, 7, sqlmock.AnyArg(), sqlmock.AnyArg(), "LUXURY", 130.0, "BOOKED").
		WillReturnResult(sqlmock.NewResult(44, 1))
	mock.ExpectQuery("FROM tickets WHERE id = \\?").WithArgs(44).
		WillReturnRows(sqlmock.NewRows(ticketCols).
			AddRow(44, 1, 7, depTime, arrTime, "LUXURY", 130.0, "BOOKED", depTime, depTime))
	mock.ExpectCommit()

	ticket, err := svc.BookTicket(context.Background(), 1, 7, "")
	if err != nil {
		t.Fatalf("BookTicket error: %v", err)
	}
	if ticket.Price != 130.0 {
		t.Fatalf("expected the seat's own price, got %v", ticket.Price)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookTicketSeatAlreadyBooked(t *testing.T) {
	svc, mock, events := newBookingFixture(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM schedules s").WithArgs(1).
		WillReturnRows(bookingScheduleRow(12, "AVAILABLE"))
	mock.ExpectQuery("FROM seats WHERE id = \\? AND bus_id = \\?").WithArgs(7, 3).
		WillReturnRows(seatRow("STANDARD", 0))
	mock.ExpectQuery("FROM tickets").WithArgs(1, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(99))
	mock.ExpectRollback()

	_, err := svc.BookTicket(context.Background(), 1, 7, "")
	if !errors.Is(err, repository.ErrSeatAlreadyBooked) {
		t.Fatalf("expected ErrSeatAlreadyBooked, got %v", err)
	}
	if len(*events) != 0 {
		t.Fatalf("no event expected on failure, got %+v", *events)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookTicketSoldOutRollsBack(t *testing.T) {
	svc, mock, _ := newBookingFixture(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM schedules s").WithArgs(1).
		WillReturnRows(bookingScheduleRow(0, "FULL"))
	mock.ExpectQuery("FROM seats WHERE id = \\? AND bus_id = \\?").WithArgs(7, 3).
		WillReturnRows(seatRow("STANDARD", 0))
	mock.ExpectQuery("FROM tickets").WithArgs(1, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	// The guard rejects the decrement; the probe finds the row, so
	// the error is sold-out rather than not-found.
	mock.ExpectExec("UPDATE schedules").WithArgs(-1, -1, 1, -1, -1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT available_seat FROM schedules").WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"available_seat"}).AddRow(0))
	mock.ExpectRollback()

	_, err := svc.BookTicket(context.Background(), 1, 7, "")
	if !errors.Is(err, repository.ErrNoSeatsAvailable) {
		t.Fatalf("expected ErrNoSeatsAvailable, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookTicketOnCancelledSchedule(t *testing.T) {
	svc, mock, _ := newBookingFixture(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM schedules s").WithArgs(1).
		WillReturnRows(bookingScheduleRow(12, "CANCELLED"))
	mock.ExpectRollback()

	_, err := svc.BookTicket(context.Background(), 1, 7, "")
	if !errors.Is(err, repository.ErrScheduleCancelled) {
		t.Fatalf("expected ErrScheduleCancelled, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookTicketUnknownSchedule(t *testing.T) {
	svc, mock, _ := newBookingFixture(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM schedules s").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(bookingScheduleCols))
	mock.ExpectRollback()

	_, err := svc.BookTicket(context.Background(), 1, 7, "")
	if !errors.Is(err, repository.ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookTicketPublishFailureDoesNotFailBooking(t *testing.T) {
	svc, mock, _ := newBookingFixture(t)
	svc.PublishEvent = func(context.Context, queue.TicketEvent) error {
		return errors.New("broker down")
	}

	mock.ExpectBegin()
	mock.ExpectQuery("FROM schedules s").WithArgs(1).
		WillReturnRows(bookingScheduleRow(12, "AVAILABLE"))
	mock.ExpectQuery("FROM seats WHERE id = \\? AND bus_id = \\?").WithArgs(7, 3).
		WillReturnRows(seatRow("STANDARD", 0))
	mock.ExpectQuery("FROM tickets").WithArgs(1, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("UPDATE schedules").WithArgs(-1, -1, 1, -1, -1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO tickets").
		WillReturnResult(sqlmock.NewResult(45, 1))
	mock.ExpectQuery("FROM tickets WHERE id = \\?").WithArgs(45).
		WillReturnRows(sqlmock.NewRows(ticketCols).
			AddRow(45, 1, 7, depTime, arrTime, "STANDARD", 50.0, "BOOKED", depTime, depTime))
	mock.ExpectCommit()

	if _, err := svc.BookTicket(context.Background(), 1, 7, ""); err != nil {
		t.Fatalf("a broker outage must not fail a committed booking: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelTicketSuccess(t *testing.T) {
	svc, mock, events := newBookingFixture(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM tickets WHERE id = \\? FOR UPDATE").WithArgs(42).
		WillReturnRows(sqlmock.NewRows(ticketCols).
			AddRow(42, 1, 7, depTime, arrTime, "STANDARD", 50.0, "BOOKED", depTime, depTime))
	mock.ExpectExec("UPDATE tickets SET status = 'CANCELLED'").WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE schedules").WithArgs(1, 1, 1, 1, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ticket, err := svc.CancelTicket(context.Background(), 42)
	if err != nil {
		t.Fatalf("CancelTicket error: %v", err)
	}
	if ticket.Status != model.TicketCancelled {
		t.Fatalf("expected CANCELLED, got %s", ticket.Status)
	}
	if len(*events) != 1 || (*events)[0].Event != queue.EventTicketCancelled {
		t.Fatalf("expected one cancelled event, got %+v", *events)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelTicketTwice(t *testing.T) {
	svc, mock, _ := newBookingFixture(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM tickets WHERE id = \\? FOR UPDATE").WithArgs(42).
		WillReturnRows(sqlmock.NewRows(ticketCols).
			AddRow(42, 1, 7, depTime, arrTime, "STANDARD", 50.0, "CANCELLED", depTime, depTime))
	mock.ExpectRollback()

	_, err := svc.CancelTicket(context.Background(), 42)
	if !errors.Is(err, repository.ErrTicketAlreadyCancelled) {
		t.Fatalf("expected ErrTicketAlreadyCancelled, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookThenCancelRestoresInventory(t *testing.T) {
	svc, mock, events := newBookingFixture(t)

	// Booking takes one seat from the schedule.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM schedules s").WithArgs(1).
		WillReturnRows(bookingScheduleRow(12, "AVAILABLE"))
	mock.ExpectQuery("FROM seats WHERE id = \\? AND bus_id = \\?").WithArgs(7, 3).
		WillReturnRows(seatRow("STANDARD", 0))
	mock.ExpectQuery("FROM tickets").WithArgs(1, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("UPDATE schedules").WithArgs(-1, -1, 1, -1, -1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO tickets").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery("FROM tickets WHERE id = \\?").WithArgs(42).
		WillReturnRows(sqlmock.NewRows(ticketCols).
			AddRow(42, 1, 7, depTime, arrTime, "STANDARD", 50.0, "BOOKED", depTime, depTime))
	mock.ExpectCommit()

	// Cancelling gives the exact same seat back to the same schedule.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM tickets WHERE id = \\? FOR UPDATE").WithArgs(42).
		WillReturnRows(sqlmock.NewRows(ticketCols).
			AddRow(42, 1, 7, depTime, arrTime, "STANDARD", 50.0, "BOOKED", depTime, depTime))
	mock.ExpectExec("UPDATE tickets SET status = 'CANCELLED'").WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE schedules").WithArgs(1, 1, 1, 1, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ticket, err := svc.BookTicket(context.Background(), 1, 7, "")
	if err != nil {
		t.Fatalf("BookTicket error: %v", err)
	}
	if _, err := svc.CancelTicket(context.Background(), ticket.ID); err != nil {
		t.Fatalf("CancelTicket error: %v", err)
	}
	if got := len(*events); got != 2 {
		t.Fatalf("expected booked and cancelled events, got %d", got)
	}
	// The opposing deltas against schedule 1 are what restores the
	// pre-booking counter.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookTicketLastSeatFlipsToFull(t *testing.T) {
	svc, mock, _ := newBookingFixture(t)

	// First booking claims the last seat; the conditional UPDATE
	// matches and drives the status to FULL.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM schedules s").WithArgs(1).
		WillReturnRows(bookingScheduleRow(1, "AVAILABLE"))
	mock.ExpectQuery("FROM seats WHERE id = \\? AND bus_id = \\?").WithArgs(7, 3).
		WillReturnRows(seatRow("STANDARD", 0))
	mock.ExpectQuery("FROM tickets").WithArgs(1, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("UPDATE schedules").WithArgs(-1, -1, 1, -1, -1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO tickets").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery("FROM tickets WHERE id = \\?").WithArgs(42).
		WillReturnRows(sqlmock.NewRows(ticketCols).
			AddRow(42, 1, 7, depTime, arrTime, "STANDARD", 50.0, "BOOKED", depTime, depTime))
	mock.ExpectCommit()

	// Second booking for another seat now sees a FULL schedule: the
	// guard rejects the decrement and the probe reports zero seats.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM schedules s").WithArgs(1).
		WillReturnRows(bookingScheduleRow(0, "FULL"))
	mock.ExpectQuery("FROM seats WHERE id = \\? AND bus_id = \\?").WithArgs(8, 3).
		WillReturnRows(sqlmock.NewRows(seatCols).
			AddRow(8, 3, "A2", "STANDARD", 0, depTime, depTime))
	mock.ExpectQuery("FROM tickets").WithArgs(1, 8).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("UPDATE schedules").WithArgs(-1, -1, 1, -1, -1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT available_seat FROM schedules").WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"available_seat"}).AddRow(0))
	mock.ExpectRollback()

	if _, err := svc.BookTicket(context.Background(), 1, 7, ""); err != nil {
		t.Fatalf("booking the last seat must succeed: %v", err)
	}
	_, err := svc.BookTicket(context.Background(), 1, 8, "")
	if !errors.Is(err, repository.ErrNoSeatsAvailable) {
		t.Fatalf("expected ErrNoSeatsAvailable for the loser, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelTicketRestoreFailureRollsBack(t *testing.T) {
	svc, mock, events := newBookingFixture(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM tickets WHERE id = \\? FOR UPDATE").WithArgs(42).
		WillReturnRows(sqlmock.NewRows(ticketCols).
			AddRow(42, 1, 7, depTime, arrTime, "STANDARD", 50.0, "BOOKED", depTime, depTime))
	mock.ExpectExec("UPDATE tickets SET status = 'CANCELLED'").WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE schedules").WithArgs(1, 1, 1, 1, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT available_seat FROM schedules").WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"available_seat"}))
	mock.ExpectRollback()

	_, err := svc.CancelTicket(context.Background(), 42)
	if !errors.Is(err, repository.ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
	if len(*events) != 0 {
		t.Fatalf("no event expected on rollback, got %+v", *events)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
