package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/busline/bus-ticket-booking/internal/model"
)

func newMockTx(t *testing.T) (*sql.Tx, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	mock.ExpectBegin()
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin error: %v", err)
	}
	return tx, mock, db
}

func TestAdjustAvailableSeatsDecrement(t *testing.T) {
	tx, mock, db := newMockTx(t)
	mock.ExpectExec("UPDATE schedules").WithArgs(-1, -1, 9, -1, -1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewScheduleRepo(db)
	if err := repo.AdjustAvailableSeatsTx(context.Background(), tx, 9, -1); err != nil {
		t.Fatalf("adjust error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAdjustAvailableSeatsSoldOut(t *testing.T) {
	tx, mock, db := newMockTx(t)
	mock.ExpectExec("UPDATE schedules").WithArgs(-1, -1, 9, -1, -1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// The probe finds the schedule, so the guard must have rejected
	// the decrement.
	mock.ExpectQuery("SELECT available_seat FROM schedules").WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"available_seat"}).AddRow(0))

	repo := NewScheduleRepo(db)
	err := repo.AdjustAvailableSeatsTx(context.Background(), tx, 9, -1)
	if !errors.Is(err, ErrNoSeatsAvailable) {
		t.Fatalf("expected ErrNoSeatsAvailable, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAdjustAvailableSeatsUnknownSchedule(t *testing.T) {
	tx, mock, db := newMockTx(t)
	mock.ExpectExec("UPDATE schedules").WithArgs(1, 1, 77, 1, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT available_seat FROM schedules").WithArgs(77).
		WillReturnRows(sqlmock.NewRows([]string{"available_seat"}))

	repo := NewScheduleRepo(db)
	err := repo.AdjustAvailableSeatsTx(context.Background(), tx, 77, +1)
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestScheduleGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.ExpectQuery("FROM schedules WHERE id = \\?").WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewScheduleRepo(db).GetByID(context.Background(), 5)
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
}

func TestScheduleCreateBindsUTC(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// Times handed in with an offset must be stored as UTC DATETIME
	// strings.
	loc := time.FixedZone("UTC+3", 3*3600)
	dep := time.Date(2026, 9, 10, 11, 0, 0, 0, loc)
	arr := time.Date(2026, 9, 10, 16, 0, 0, 0, loc)

	mock.ExpectExec("INSERT INTO schedules").
		WithArgs(5, 3, "2026-09-10 08:00:00", "2026-09-10 13:00:00", 40, 40, "AVAILABLE").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery("FROM schedules WHERE id = \\?").WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "route_id", "bus_id", "departure_time", "arrival_time",
			"available_seat", "total_seats", "status", "created_at", "updated_at",
		}).AddRow(11, 5, 3, dep.UTC(), arr.UTC(), 40, 40, "AVAILABLE", dep.UTC(), dep.UTC()))

	s := &model.Schedule{
		RouteID:       5,
		BusID:         3,
		DepartureTime: dep,
		ArrivalTime:   arr,
		AvailableSeat: 40,
		TotalSeats:    40,
		Status:        model.ScheduleAvailable,
	}
	if err := NewScheduleRepo(db).Create(context.Background(), s); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if s.ID != 11 {
		t.Fatalf("expected generated id 11, got %d", s.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
