package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestTicketCancelGuard(t *testing.T) {
	tx, mock, db := newMockTx(t)
	// A concurrent cancel already flipped the row; the conditional
	// UPDATE matches nothing.
	mock.ExpectExec("UPDATE tickets SET status = 'CANCELLED'").WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewTicketRepo(db).CancelTx(context.Background(), tx, 42)
	if !errors.Is(err, ErrTicketAlreadyCancelled) {
		t.Fatalf("expected ErrTicketAlreadyCancelled, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTicketActiveExists(t *testing.T) {
	tx, mock, db := newMockTx(t)
	mock.ExpectQuery("FROM tickets").WithArgs(1, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(99))

	taken, err := NewTicketRepo(db).ActiveExistsTx(context.Background(), tx, 1, 7)
	if err != nil {
		t.Fatalf("probe error: %v", err)
	}
	if !taken {
		t.Fatal("expected the seat to be reported as taken")
	}
}

func TestTicketActiveExistsFree(t *testing.T) {
	tx, mock, db := newMockTx(t)
	mock.ExpectQuery("FROM tickets").WithArgs(1, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	taken, err := NewTicketRepo(db).ActiveExistsTx(context.Background(), tx, 1, 7)
	if err != nil {
		t.Fatalf("probe error: %v", err)
	}
	if taken {
		t.Fatal("expected the seat to be free")
	}
}

func TestTicketStatistics(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.ExpectQuery("FROM tickets").
		WillReturnRows(sqlmock.NewRows([]string{"total", "booked", "cancelled", "revenue"}).
			AddRow(10, 7, 3, 612.5))

	stats, err := NewTicketRepo(db).Statistics(context.Background())
	if err != nil {
		t.Fatalf("statistics error: %v", err)
	}
	if stats.TotalTickets != 10 || stats.BookedTickets != 7 || stats.CancelledTickets != 3 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.TotalRevenue != 612.5 {
		t.Fatalf("cancelled tickets must not count toward revenue: %+v", stats)
	}
}
