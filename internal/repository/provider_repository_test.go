package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/busline/bus-ticket-booking/internal/model"
)

func TestProviderCreateDuplicateName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.ExpectExec("INSERT INTO payment_providers").
		WithArgs("MoMo", "E-WALLET", "https://momo.example/api").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'MoMo' for key 'provider_name'"))

	p := &model.PaymentProvider{
		ProviderName: "MoMo",
		ProviderType: model.ProviderEWallet,
		APIEndpoint:  "https://momo.example/api",
	}
	if err := NewProviderRepo(db).Create(context.Background(), p); !errors.Is(err, ErrProviderNameTaken) {
		t.Fatalf("expected ErrProviderNameTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProviderDeleteWithPayments(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	// A payment already references the provider, so the delete must
	// stop at the reference check.
	mock.ExpectQuery("FROM payments").WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	if err := NewProviderRepo(db).Delete(context.Background(), 5); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProviderGetByIDMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.ExpectQuery("FROM payment_providers").WithArgs(77).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := NewProviderRepo(db).GetByID(context.Background(), 77); !errors.Is(err, ErrProviderNotFound) {
		t.Fatalf("expected ErrProviderNotFound, got %v", err)
	}
}
