package handler

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/busline/bus-ticket-booking/internal/repository"
)

func newBusStopHandler(t *testing.T) (*BusStopHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewBusStopHandler(repository.NewBusStopRepo(db)), mock
}

func TestBusStopCreateRejectsInvertedWindow(t *testing.T) {
	h, mock := newBusStopHandler(t)
	// Departing before arriving is impossible for a stop.
	c, rec := newJSONContext(t, http.MethodPost, "/v1/bus-stops",
		`{"bus_id":1,"station_id":2,"arrival_time":"2026-09-10T10:00:00Z","departure_time":"2026-09-10T09:30:00Z"}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusStopCreateRejectsZeroWindow(t *testing.T) {
	h, mock := newBusStopHandler(t)
	c, rec := newJSONContext(t, http.MethodPost, "/v1/bus-stops",
		`{"bus_id":1,"station_id":2,"arrival_time":"2026-09-10T10:00:00Z","departure_time":"2026-09-10T10:00:00Z"}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusStopCreateUnknownBus(t *testing.T) {
	h, mock := newBusStopHandler(t)
	mock.ExpectQuery("FROM buses WHERE id = \\?").WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	c, rec := newJSONContext(t, http.MethodPost, "/v1/bus-stops",
		`{"bus_id":9,"station_id":2,"arrival_time":"2026-09-10T10:00:00Z","departure_time":"2026-09-10T10:15:00Z"}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
