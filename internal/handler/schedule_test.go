package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/busline/bus-ticket-booking/internal/repository"
)

func newScheduleHandler(t *testing.T) (*ScheduleHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	h := NewScheduleHandler(
		repository.NewScheduleRepo(db),
		repository.NewRouteRepo(db),
		repository.NewBusRepo(db),
	)
	return h, mock
}

func TestScheduleByBusUsesPathParam(t *testing.T) {
	h, mock := newScheduleHandler(t)
	dep := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM schedules").WithArgs(3, "2026-09-10", "2026-09-10").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "route_id", "bus_id", "departure_time", "arrival_time",
			"available_seat", "total_seats", "status", "created_at", "updated_at",
		}).AddRow(1, 5, 3, dep, dep.Add(5*time.Hour), 12, 40, "AVAILABLE", dep, dep))

	c, rec := newJSONContext(t, http.MethodGet, "/v1/buses/3/schedules?date=2026-09-10", "")
	c.SetParamNames("id")
	c.SetParamValues("3")

	require.NoError(t, h.ByBus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleByBusRejectsBadInput(t *testing.T) {
	h, mock := newScheduleHandler(t)

	c, rec := newJSONContext(t, http.MethodGet, "/v1/buses/abc/schedules?date=2026-09-10", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.ByBus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "non-numeric bus id")

	c, rec = newJSONContext(t, http.MethodGet, "/v1/buses/3/schedules?date=tomorrow", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.ByBus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "malformed date")

	assert.NoError(t, mock.ExpectationsWereMet())
}
