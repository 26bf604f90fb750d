package handler

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/busline/bus-ticket-booking/internal/repository"
)

func newRouteHandler(t *testing.T) (*RouteHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRouteHandler(repository.NewRouteRepo(db), repository.NewStationRepo(db)), mock
}

func TestRouteCreateRejectsEqualStations(t *testing.T) {
	h, mock := newRouteHandler(t)
	c, rec := newJSONContext(t, http.MethodPost, "/v1/routes",
		`{"departure_station_id":3,"arrival_station_id":3,"price":50}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// The rejected route must never reach the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouteCreateRejectsNegativePrice(t *testing.T) {
	h, mock := newRouteHandler(t)
	c, rec := newJSONContext(t, http.MethodPost, "/v1/routes",
		`{"departure_station_id":3,"arrival_station_id":4,"price":-1}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouteUpdateRejectsUnknownStation(t *testing.T) {
	h, mock := newRouteHandler(t)
	mock.ExpectQuery("FROM stations WHERE id = \\?").WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := newJSONContext(t, http.MethodPut, "/v1/routes/5",
		`{"departure_station_id":3,"arrival_station_id":4,"price":50}`)
	c.SetParamNames("id")
	c.SetParamValues("5")

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	// No UPDATE may follow the failed station lookup.
	assert.NoError(t, mock.ExpectationsWereMet())
}
