package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/busline/bus-ticket-booking/internal/repository"
)

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestRespondRepoErrMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{repository.ErrScheduleNotFound, http.StatusNotFound},
		{repository.ErrTicketNotFound, http.StatusNotFound},
		{repository.ErrSeatNotFound, http.StatusNotFound},
		{repository.ErrSeatAlreadyBooked, http.StatusConflict},
		{repository.ErrNoSeatsAvailable, http.StatusConflict},
		{repository.ErrTicketAlreadyCancelled, http.StatusConflict},
		{repository.ErrScheduleCancelled, http.StatusConflict},
		{repository.ErrConflict, http.StatusConflict},
		{repository.ErrEmailTaken, http.StatusConflict},
		{repository.ErrProviderNotFound, http.StatusNotFound},
		{repository.ErrBusStopNotFound, http.StatusNotFound},
		{repository.ErrProviderNameTaken, http.StatusConflict},
		{repository.ErrInvalidTimeRange, http.StatusBadRequest},
	}
	for _, tc := range cases {
		c, rec := newJSONContext(t, http.MethodGet, "/", "")
		require.NoError(t, respondRepoErr(c, tc.err))
		assert.Equal(t, tc.code, rec.Code, "mapping for %v", tc.err)
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	c, _ := newJSONContext(t, http.MethodGet, "/", "")

	_, err := getUserID(c)
	assert.Error(t, err, "missing user_id must error")

	// JWT claims arrive as float64 after JSON decoding.
	c.Set("user_id", float64(12))
	id, err := getUserID(c)
	require.NoError(t, err)
	assert.EqualValues(t, 12, id)

	c.Set("user_id", "34")
	id, err = getUserID(c)
	require.NoError(t, err)
	assert.EqualValues(t, 34, id)
}

func TestParseIDRejectsZeroAndGarbage(t *testing.T) {
	for _, raw := range []string{"0", "-3", "abc", ""} {
		c, _ := newJSONContext(t, http.MethodGet, "/", "")
		c.SetParamNames("id")
		c.SetParamValues(raw)
		_, ok := parseID(c, "id")
		assert.False(t, ok, "value %q must be rejected", raw)
	}
}
