package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/busline/bus-ticket-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseID reads a positive uint64 path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// parseQueryID parses a positive uint64 query parameter value.
func parseQueryID(raw string) (uint64, bool) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// respondRepoErr maps repository sentinel errors onto HTTP responses.
// Missing rows are 404, booking conflicts and delete-with-dependents are
// 409, validation failures are 400, anything else is 500.  The mapping is
// deterministic so clients can rely on the status code alone.
func respondRepoErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrScheduleNotFound),
		errors.Is(err, repository.ErrTicketNotFound),
		errors.Is(err, repository.ErrSeatNotFound),
		errors.Is(err, repository.ErrRouteNotFound),
		errors.Is(err, repository.ErrStationNotFound),
		errors.Is(err, repository.ErrBusNotFound),
		errors.Is(err, repository.ErrCompanyNotFound),
		errors.Is(err, repository.ErrPaymentNotFound),
		errors.Is(err, repository.ErrProviderNotFound),
		errors.Is(err, repository.ErrBusStopNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrSeatAlreadyBooked),
		errors.Is(err, repository.ErrNoSeatsAvailable),
		errors.Is(err, repository.ErrTicketAlreadyCancelled),
		errors.Is(err, repository.ErrScheduleCancelled),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrEmailTaken),
		errors.Is(err, repository.ErrProviderNameTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrInvalidTimeRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
