package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/busline/bus-ticket-booking/internal/model"
	"github.com/busline/bus-ticket-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// ScheduleHandler exposes CRUD and search endpoints for departures.
// The seat counter itself is only ever moved by the booking service;
// these endpoints create schedules, edit their times and cancel them.
type ScheduleHandler struct {
	Schedules *repository.ScheduleRepo
	Routes    *repository.RouteRepo
	Buses     *repository.BusRepo
}

func NewScheduleHandler(schedules *repository.ScheduleRepo, routes *repository.RouteRepo, buses *repository.BusRepo) *ScheduleHandler {
	if schedules == nil || routes == nil || buses == nil {
		panic("nil repository passed to NewScheduleHandler")
	}
	return &ScheduleHandler{Schedules: schedules, Routes: routes, Buses: buses}
}

type scheduleReq struct {
	RouteID       uint64 `json:"route_id"`
	BusID         uint64 `json:"bus_id"`
	DepartureTime string `json:"departure_time"` // RFC3339
	ArrivalTime   string `json:"arrival_time"`   // RFC3339
	TotalSeats    uint32 `json:"total_seats"`
}

// parseTimeRange validates the RFC3339 pair and the ordering rule:
// arrival must be strictly after departure.
func parseTimeRange(depRaw, arrRaw string) (dep, arr time.Time, msg string) {
	dep, err := time.Parse(time.RFC3339, strings.TrimSpace(depRaw))
	if err != nil {
		return dep, arr, "departure_time must be RFC3339"
	}
	arr, err = time.Parse(time.RFC3339, strings.TrimSpace(arrRaw))
	if err != nil {
		return dep, arr, "arrival_time must be RFC3339"
	}
	if !arr.After(dep) {
		return dep, arr, "arrival_time must be after departure_time"
	}
	return dep, arr, ""
}

// Create handles POST /v1/schedules.  The new schedule starts with
// available_seat == total_seats and status AVAILABLE.
func (h *ScheduleHandler) Create(c echo.Context) error {
	var body scheduleReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.RouteID == 0 || body.BusID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "route_id and bus_id are required"})
	}
	if body.TotalSeats < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_seats must be at least 1"})
	}
	dep, arr, msg := parseTimeRange(body.DepartureTime, body.ArrivalTime)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	if _, err := h.Routes.GetByID(ctx, body.RouteID); err != nil {
		return respondRepoErr(c, err)
	}
	if _, err := h.Buses.GetByID(ctx, body.BusID); err != nil {
		return respondRepoErr(c, err)
	}
	sched := &model.Schedule{
		RouteID:       body.RouteID,
		BusID:         body.BusID,
		DepartureTime: dep,
		ArrivalTime:   arr,
		AvailableSeat: body.TotalSeats,
		TotalSeats:    body.TotalSeats,
		Status:        model.ScheduleAvailable,
	}
	if err := h.Schedules.Create(ctx, sched); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create schedule"})
	}
	return c.JSON(http.StatusCreated, sched)
}

// Get handles GET /v1/schedules/:id and returns the schedule with its
// route, stations, bus and company.
func (h *ScheduleHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detail, err := h.Schedules.GetByIDWithDetails(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// List handles GET /v1/schedules with pagination, filters and sorting.
// Supported query parameters: page, limit, route_id, bus_id, status,
// date (YYYY-MM-DD), sort_by, sort_order.
func (h *ScheduleHandler) List(c echo.Context) error {
	q := repository.ScheduleQuery{
		SortBy:    strings.TrimSpace(c.QueryParam("sort_by")),
		SortOrder: strings.TrimSpace(c.QueryParam("sort_order")),
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if raw := strings.TrimSpace(c.QueryParam("route_id")); raw != "" {
		id, ok := parseQueryID(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route_id"})
		}
		q.RouteID = id
	}
	if raw := strings.TrimSpace(c.QueryParam("bus_id")); raw != "" {
		id, ok := parseQueryID(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bus_id"})
		}
		q.BusID = id
	}
	if raw := strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))); raw != "" {
		st := model.ScheduleStatus(raw)
		if !st.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		q.Status = st
	}
	if raw := strings.TrimSpace(c.QueryParam("date")); raw != "" {
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		q.DepartureDate = raw
	}
	items, total, err := h.Schedules.List(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": total})
}

// Search handles GET /v1/schedules/search?route_id=&date= and returns
// bookable departures for trip planning.
func (h *ScheduleHandler) Search(c echo.Context) error {
	routeID, ok := parseQueryID(strings.TrimSpace(c.QueryParam("route_id")))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "route_id is required"})
	}
	date := strings.TrimSpace(c.QueryParam("date"))
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	items, err := h.Schedules.FindByRouteAndDate(c.Request().Context(), routeID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ByBus handles GET /v1/buses/:id/schedules?date= for operator
// planning views.
func (h *ScheduleHandler) ByBus(c echo.Context) error {
	busID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bus id"})
	}
	date := strings.TrimSpace(c.QueryParam("date"))
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	items, err := h.Schedules.FindByBusAndDate(c.Request().Context(), busID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Popular handles GET /v1/schedules/popular?limit= and returns the
// departures with the most remaining seats.
func (h *ScheduleHandler) Popular(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	items, err := h.Schedules.Popular(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /v1/schedules/:id.  Seat counters cannot be
// edited here; bookings and cancellations are the only writers.
func (h *ScheduleHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body scheduleReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.RouteID == 0 || body.BusID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "route_id and bus_id are required"})
	}
	dep, arr, msg := parseTimeRange(body.DepartureTime, body.ArrivalTime)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	current, err := h.Schedules.GetByID(ctx, id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	if _, err := h.Routes.GetByID(ctx, body.RouteID); err != nil {
		return respondRepoErr(c, err)
	}
	if _, err := h.Buses.GetByID(ctx, body.BusID); err != nil {
		return respondRepoErr(c, err)
	}
	sched := &model.Schedule{
		ID:            id,
		RouteID:       body.RouteID,
		BusID:         body.BusID,
		DepartureTime: dep,
		ArrivalTime:   arr,
		Status:        current.Status,
	}
	if err := h.Schedules.Update(ctx, sched); err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, sched)
}

// Cancel handles POST /v1/schedules/:id/cancel.  Cancellation is
// terminal: the schedule never returns to AVAILABLE, though tickets
// on it can still be individually cancelled for refunds.
func (h *ScheduleHandler) Cancel(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Schedules.Cancel(c.Request().Context(), id); err != nil {
		return respondRepoErr(c, err)
	}
	sched, err := h.Schedules.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, sched)
}

// Delete handles DELETE /v1/schedules/:id.  Schedules with tickets
// respond 409 so booking history is never orphaned.
func (h *ScheduleHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Schedules.Delete(c.Request().Context(), id); err != nil {
		return respondRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
