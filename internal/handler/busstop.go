package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/busline/bus-ticket-booking/internal/model"
	"github.com/busline/bus-ticket-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// BusStopHandler manages the intermediate stops on a bus's itinerary.
type BusStopHandler struct {
	Stops *repository.BusStopRepo
}

func NewBusStopHandler(stops *repository.BusStopRepo) *BusStopHandler {
	if stops == nil {
		panic("nil repository passed to NewBusStopHandler")
	}
	return &BusStopHandler{Stops: stops}
}

type busStopReq struct {
	BusID         uint64 `json:"bus_id"`
	StationID     uint64 `json:"station_id"`
	ArrivalTime   string `json:"arrival_time"`   // RFC3339
	DepartureTime string `json:"departure_time"` // RFC3339
	Sequence      uint32 `json:"sequence"`
	Platform      string `json:"platform"`
	IsActive      *bool  `json:"is_active"`
}

// parseStopWindow validates the RFC3339 pair and the ordering rule: a
// bus arrives at a stop strictly before it departs from it.
func parseStopWindow(arrRaw, depRaw string) (arr, dep time.Time, msg string) {
	arr, err := time.Parse(time.RFC3339, strings.TrimSpace(arrRaw))
	if err != nil {
		return arr, dep, "arrival_time must be RFC3339"
	}
	dep, err = time.Parse(time.RFC3339, strings.TrimSpace(depRaw))
	if err != nil {
		return arr, dep, "departure_time must be RFC3339"
	}
	if !arr.Before(dep) {
		return arr, dep, "arrival_time must be before departure_time"
	}
	return arr, dep, ""
}

// Create handles POST /v1/bus-stops.
func (h *BusStopHandler) Create(c echo.Context) error {
	var body busStopReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.BusID == 0 || body.StationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bus_id and station_id are required"})
	}
	arr, dep, msg := parseStopWindow(body.ArrivalTime, body.DepartureTime)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	active := true
	if body.IsActive != nil {
		active = *body.IsActive
	}
	stop := &model.BusStop{
		BusID:         body.BusID,
		StationID:     body.StationID,
		ArrivalTime:   arr,
		DepartureTime: dep,
		Sequence:      body.Sequence,
		Platform:      strings.TrimSpace(body.Platform),
		IsActive:      active,
	}
	if err := h.Stops.Create(c.Request().Context(), stop); err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusCreated, stop)
}

// Get handles GET /v1/bus-stops/:id.
func (h *BusStopHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	stop, err := h.Stops.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, stop)
}

// ListByBus handles GET /v1/buses/:id/stops, returning the itinerary
// in trip order.
func (h *BusStopHandler) ListByBus(c echo.Context) error {
	busID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bus id"})
	}
	items, err := h.Stops.ListByBus(c.Request().Context(), busID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListByStation handles GET /v1/stations/:id/stops for station
// departure boards.
func (h *BusStopHandler) ListByStation(c echo.Context) error {
	stationID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid station id"})
	}
	items, err := h.Stops.ListByStation(c.Request().Context(), stationID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /v1/bus-stops/:id.  The bus and station
// references cannot change.
func (h *BusStopHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body busStopReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	arr, dep, msg := parseStopWindow(body.ArrivalTime, body.DepartureTime)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	active := true
	if body.IsActive != nil {
		active = *body.IsActive
	}
	stop := &model.BusStop{
		ID:            id,
		ArrivalTime:   arr,
		DepartureTime: dep,
		Sequence:      body.Sequence,
		Platform:      strings.TrimSpace(body.Platform),
		IsActive:      active,
	}
	if err := h.Stops.Update(c.Request().Context(), stop); err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, stop)
}

// Delete handles DELETE /v1/bus-stops/:id.
func (h *BusStopHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Stops.Delete(c.Request().Context(), id); err != nil {
		return respondRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
