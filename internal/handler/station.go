package handler

import (
	"net/http"
	"strings"

	"github.com/busline/bus-ticket-booking/internal/model"
	"github.com/busline/bus-ticket-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// StationHandler exposes CRUD endpoints for boarding stations.
type StationHandler struct {
	Stations *repository.StationRepo
}

func NewStationHandler(stations *repository.StationRepo) *StationHandler {
	if stations == nil {
		panic("nil repository passed to NewStationHandler")
	}
	return &StationHandler{Stations: stations}
}

type stationReq struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Create handles POST /v1/stations.
func (h *StationHandler) Create(c echo.Context) error {
	var body stationReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	station := &model.Station{Name: name, Location: strings.TrimSpace(body.Location)}
	if err := h.Stations.Create(c.Request().Context(), station); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "station already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create station"})
	}
	return c.JSON(http.StatusCreated, station)
}

// Get handles GET /v1/stations/:id.
func (h *StationHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	station, err := h.Stations.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, station)
}

// List handles GET /v1/stations; ?search= filters by name substring.
func (h *StationHandler) List(c echo.Context) error {
	items, err := h.Stations.List(c.Request().Context(), strings.TrimSpace(c.QueryParam("search")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /v1/stations/:id.
func (h *StationHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body stationReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	station := &model.Station{ID: id, Name: name, Location: strings.TrimSpace(body.Location)}
	if err := h.Stations.Update(c.Request().Context(), station); err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, station)
}

// Delete handles DELETE /v1/stations/:id.  Stations referenced by
// routes respond 409.
func (h *StationHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Stations.Delete(c.Request().Context(), id); err != nil {
		return respondRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
