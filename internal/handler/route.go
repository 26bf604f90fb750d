package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/busline/bus-ticket-booking/internal/model"
	"github.com/busline/bus-ticket-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// RouteHandler exposes CRUD endpoints for routes.  A route's price is
// the base fare; seat classes scale it at booking time.
type RouteHandler struct {
	Routes   *repository.RouteRepo
	Stations *repository.StationRepo
}

func NewRouteHandler(routes *repository.RouteRepo, stations *repository.StationRepo) *RouteHandler {
	if routes == nil || stations == nil {
		panic("nil repository passed to NewRouteHandler")
	}
	return &RouteHandler{Routes: routes, Stations: stations}
}

type routeReq struct {
	DepartureStationID uint64  `json:"departure_station_id"`
	ArrivalStationID   uint64  `json:"arrival_station_id"`
	Price              float64 `json:"price"`
	Duration           uint32  `json:"duration"`
	Distance           uint32  `json:"distance"`
}

// validate checks the request body and both referenced stations.  On
// failure it writes the error response and reports ok=false so the
// caller must stop.
func (h *RouteHandler) validate(c echo.Context, body *routeReq) (ok bool, err error) {
	if body.DepartureStationID == 0 || body.ArrivalStationID == 0 {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "departure_station_id and arrival_station_id are required"})
	}
	if body.DepartureStationID == body.ArrivalStationID {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "departure and arrival stations must differ"})
	}
	if body.Price < 0 {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}
	ctx := c.Request().Context()
	if _, err := h.Stations.GetByID(ctx, body.DepartureStationID); err != nil {
		return false, respondRepoErr(c, err)
	}
	if _, err := h.Stations.GetByID(ctx, body.ArrivalStationID); err != nil {
		return false, respondRepoErr(c, err)
	}
	return true, nil
}

// Create handles POST /v1/routes.
func (h *RouteHandler) Create(c echo.Context) error {
	var body routeReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if ok, err := h.validate(c, &body); !ok {
		return err
	}
	route := &model.Route{
		DepartureStationID: body.DepartureStationID,
		ArrivalStationID:   body.ArrivalStationID,
		Price:              body.Price,
		Duration:           body.Duration,
		Distance:           body.Distance,
	}
	if err := h.Routes.Create(c.Request().Context(), route); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create route"})
	}
	return c.JSON(http.StatusCreated, route)
}

// Get handles GET /v1/routes/:id.
func (h *RouteHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	route, err := h.Routes.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, route)
}

// List handles GET /v1/routes.  With ?from=&to= it returns only the
// routes between the two stations.
func (h *RouteHandler) List(c echo.Context) error {
	from := strings.TrimSpace(c.QueryParam("from"))
	to := strings.TrimSpace(c.QueryParam("to"))
	if from != "" || to != "" {
		fromID, err1 := strconv.ParseUint(from, 10, 64)
		toID, err2 := strconv.ParseUint(to, 10, 64)
		if err1 != nil || err2 != nil || fromID == 0 || toID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "from and to must be station ids"})
		}
		items, err := h.Routes.FindByStations(c.Request().Context(), fromID, toID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		return c.JSON(http.StatusOK, echo.Map{"items": items})
	}
	items, err := h.Routes.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /v1/routes/:id.
func (h *RouteHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body routeReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if ok, err := h.validate(c, &body); !ok {
		return err
	}
	route := &model.Route{
		ID:                 id,
		DepartureStationID: body.DepartureStationID,
		ArrivalStationID:   body.ArrivalStationID,
		Price:              body.Price,
		Duration:           body.Duration,
		Distance:           body.Distance,
	}
	if err := h.Routes.Update(c.Request().Context(), route); err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, route)
}

// Delete handles DELETE /v1/routes/:id.  Routes still referenced by
// schedules respond 409.
func (h *RouteHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Routes.Delete(c.Request().Context(), id); err != nil {
		return respondRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
