package handler

import (
	"net/http"
	"strings"

	"github.com/busline/bus-ticket-booking/internal/model"
	"github.com/busline/bus-ticket-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// SeatHandler exposes CRUD endpoints for the physical seats of a bus.
type SeatHandler struct {
	Seats *repository.SeatRepo
	Buses *repository.BusRepo
}

func NewSeatHandler(seats *repository.SeatRepo, buses *repository.BusRepo) *SeatHandler {
	if seats == nil || buses == nil {
		panic("nil repository passed to NewSeatHandler")
	}
	return &SeatHandler{Seats: seats, Buses: buses}
}

type seatReq struct {
	SeatNumber       string  `json:"seat_number"`
	SeatType         string  `json:"seat_type"`
	PriceForSeatType float64 `json:"price_for_seat_type"`
}

func seatFromReq(busID uint64, body seatReq) (*model.Seat, string) {
	number := strings.ToUpper(strings.TrimSpace(body.SeatNumber))
	if number == "" {
		return nil, "seat_number is required"
	}
	st := model.SeatType(strings.ToUpper(strings.TrimSpace(body.SeatType)))
	if st == "" {
		st = model.SeatStandard
	}
	if !st.Valid() {
		return nil, "seat_type must be LUXURY, VIP or STANDARD"
	}
	if body.PriceForSeatType < 0 {
		return nil, "price_for_seat_type must not be negative"
	}
	return &model.Seat{
		BusID:            busID,
		SeatNumber:       number,
		SeatType:         st,
		PriceForSeatType: body.PriceForSeatType,
	}, ""
}

// Create handles POST /v1/buses/:id/seats.
func (h *SeatHandler) Create(c echo.Context) error {
	busID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bus id"})
	}
	if _, err := h.Buses.GetByID(c.Request().Context(), busID); err != nil {
		return respondRepoErr(c, err)
	}
	var body seatReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	seat, msg := seatFromReq(busID, body)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.Seats.Create(c.Request().Context(), seat); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat number already exists on this bus"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create seat"})
	}
	return c.JSON(http.StatusCreated, seat)
}

// CreateBulk handles POST /v1/buses/:id/seats/bulk with a JSON array
// of seats.  The whole batch is inserted in one statement.
func (h *SeatHandler) CreateBulk(c echo.Context) error {
	busID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bus id"})
	}
	if _, err := h.Buses.GetByID(c.Request().Context(), busID); err != nil {
		return respondRepoErr(c, err)
	}
	var body struct {
		Seats []seatReq `json:"seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
	}
	seats := make([]model.Seat, 0, len(body.Seats))
	for _, sr := range body.Seats {
		seat, msg := seatFromReq(busID, sr)
		if msg != "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
		}
		seats = append(seats, *seat)
	}
	if err := h.Seats.CreateBulk(c.Request().Context(), seats); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate seat number in batch"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create seats"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"created": len(seats)})
}

// ListByBus handles GET /v1/buses/:id/seats.
func (h *SeatHandler) ListByBus(c echo.Context) error {
	busID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bus id"})
	}
	if _, err := h.Buses.GetByID(c.Request().Context(), busID); err != nil {
		return respondRepoErr(c, err)
	}
	items, err := h.Seats.ListByBus(c.Request().Context(), busID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/seats/:id.
func (h *SeatHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	seat, err := h.Seats.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, seat)
}

// Update handles PUT /v1/seats/:id.
func (h *SeatHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body seatReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	seat, msg := seatFromReq(0, body)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	seat.ID = id
	if err := h.Seats.Update(c.Request().Context(), seat); err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, seat)
}

// Delete handles DELETE /v1/seats/:id.  Seats with a BOOKED ticket
// respond 409.
func (h *SeatHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Seats.Delete(c.Request().Context(), id); err != nil {
		return respondRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
