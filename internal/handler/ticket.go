package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/busline/bus-ticket-booking/internal/model"
	"github.com/busline/bus-ticket-booking/internal/repository"
	"github.com/busline/bus-ticket-booking/internal/service"
	"github.com/busline/bus-ticket-booking/internal/utils"
	"github.com/labstack/echo/v4"
)

// TicketHandler exposes booking, cancellation and the read/admin
// surface for tickets.  The two inventory-moving operations delegate
// to the booking service; everything else talks to the repository.
type TicketHandler struct {
	Tickets *repository.TicketRepo
	Booking *service.BookingService
}

func NewTicketHandler(tickets *repository.TicketRepo, booking *service.BookingService) *TicketHandler {
	if tickets == nil || booking == nil {
		panic("nil dependency passed to NewTicketHandler")
	}
	return &TicketHandler{Tickets: tickets, Booking: booking}
}

type bookReq struct {
	ScheduleID uint64 `json:"schedule_id"`
	SeatID     uint64 `json:"seat_id"`
	SeatType   string `json:"seat_type"` // optional; defaults to the seat's own class
}

// Book handles POST /v1/tickets.  On success it returns 201 with the
// created ticket; capacity and seat conflicts come back as 409.
func (h *TicketHandler) Book(c echo.Context) error {
	var body bookReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ScheduleID == 0 || body.SeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule_id and seat_id are required"})
	}
	seatType := model.SeatType(strings.ToUpper(strings.TrimSpace(body.SeatType)))
	if seatType != "" && !seatType.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_type must be LUXURY, VIP or STANDARD"})
	}
	ticket, err := h.Booking.BookTicket(c.Request().Context(), body.ScheduleID, body.SeatID, seatType)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusCreated, ticket)
}

// Cancel handles POST /v1/tickets/:id/cancel.  Cancelling returns the
// seat to the schedule's pool; repeating the call responds 409.
func (h *TicketHandler) Cancel(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ticket, err := h.Booking.CancelTicket(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, ticket)
}

// Get handles GET /v1/tickets/:id with full schedule, seat and
// payment details.
func (h *TicketHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detail, err := h.Tickets.GetByIDWithDetails(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// List handles GET /v1/tickets with pagination, filters and sorting.
// Supported query parameters: page, limit, schedule_id, seat_id,
// status, date (YYYY-MM-DD), sort_by, sort_order.
func (h *TicketHandler) List(c echo.Context) error {
	q := repository.TicketQuery{
		SortBy:    strings.TrimSpace(c.QueryParam("sort_by")),
		SortOrder: strings.TrimSpace(c.QueryParam("sort_order")),
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if raw := strings.TrimSpace(c.QueryParam("schedule_id")); raw != "" {
		id, ok := parseQueryID(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule_id"})
		}
		q.ScheduleID = id
	}
	if raw := strings.TrimSpace(c.QueryParam("seat_id")); raw != "" {
		id, ok := parseQueryID(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat_id"})
		}
		q.SeatID = id
	}
	if raw := strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))); raw != "" {
		st := model.TicketStatus(raw)
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
	items, total, err := h.Tickets.List(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": total})
}

// BySchedule handles GET /v1/schedules/:id/tickets.
func (h *TicketHandler) BySchedule(c echo.Context) error {
	scheduleID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	items, err := h.Tickets.FindBySchedule(c.Request().Context(), scheduleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// BySeat handles GET /v1/seats/:id/tickets.
func (h *TicketHandler) BySeat(c echo.Context) error {
	seatID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}
	items, err := h.Tickets.FindBySeat(c.Request().Context(), seatID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ByDateRange handles GET /v1/tickets/range?start=&end= where both
// bounds are YYYY-MM-DD dates (the end day is inclusive).
func (h *TicketHandler) ByDateRange(c echo.Context) error {
	start := strings.TrimSpace(c.QueryParam("start"))
	end := strings.TrimSpace(c.QueryParam("end"))
	startT, err1 := time.Parse("2006-01-02", start)
	endT, err2 := time.Parse("2006-01-02", end)
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start and end must be YYYY-MM-DD"})
	}
	if endT.Before(startT) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must not be before start"})
	}
	items, err := h.Tickets.FindByDateRange(c.Request().Context(), start+" 00:00:00", end+" 23:59:59")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Statistics handles GET /v1/tickets/statistics.
func (h *TicketHandler) Statistics(c echo.Context) error {
	stats, err := h.Tickets.Statistics(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, stats)
}

type ticketUpdateReq struct {
	DepartureTime string  `json:"departure_time"` // RFC3339
	ArrivalTime   string  `json:"arrival_time"`   // RFC3339
	SeatType      string  `json:"seat_type"`
	Price         float64 `json:"price"`
}

// Update handles PUT /v1/tickets/:id for operator corrections.  The
// status field is not editable here: cancellations must go through
// Cancel so the schedule's counter moves with them.
func (h *TicketHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body ticketUpdateReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	dep, arr, msg := parseTimeRange(body.DepartureTime, body.ArrivalTime)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	seatType := model.SeatType(strings.ToUpper(strings.TrimSpace(body.SeatType)))
	if !seatType.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_type must be LUXURY, VIP or STANDARD"})
	}
	if body.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}
	ticket := &model.Ticket{
		ID:            id,
		DepartureTime: dep,
		ArrivalTime:   arr,
		SeatType:      seatType,
		Price:         body.Price,
	}
	if err := h.Tickets.Update(c.Request().Context(), ticket); err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, ticket)
}

// Delete handles DELETE /v1/tickets/:id.  Tickets with payments
// respond 409; regular flows should cancel instead.
func (h *TicketHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Tickets.Delete(c.Request().Context(), id); err != nil {
		return respondRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Receipt handles GET /v1/tickets/:id/receipt and streams a PDF
// receipt for the ticket.
func (h *TicketHandler) Receipt(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detail, err := h.Tickets.GetByIDWithDetails(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	pdf, filename, err := utils.BuildTicketReceipt(detail)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not render receipt"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
