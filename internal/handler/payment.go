package handler

import (
	"net/http"
	"strings"

	"github.com/busline/bus-ticket-booking/internal/model"
	"github.com/busline/bus-ticket-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// PaymentHandler records and queries payments against tickets.
type PaymentHandler struct {
	Payments *repository.PaymentRepo
}

func NewPaymentHandler(payments *repository.PaymentRepo) *PaymentHandler {
	if payments == nil {
		panic("nil repository passed to NewPaymentHandler")
	}
	return &PaymentHandler{Payments: payments}
}

type paymentReq struct {
	TicketID      uint64  `json:"ticket_id"`
	ProviderID    uint64  `json:"provider_id"`
	PaymentMethod string  `json:"payment_method"`
	Amount        float64 `json:"amount"`
}

// Create handles POST /v1/payments.  The paying user comes from the
// JWT, never from the request body.
func (h *PaymentHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body paymentReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.TicketID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket_id is required"})
	}
	if body.ProviderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provider_id is required"})
	}
	method := model.PaymentMethod(strings.ToUpper(strings.TrimSpace(body.PaymentMethod)))
	if !method.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method must be CASH or ONLINE"})
	}
	if body.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
	}
	p := &model.Payment{
		UserID:        userID,
		TicketID:      body.TicketID,
		ProviderID:    body.ProviderID,
		PaymentMethod: method,
		Amount:        body.Amount,
		Status:        model.PaymentPending,
	}
	if err := h.Payments.Create(c.Request().Context(), p); err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// Get handles GET /v1/payments/:id.
func (h *PaymentHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.Payments.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// ListByTicket handles GET /v1/tickets/:id/payments.
func (h *PaymentHandler) ListByTicket(c echo.Context) error {
	ticketID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	items, err := h.Payments.ListByTicket(c.Request().Context(), ticketID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type paymentStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/payments/:id/status, moving a
// payment between PENDING, COMPLETED and FAILED.
func (h *PaymentHandler) UpdateStatus(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body paymentStatusReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := model.PaymentStatus(strings.ToUpper(strings.TrimSpace(body.Status)))
	if !status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be PENDING, COMPLETED or FAILED"})
	}
	p, err := h.Payments.UpdateStatus(c.Request().Context(), id, status)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
