package router

import (
	"github.com/labstack/echo/v4"

	"github.com/busline/bus-ticket-booking/internal/handler"
	"github.com/busline/bus-ticket-booking/internal/middleware"
)

// RegisterCustomer registers the passenger-facing booking endpoints
// under /v1.  All routes require a valid JWT; admins may also call
// them, so an operator booking on a passenger's behalf does not need
// a second account.  The optional limiter middleware throttles the
// booking endpoints; pass nil to disable it.
func RegisterCustomer(e *echo.Echo, t *handler.TicketHandler, p *handler.PaymentHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)
	if limiter != nil {
		g.Use(limiter)
	}

	// Booking and cancellation move schedule inventory, so both go
	// through the booking service rather than plain repository writes.
	g.POST("/tickets", t.Book)
	g.POST("/tickets/:id/cancel", t.Cancel)
	g.GET("/tickets/:id", t.Get)
	g.GET("/tickets/:id/receipt", t.Receipt)
	g.GET("/tickets/:id/payments", p.ListByTicket)

	g.POST("/payments", p.Create)
	g.GET("/payments/:id", p.Get)
}
