package router

import (
	"github.com/labstack/echo/v4"

	"github.com/busline/bus-ticket-booking/internal/handler"
	"github.com/busline/bus-ticket-booking/internal/middleware"
)

// AdminHandlers groups the handlers whose write operations are
// restricted to operators.
type AdminHandlers struct {
	Stations  *handler.StationHandler
	Routes    *handler.RouteHandler
	Companies *handler.CompanyHandler
	Buses     *handler.BusHandler
	Seats     *handler.SeatHandler
	Schedules *handler.ScheduleHandler
	Tickets   *handler.TicketHandler
	Payments  *handler.PaymentHandler
	Stops     *handler.BusStopHandler
	Providers *handler.ProviderHandler
}

// RegisterAdmin registers ADMIN-scoped endpoints under /v1.
// All routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, h AdminHandlers, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Companies ----
	g.POST("/companies", h.Companies.Create)
	g.PUT("/companies/:id", h.Companies.Update)
	g.DELETE("/companies/:id", h.Companies.Delete)

	// ---- Stations ----
	g.POST("/stations", h.Stations.Create)
	g.PUT("/stations/:id", h.Stations.Update)
	g.DELETE("/stations/:id", h.Stations.Delete)

	// ---- Routes ----
	g.POST("/routes", h.Routes.Create)
	g.PUT("/routes/:id", h.Routes.Update)
	g.DELETE("/routes/:id", h.Routes.Delete)

	// ---- Buses ----
	g.POST("/buses", h.Buses.Create)
	g.PUT("/buses/:id", h.Buses.Update)
	g.DELETE("/buses/:id", h.Buses.Delete)
	g.POST("/buses/:id/images", h.Buses.UploadImage)

	// ---- Seats ----
	g.POST("/buses/:id/seats", h.Seats.Create)
	g.POST("/buses/:id/seats/bulk", h.Seats.CreateBulk)
	g.PUT("/seats/:id", h.Seats.Update)
	g.DELETE("/seats/:id", h.Seats.Delete)

	// ---- Bus stops ----
	g.POST("/bus-stops", h.Stops.Create)
	g.GET("/bus-stops/:id", h.Stops.Get)
	g.PUT("/bus-stops/:id", h.Stops.Update)
	g.DELETE("/bus-stops/:id", h.Stops.Delete)

	// ---- Schedules ----
	g.POST("/schedules", h.Schedules.Create)
	g.PUT("/schedules/:id", h.Schedules.Update)
	g.POST("/schedules/:id/cancel", h.Schedules.Cancel)
	g.DELETE("/schedules/:id", h.Schedules.Delete)

	// ---- Tickets ----
	// Listing every ticket, revenue statistics and hard deletes are
	// operator tools; passengers use the customer routes instead.
	g.GET("/tickets", h.Tickets.List)
	g.GET("/tickets/range", h.Tickets.ByDateRange)
	g.GET("/tickets/statistics", h.Tickets.Statistics)
	g.GET("/schedules/:id/tickets", h.Tickets.BySchedule)
	g.GET("/seats/:id/tickets", h.Tickets.BySeat)
	g.PUT("/tickets/:id", h.Tickets.Update)
	g.DELETE("/tickets/:id", h.Tickets.Delete)

	// ---- Payments ----
	g.PATCH("/payments/:id/status", h.Payments.UpdateStatus)

	// ---- Payment providers ----
	g.POST("/payment-providers", h.Providers.Create)
	g.PUT("/payment-providers/:id", h.Providers.Update)
	g.DELETE("/payment-providers/:id", h.Providers.Delete)
}
