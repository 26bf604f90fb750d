package router

import (
	"github.com/labstack/echo/v4"

	"github.com/busline/bus-ticket-booking/internal/handler"
	"github.com/busline/bus-ticket-booking/internal/middleware"
)

// PublicHandlers groups the handlers that serve unauthenticated browse
// endpoints so RegisterPublic does not take a parameter per resource.
type PublicHandlers struct {
	Stations  *handler.StationHandler
	Routes    *handler.RouteHandler
	Companies *handler.CompanyHandler
	Buses     *handler.BusHandler
	Seats     *handler.SeatHandler
	Schedules *handler.ScheduleHandler
	Stops     *handler.BusStopHandler
	Providers *handler.ProviderHandler
}

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance.  Currently it exposes only a health
// check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints and the
// token-protected /v1/me route.  Unauthenticated operations live
// under /v1/auth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout takes the refresh token in the body, so it does not
	// require an access token.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints:
// stations, routes, companies, buses, seats and schedule search.
// Guests can find a trip and inspect the bus before registering.
// The optional cache middleware is applied to every route in the
// group; pass nil to disable response caching.
func RegisterPublic(e *echo.Echo, h PublicHandlers, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}

	g.GET("/stations", h.Stations.List)
	g.GET("/stations/:id", h.Stations.Get)
	g.GET("/stations/:id/stops", h.Stops.ListByStation)

	g.GET("/routes", h.Routes.List)
	g.GET("/routes/:id", h.Routes.Get)

	g.GET("/companies", h.Companies.List)
	g.GET("/companies/:id", h.Companies.Get)

	g.GET("/buses", h.Buses.List)
	g.GET("/buses/:id", h.Buses.Get)
	g.GET("/buses/:id/seats", h.Seats.ListByBus)
	g.GET("/buses/:id/schedules", h.Schedules.ByBus)
	g.GET("/buses/:id/stops", h.Stops.ListByBus)
	g.GET("/seats/:id", h.Seats.Get)

	g.GET("/payment-providers", h.Providers.List)
	g.GET("/payment-providers/:id", h.Providers.Get)

	g.GET("/schedules", h.Schedules.List)
	g.GET("/schedules/popular", h.Schedules.Popular)
	g.GET("/schedules/:id", h.Schedules.Get)
	g.GET("/search/schedules", h.Schedules.Search)
}
