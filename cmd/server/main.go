package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/busline/bus-ticket-booking/internal/config"
	"github.com/busline/bus-ticket-booking/internal/database"
	"github.com/busline/bus-ticket-booking/internal/handler"
	"github.com/busline/bus-ticket-booking/internal/middleware"
	"github.com/busline/bus-ticket-booking/internal/queue"
	"github.com/busline/bus-ticket-booking/internal/repository"
	"github.com/busline/bus-ticket-booking/internal/router"
	"github.com/busline/bus-ticket-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; a nil client disables caching and rate
	// limiting instead of failing startup.
	rdb := config.NewRedisClient()
	var cacheMW, limitMW echo.MiddlewareFunc
	if rdb != nil {
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
		limitMW = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	} else {
		log.Println("redis unavailable, caching and rate limiting disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	companies := repository.NewCompanyRepo(db)
	stations := repository.NewStationRepo(db)
	routes := repository.NewRouteRepo(db)
	buses := repository.NewBusRepo(db)
	seats := repository.NewSeatRepo(db)
	schedules := repository.NewScheduleRepo(db)
	tickets := repository.NewTicketRepo(db)
	payments := repository.NewPaymentRepo(db)
	providers := repository.NewProviderRepo(db)
	stops := repository.NewBusStopRepo(db)

	booking := service.NewBookingService(schedules, seats, tickets)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	companyH := handler.NewCompanyHandler(companies)
	stationH := handler.NewStationHandler(stations)
	routeH := handler.NewRouteHandler(routes, stations)
	busH := handler.NewBusHandler(buses, companies, cfg.UploadDir)
	seatH := handler.NewSeatHandler(seats, buses)
	scheduleH := handler.NewScheduleHandler(schedules, routes, buses)
	ticketH := handler.NewTicketHandler(tickets, booking)
	paymentH := handler.NewPaymentHandler(payments)
	providerH := handler.NewProviderHandler(providers)
	stopH := handler.NewBusStopHandler(stops)

	// Drain booked/cancelled ticket events in the background.  The
	// consumer reconnects on its own; a dead broker only costs the
	// event log, never a booking.
	if cfg.RabbitURL != "" {
		go func() {
			if err := queue.StartTicketConsumer(); err != nil {
				log.Printf("ticket consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	public := router.PublicHandlers{
		Stations:  stationH,
		Routes:    routeH,
		Companies: companyH,
		Buses:     busH,
		Seats:     seatH,
		Schedules: scheduleH,
		Stops:     stopH,
		Providers: providerH,
	}
	admin := router.AdminHandlers{
		Stations:  stationH,
		Routes:    routeH,
		Companies: companyH,
		Buses:     busH,
		Seats:     seatH,
		Schedules: scheduleH,
		Tickets:   ticketH,
		Payments:  paymentH,
		Stops:     stopH,
		Providers: providerH,
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, public, cacheMW)
	router.RegisterCustomer(e, ticketH, paymentH, cfg.JWTSecret, limitMW)
	router.RegisterAdmin(e, admin, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
