package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads variables from a .env file
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/room-reservation/internal/config"     // Internal config loader
	"github.com/iliyamo/room-reservation/internal/database"   // MySQL connection helper
	"github.com/iliyamo/room-reservation/internal/handler"    // HTTP handlers
	"github.com/iliyamo/room-reservation/internal/middleware" // Rate limiting and response cache
	"github.com/iliyamo/room-reservation/internal/queue"      // RabbitMQ audit consumer
	"github.com/iliyamo/room-reservation/internal/repository" // Data access layer
	"github.com/iliyamo/room-reservation/internal/router"     // Route registration
)

func main() {
	_ = godotenv.Load() // Load .env if present; real env vars win

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName) // Connect to MySQL
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	rdb := config.NewRedisClient() // Optional Redis client; nil disables limiter and cache
	if rdb == nil {
		log.Println("redis unavailable: rate limiting and response caching disabled")
	}

	reservations := repository.NewReservationRepo(db) // Reservation data access

	booking := handler.NewBookingHandler(reservations)   // Booking lifecycle endpoints
	approval := handler.NewApprovalHandler(reservations) // Approval workflow endpoints
	schedule := handler.NewScheduleHandler(reservations) // Public schedule endpoint

	e := echo.New() // Create Echo instance

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb) // Redis token bucket per user/IP
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)        // Short-TTL cache for public reads

	// Health check, public schedule, authenticated booking and staff approval routes.
	router.RegisterRoutes(e)
	router.RegisterPublic(e, schedule, limiter, cache)
	router.RegisterReservations(e, booking, cfg.JWTSecret, limiter)
	router.RegisterApprovals(e, approval, cfg.JWTSecret, limiter)

	go func() { // Consume lifecycle events into the audit log in the background
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
