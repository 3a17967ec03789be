package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/room-reservation/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/room-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  The schedule handler returns sanitized reservation data
// for a room so that anyone can check what times are already taken before
// attempting to book.  The optional middleware slice lets the caller attach
// rate limiting and response caching when Redis is available.
func RegisterPublic(e *echo.Echo, s *handler.ScheduleHandler, mw ...echo.MiddlewareFunc) {
	// Publicly view a room's schedule for a single day.  The response omits
	// requester contact details so the endpoint is safe without a session.
	e.GET("/v1/rooms/:id/schedule", s.GetRoomSchedule, mw...)
}

// RegisterReservations registers the reservation endpoints and applies the
// necessary middleware.  All routes in this group require a valid access
// token; any of the known roles may create and manage their own bookings.
func RegisterReservations(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, mw ...echo.MiddlewareFunc) {
	// Create a route group under the /v1 prefix for reservation operations.
	// All handlers registered on this group will execute the JWTAuth
	// middleware before being invoked.
	g := e.Group("/v1/reservations")
	// Apply the JWTAuth middleware to the protected group using the provided secret.
	g.Use(middleware.JWTAuth(jwtSecret))
	// Any authenticated role may book rooms and manage its own reservations.
	// The middleware will reject requests with missing or unknown roles.
	g.Use(middleware.RequireRole("admin", "approver", "user"))
	for _, m := range mw {
		g.Use(m)
	}
	// Submit a new reservation request.  The booking is created in the
	// pending state and returned with a 201 on success, or 409 with the
	// conflicting entries when the slot is already taken.
	g.POST("", b.CreateBooking)
	// Dry-run conflict probe: reports whether a candidate slot overlaps any
	// live reservation without creating anything.
	g.GET("/check", b.CheckConflict)
	// List the caller's own reservations, most recent first.
	g.GET("/mine", b.ListMyReservations)
	// Fetch a single reservation by id.  Only the owner may view it here.
	g.GET("/:id", b.GetMyReservation)
	// Cancel (delete) a reservation.  Only the owner may cancel, and the
	// handler responds with 204 on success.
	g.DELETE("/:id", b.CancelBooking)
}

// RegisterApprovals registers the review endpoints used by staff to move
// reservations through the approval workflow.  Only admins and approvers
// may call these routes; the handlers enforce the finer-grained rules about
// which role may set which status.
func RegisterApprovals(e *echo.Echo, a *handler.ApprovalHandler, jwtSecret string, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("admin", "approver"))
	for _, m := range mw {
		g.Use(m)
	}
	// Advance a reservation one step: admins grant the first approval,
	// approvers grant the final one.
	g.POST("/reservations/:id/approve", a.Approve)
	// Reject a reservation with a mandatory reason.  Rejection is terminal.
	g.POST("/reservations/:id/reject", a.Reject)
	// List the reservations waiting on the caller's role: admins see newly
	// submitted requests, approvers see requests that already carry the
	// first approval.
	g.GET("/approvals/pending", a.ListPending)
}
