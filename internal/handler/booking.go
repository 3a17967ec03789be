package handler

// This file implements the booking entry points: creating a reservation,
// the advisory conflict check, the owner's reservation history and owner
// cancellation.  Conflict checking at creation time is authoritative; the
// repository re-checks inside its transaction, the GET endpoint here is only
// a UX hint for clients that want to warn before submitting.

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/room-reservation/internal/service"
)

// BookingHandler serves reservation creation, conflict checks and the
// owner-facing read and cancel operations.  JWT authentication and role
// validation are performed by middleware before any method runs.
type BookingHandler struct {
	ReservationRepo *repository.ReservationRepo
}

// NewBookingHandler constructs a BookingHandler.  The repository must be
// non-nil.
func NewBookingHandler(resRepo *repository.ReservationRepo) *BookingHandler {
	if resRepo == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{ReservationRepo: resRepo}
}

// conflictView is the sanitized projection of a conflicting reservation
// returned to callers.  Contact details of other users are not exposed.
type conflictView struct {
	ID              uint64 `json:"id"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	ReservationType string `json:"reservation_type"`
	Status          string `json:"reservation_status"`
}

func conflictViews(rows []model.Reservation) []conflictView {
	out := make([]conflictView, 0, len(rows))
	for _, r := range rows {
		out = append(out, conflictView{
			ID:              r.ID,
			StartTime:       r.StartTime,
			EndTime:         r.EndTime,
			ReservationType: r.ReservationType,
			Status:          string(r.Status),
		})
	}
	return out
}

// publishLifecycle emits a reservation lifecycle event to the broker without
// blocking the request.  Publish failures are logged by the publisher and
// otherwise ignored; the booking outcome never depends on the broker.
func publishLifecycle(event string, res *model.Reservation) {
	ev := queue.ReservationEvent{
		Event:         event,
		ReservationID: res.ID,
		Reference:     res.Reference,
		RoomID:        res.RoomID,
		UserID:        res.UserID,
		BookingDate:   res.BookingDate,
		StartTime:     res.StartTime,
		EndTime:       res.EndTime,
		Status:        string(res.Status),
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if res.RejectionReason != nil {
		ev.RejectionReason = *res.RejectionReason
	}
	go func() {
		if err := queue_publisher.PublishReservationEvent(context.Background(), ev); err != nil {
			log.Printf("booking: publish %s event for reservation %d failed: %v", event, res.ID, err)
		}
	}()
}

// CreateBooking handles POST /v1/reservations.  It validates the request,
// then asks the repository to insert the reservation behind the serialized
// conflict re-check.  Responses: 201 with the pending row, 400 on validation
// failure, 409 with the conflicting slots, 500 on storage failure.  A failed
// insert is reported as-is; the orchestrator never retries.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		RoomID            uint64 `json:"room_id"`
		BookingDate       string `json:"booking_date"`
		StartTime         string `json:"start_time"`
		EndTime           string `json:"end_time"`
		NumberOfUsers     uint32 `json:"number_of_users"`
		ReservationType   string `json:"reservation_type"`
		ReservationReason string `json:"reservation_reason"`
		Phone             string `json:"phone"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := model.NewReservation(
		body.RoomID, userID, body.BookingDate, body.StartTime, body.EndTime,
		body.NumberOfUsers, body.ReservationType, body.ReservationReason, body.Phone,
	)
	if err != nil {
		if errors.Is(err, model.ErrValidation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to build reservation"})
	}
	ctx := c.Request().Context()
	conflicts, err := h.ReservationRepo.Create(ctx, res)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":     "time_conflict",
				"conflicts": conflictViews(conflicts),
			})
		}
		log.Printf("booking: create reservation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}
	publishLifecycle("created", res)
	return c.JSON(http.StatusCreated, echo.Map{"item": res})
}

// CheckConflict handles GET /v1/reservations/check.  It evaluates the overlap
// predicate against existing non-rejected reservations without writing
// anything.  Query parameters: room_id, date, start, end and an optional
// exclude_id for a reservation being edited.
func (h *BookingHandler) CheckConflict(c echo.Context) error {
	roomID, err := strconv.ParseUint(c.QueryParam("room_id"), 10, 64)
	if err != nil || roomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room_id"})
	}
	slot, err := model.NewTimeSlot(c.QueryParam("date"), c.QueryParam("start"), c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var excludeID uint64
	if raw := c.QueryParam("exclude_id"); raw != "" {
		excludeID, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exclude_id"})
		}
	}
	conflicts, err := h.ReservationRepo.FindConflicts(
		c.Request().Context(), roomID, slot.Date, slot.Start.String(), slot.End.String(), excludeID)
	if err != nil {
		log.Printf("booking: conflict check failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check conflicts"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"has_conflict": len(conflicts) > 0,
		"conflicts":    conflictViews(conflicts),
	})
}

// ListMyReservations handles GET /v1/reservations/mine and returns the
// caller's reservation history, newest first.
func (h *BookingHandler) ListMyReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.ReservationRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		log.Printf("booking: list reservations failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// GetMyReservation handles GET /v1/reservations/:id for the owning user.
// 404 when the reservation does not exist, 403 when it belongs to someone
// else.
func (h *BookingHandler) GetMyReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.ReservationRepo.GetByIDForUser(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		log.Printf("booking: fetch reservation %d failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// CancelBooking handles DELETE /v1/reservations/:id.  Cancellation removes
// the row entirely and is allowed from any status, but only for the owner:
// cancelling someone else's reservation fails with 403 rather than silently
// doing nothing.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	res, err := h.ReservationRepo.GetByIDForUser(ctx, id, userID)
	if err == nil {
		err = h.ReservationRepo.DeleteByOwner(ctx, id, userID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		log.Printf("booking: cancel reservation %d failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel reservation"})
	}
	publishLifecycle("cancelled", res)
	return c.NoContent(http.StatusNoContent)
}
