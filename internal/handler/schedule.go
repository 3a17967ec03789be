package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
)

// ScheduleHandler exposes the public day view of a room: the non-rejected
// reservations occupying its slots on a given date.  The response is
// sanitized for guests, so it can sit behind the response cache.
type ScheduleHandler struct {
	ReservationRepo *repository.ReservationRepo
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(resRepo *repository.ReservationRepo) *ScheduleHandler {
	if resRepo == nil {
		panic("nil repository passed to NewScheduleHandler")
	}
	return &ScheduleHandler{ReservationRepo: resRepo}
}

type scheduleEntry struct {
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	ReservationType string `json:"reservation_type"`
	Status          string `json:"reservation_status"`
}

// GetRoomSchedule handles GET /v1/rooms/:id/schedule?date=YYYY-MM-DD.
func (h *ScheduleHandler) GetRoomSchedule(c echo.Context) error {
	roomID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	date := c.QueryParam("date")
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	items, err := h.ReservationRepo.ListByRoomDate(c.Request().Context(), roomID, date)
	if err != nil {
		log.Printf("schedule: list room %d on %s failed: %v", roomID, date, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load schedule"})
	}
	entries := make([]scheduleEntry, 0, len(items))
	for _, r := range items {
		entries = append(entries, scheduleEntry{
			StartTime:       r.StartTime,
			EndTime:         r.EndTime,
			ReservationType: r.ReservationType,
			Status:          string(r.Status),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_id": roomID,
		"date":    date,
		"items":   entries,
		"count":   len(entries),
	})
}
