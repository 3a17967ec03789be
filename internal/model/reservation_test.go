package model

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewReservation covers the happy path and every validation failure a
// booking request can hit before it reaches the store.
func TestNewReservation(t *testing.T) {
	valid := func() (uint64, uint64, string, string, string, uint32, string, string, string) {
		return 7, 42, "2026-09-01", "09:00", "11:00", 12, TypeTeaching, "weekly lecture", "555-0100"
	}

	t.Run("valid input builds a pending reservation", func(t *testing.T) {
		roomID, userID, date, start, end, n, rtype, reason, phone := valid()
		res, err := NewReservation(roomID, userID, date, start, end, n, rtype, reason, phone)
		require.NoError(t, err)

		assert.Equal(t, StatusPending, res.Status)
		assert.Equal(t, uint64(7), res.RoomID)
		assert.Equal(t, uint64(42), res.UserID)
		assert.Equal(t, "2026-09-01", res.BookingDate)
		// Times are normalized to the stored layout.
		assert.Equal(t, "09:00:00", res.StartTime)
		assert.Equal(t, "11:00:00", res.EndTime)
		require.NotNil(t, res.ReservationReason)
		assert.Equal(t, "weekly lecture", *res.ReservationReason)
		assert.Nil(t, res.RejectionReason)

		// The reference must be a well-formed UUID and unique per call.
		_, err = uuid.Parse(res.Reference)
		require.NoError(t, err)
		other, err := NewReservation(roomID, userID, date, start, end, n, rtype, reason, phone)
		require.NoError(t, err)
		assert.NotEqual(t, res.Reference, other.Reference)
	})

	t.Run("empty reason stays nil", func(t *testing.T) {
		roomID, userID, date, start, end, n, rtype, _, phone := valid()
		res, err := NewReservation(roomID, userID, date, start, end, n, rtype, "   ", phone)
		require.NoError(t, err)
		assert.Nil(t, res.ReservationReason)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(roomID, userID *uint64, date, start, end *string, n *uint32, rtype, reason, phone *string)
		}{
			{"zero room id", func(roomID, _ *uint64, _, _, _ *string, _ *uint32, _, _, _ *string) { *roomID = 0 }},
			{"zero user id", func(_, userID *uint64, _, _, _ *string, _ *uint32, _, _, _ *string) { *userID = 0 }},
			{"bad date", func(_, _ *uint64, date, _, _ *string, _ *uint32, _, _, _ *string) { *date = "Sep 1" }},
			{"start after end", func(_, _ *uint64, _, start, end *string, _ *uint32, _, _, _ *string) {
				*start, *end = "14:00", "09:00"
			}},
			{"zero headcount", func(_, _ *uint64, _, _, _ *string, n *uint32, _, _, _ *string) { *n = 0 }},
			{"blank type", func(_, _ *uint64, _, _, _ *string, _ *uint32, rtype, _, _ *string) { *rtype = "  " }},
			{"blank phone", func(_, _ *uint64, _, _, _ *string, _ *uint32, _, _, phone *string) { *phone = "" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				roomID, userID, date, start, end, n, rtype, reason, phone := valid()
				tt.mutate(&roomID, &userID, &date, &start, &end, &n, &rtype, &reason, &phone)
				_, err := NewReservation(roomID, userID, date, start, end, n, rtype, reason, phone)
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
			})
		}
	})
}

func TestReservationSlot(t *testing.T) {
	res, err := NewReservation(7, 42, "2026-09-01", "09:00", "11:00", 1, TypeExam, "", "555-0100")
	require.NoError(t, err)

	slot := res.Slot()
	assert.Equal(t, "2026-09-01", slot.Date)
	assert.Equal(t, "09:00:00", slot.Start.String())
	assert.Equal(t, "11:00:00", slot.End.String())

	// A malformed row yields a zero slot that overlaps nothing.
	broken := &Reservation{BookingDate: "2026-09-01", StartTime: "nope", EndTime: "11:00:00"}
	assert.False(t, broken.Slot().Overlaps(slot))
}
