package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRoomScheduleRejectsBadInput(t *testing.T) {
	h := &ScheduleHandler{}

	tests := []struct {
		name   string
		roomID string
		date   string
	}{
		{name: "non-numeric room id", roomID: "abc", date: "2026-09-01"},
		{name: "zero room id", roomID: "0", date: "2026-09-01"},
		{name: "missing date", roomID: "7", date: ""},
		{name: "bad date layout", roomID: "7", date: "01-09-2026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(t, http.MethodGet, "/v1/rooms/"+tt.roomID+"/schedule?date="+tt.date, "")
			c.SetParamNames("id")
			c.SetParamValues(tt.roomID)
			require.NoError(t, h.GetRoomSchedule(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
