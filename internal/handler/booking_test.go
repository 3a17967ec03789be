package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestContext builds an echo context for a handler call.  The returned
// recorder captures the response.
func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// The request-shape tests below run against a handler with no repository:
// every case must be rejected before any storage access happens, so reaching
// the nil repository would itself be a failure (panic).

func TestCreateBookingRejectsBadInput(t *testing.T) {
	h := &BookingHandler{}

	t.Run("missing identity", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodPost, "/v1/reservations", `{}`)
		require.NoError(t, h.CreateBooking(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed json body", func(t *testing.T) {
		c, rec := newTestContext(t, http.MethodPost, "/v1/reservations", `{"room_id":`)
		c.Set("user_id", float64(42))
		require.NoError(t, h.CreateBooking(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing room id",
			body: `{"booking_date":"2026-09-01","start_time":"09:00","end_time":"10:00","number_of_users":4,"reservation_type":"teaching","phone":"555-0100"}`,
		},
		{
			name: "start after end",
			body: `{"room_id":7,"booking_date":"2026-09-01","start_time":"14:00","end_time":"09:00","number_of_users":4,"reservation_type":"teaching","phone":"555-0100"}`,
		},
		{
			name: "bad date",
			body: `{"room_id":7,"booking_date":"tomorrow","start_time":"09:00","end_time":"10:00","number_of_users":4,"reservation_type":"teaching","phone":"555-0100"}`,
		},
		{
			name: "zero headcount",
			body: `{"room_id":7,"booking_date":"2026-09-01","start_time":"09:00","end_time":"10:00","number_of_users":0,"reservation_type":"teaching","phone":"555-0100"}`,
		},
		{
			name: "missing phone",
			body: `{"room_id":7,"booking_date":"2026-09-01","start_time":"09:00","end_time":"10:00","number_of_users":4,"reservation_type":"teaching"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(t, http.MethodPost, "/v1/reservations", tt.body)
			c.Set("user_id", float64(42))
			require.NoError(t, h.CreateBooking(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCheckConflictRejectsBadQuery(t *testing.T) {
	h := &BookingHandler{}

	tests := []struct {
		name  string
		query string
	}{
		{name: "missing room id", query: "date=2026-09-01&start=09:00&end=10:00"},
		{name: "non-numeric room id", query: "room_id=abc&date=2026-09-01&start=09:00&end=10:00"},
		{name: "zero room id", query: "room_id=0&date=2026-09-01&start=09:00&end=10:00"},
		{name: "missing date", query: "room_id=7&start=09:00&end=10:00"},
		{name: "start after end", query: "room_id=7&date=2026-09-01&start=14:00&end=09:00"},
		{name: "bad exclude id", query: "room_id=7&date=2026-09-01&start=09:00&end=10:00&exclude_id=xyz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(t, http.MethodGet, "/v1/reservations/check?"+tt.query, "")
			require.NoError(t, h.CheckConflict(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetMyReservationRejectsBadID(t *testing.T) {
	h := &BookingHandler{}

	c, rec := newTestContext(t, http.MethodGet, "/v1/reservations/abc", "")
	c.Set("user_id", float64(42))
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.GetMyReservation(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelBookingRejectsMissingIdentity(t *testing.T) {
	h := &BookingHandler{}

	c, rec := newTestContext(t, http.MethodDelete, "/v1/reservations/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.CancelBooking(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserIDAcceptsCommonClaimShapes(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  uint64
		ok    bool
	}{
		{name: "float64 from json", value: float64(42), want: 42, ok: true},
		{name: "uint64", value: uint64(7), want: 7, ok: true},
		{name: "int", value: 9, want: 9, ok: true},
		{name: "numeric string", value: "123", want: 123, ok: true},
		{name: "non-numeric string", value: "abc", ok: false},
		{name: "absent", value: nil, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(t, http.MethodGet, "/", "")
			if tt.value != nil {
				c.Set("user_id", tt.value)
			}
			got, err := getUserID(c)
			if !tt.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
