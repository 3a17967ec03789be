package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// TestRequireRole checks the coarse role gate: known roles in the allowed set
// pass through, everything else is rejected with 403.
func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		allowed  []string
		role     interface{} // value stored in the context; nil means absent
		wantCode int
	}{
		{name: "allowed role passes", allowed: []string{"admin", "approver"}, role: "admin", wantCode: http.StatusOK},
		{name: "second allowed role passes", allowed: []string{"admin", "approver"}, role: "approver", wantCode: http.StatusOK},
		{name: "role outside the set", allowed: []string{"admin", "approver"}, role: "user", wantCode: http.StatusForbidden},
		{name: "missing role", allowed: []string{"admin"}, role: nil, wantCode: http.StatusForbidden},
		{name: "role with wrong type", allowed: []string{"admin"}, role: 42, wantCode: http.StatusForbidden},
		{name: "empty allowed set rejects everyone", allowed: nil, role: "admin", wantCode: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.role != nil {
				c.Set("role", tt.role)
			}

			err := RequireRole(tt.allowed...)(okHandler)(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

// TestJWTAuth verifies token validation and that the subject and role claims
// end up in the request context for downstream handlers.
func TestJWTAuth(t *testing.T) {
	const secret = "test-secret"

	run := func(authHeader string) (*httptest.ResponseRecorder, echo.Context) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		err := JWTAuth(secret)(okHandler)(c)
		require.NoError(t, err)
		return rec, c
	}

	t.Run("valid token passes and sets claims", func(t *testing.T) {
		raw := signToken(t, secret, jwt.MapClaims{
			"sub":  float64(42),
			"role": "approver",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		rec, c := run("Bearer " + raw)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(42), c.Get("user_id"))
		assert.Equal(t, "approver", c.Get("role"))
	})

	t.Run("missing header", func(t *testing.T) {
		rec, _ := run("")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		rec, _ := run("Basic abc123")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		raw := signToken(t, "other-secret", jwt.MapClaims{"sub": float64(1), "role": "user"})
		rec, _ := run("Bearer " + raw)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		raw := signToken(t, secret, jwt.MapClaims{
			"sub":  float64(1),
			"role": "user",
			"exp":  time.Now().Add(-time.Minute).Unix(),
		})
		rec, _ := run("Bearer " + raw)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec, _ := run("Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
