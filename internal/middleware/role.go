package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole returns a middleware that rejects requests whose authenticated
// role is not in the allowed set.  Roles correspond to the JWT "role" claim
// values (admin, approver, user) that JWTAuth stored in the context.  Missing
// or unknown roles are rejected with 403.  Fine-grained transition rules stay
// in the approval handlers; this gate only enforces coarse membership.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
