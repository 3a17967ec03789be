package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/model"
)

// getUserID extracts the authenticated user's ID from the echo context.  The
// JWT middleware stores the "sub" claim under "user_id"; depending on how the
// token was minted the value may arrive as a number or a string.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole extracts the caller's role from the echo context and validates it
// against the closed role set.
func getRole(c echo.Context) (model.Role, error) {
	s, ok := c.Get("role").(string)
	if !ok {
		return "", errors.New("missing role in context")
	}
	return model.ParseRole(s)
}

// pathID parses the :id path parameter into a positive uint64.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
