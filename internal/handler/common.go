package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/uniadmit/admission-intake/internal/repository"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
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

// pathID parses a numeric :name path parameter. Zero is never a valid id.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// parseQueryID parses a numeric query parameter.
func parseQueryID(c echo.Context, name string) (uint64, error) {
	n, err := strconv.ParseUint(c.QueryParam(name), 10, 64)
	if err != nil || n == 0 {
		return 0, errors.New("invalid " + name)
	}
	return n, nil
}

// repoError maps repository sentinels onto HTTP responses. fallback
// names the operation for the 500 body.
func repoError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already exists"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
	}
}
