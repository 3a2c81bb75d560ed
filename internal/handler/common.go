package handler // handler defines http handlers

import (
    "fmt"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/talkform/talkform/internal/middleware"
)

// parseID converts a path or query identifier to uint64.  The second
// return is false for anything that is not a positive integer.
func parseID(raw string) (uint64, bool) {
    raw = strings.TrimSpace(raw)
    n, err := strconv.ParseUint(raw, 10, 64)
    if err != nil || n == 0 {
        return 0, false
    }
    return n, true
}

// notFoundID writes the uniform 404 for malformed or unknown
// identifiers.  Malformed ids are a caller mistake, never a 500.
func notFoundID(c echo.Context, what, raw string) error {
    return c.JSON(http.StatusNotFound, echo.Map{
        "error": fmt.Sprintf("%s id=%s not found.", what, raw),
    })
}

// getUserID extracts the authenticated user's id from the context set
// by the auth middleware.
func getUserID(c echo.Context) (uint64, bool) {
    p, ok := middleware.CurrentPrincipal(c)
    if !ok {
        return 0, false
    }
    return p.UserID, true
}

// validationFailed writes the 422 body for field-scoped validation
// errors: a fields object mapping each field to its messages.
func validationFailed(c echo.Context, fields map[string][]string) error {
    return c.JSON(http.StatusUnprocessableEntity, echo.Map{
        "error":  "validation failed",
        "fields": fields,
    })
}
