package middleware

import (
    "database/sql"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/talkform/talkform/internal/acl"
    "github.com/talkform/talkform/internal/repository"
    "github.com/talkform/talkform/internal/utils"
)

// TokenAuth returns an Echo middleware that authenticates the public
// feedback API.  Requests carry `Authorization: Token <key>`; the key
// is hashed and resolved against the api_keys table.  Unknown and
// revoked keys get the same 401, nothing distinguishes the two from
// outside.  Authentication only identifies the caller here; whether
// the caller may touch a given project is decided per request by the
// access engine.
func TokenAuth(apiKeys *repository.APIKeyRepo) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Token ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing api token"})
            }
            raw := strings.TrimSpace(strings.TrimPrefix(auth, "Token "))
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing api token"})
            }

            user, err := apiKeys.Authenticate(c.Request().Context(), utils.HashTokenRaw(raw))
            if err == sql.ErrNoRows {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid api token"})
            }
            if err != nil {
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not authenticate"})
            }

            SetPrincipal(c, acl.Principal{UserID: user.ID, IsSuperuser: user.IsSuperuser})
            return next(c)
        }
    }
}
