package middleware

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"

    "github.com/talkform/talkform/internal/acl"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the authenticated principal into the request
// context.  The provided secret must match the one used when issuing
// tokens.  Handlers behind this middleware read the principal via
// CurrentPrincipal; the token carries no project roles, memberships
// are looked up per request.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            // Numeric claims decode as float64; tolerate string subjects too.
            var userID uint64
            switch sub := claims["sub"].(type) {
            case float64:
                userID = uint64(sub)
            case string:
                userID, _ = strconv.ParseUint(sub, 10, 64)
            }
            if userID == 0 {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }
            superuser, _ := claims["superuser"].(bool)

            SetPrincipal(c, acl.Principal{UserID: userID, IsSuperuser: superuser})
            return next(c)
        }
    }
}

// RequireSuperuser aborts with 403 unless the authenticated principal
// is a superuser.  It assumes JWTAuth has already run.
func RequireSuperuser() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            p, ok := CurrentPrincipal(c)
            if !ok || !p.IsSuperuser {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}

// SetPrincipal stores the authenticated principal in the request
// context, plus a string form of the user id for rate-limit keying.
func SetPrincipal(c echo.Context, p acl.Principal) {
    c.Set("principal", p)
    c.Set("user_id", strconv.FormatUint(p.UserID, 10))
}

// CurrentPrincipal returns the principal stored by JWTAuth or
// TokenAuth, if any.
func CurrentPrincipal(c echo.Context) (acl.Principal, bool) {
    p, ok := c.Get("principal").(acl.Principal)
    return p, ok
}
