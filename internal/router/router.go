package router // router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/talkform/talkform/internal/handler"
    "github.com/talkform/talkform/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Load balancers and monitoring systems can probe /healthz to verify
    // that the service is up and running.
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, k *handler.APIKeyHandler, jwtSecret string) {
    // Operations that do not require an existing session.
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // Refresh rotates the refresh token; refresh-access issues a new access
    // token without rotation.
    g.POST("/refresh", a.Refresh)
    g.POST("/refresh-access", a.RefreshAccess)
    // Logout accepts either a bearer access token (revokes every session of
    // the user) or a JSON body with a single refresh token to invalidate.
    g.POST("/logout", a.Logout)

    // Routes that require a valid access token.
    auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
    auth.GET("/me", a.Me)

    // API key management for the public surface.  Raw keys are shown once,
    // at creation time.
    auth.POST("/api-keys", k.Create)
    auth.GET("/api-keys", k.List)
    auth.DELETE("/api-keys/:id", k.Revoke)
}
