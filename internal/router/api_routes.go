package router // public API routes: form discovery, submission and exploration

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/talkform/talkform/internal/config"
    "github.com/talkform/talkform/internal/handler"
    "github.com/talkform/talkform/internal/middleware"
    "github.com/talkform/talkform/internal/repository"
)

// RegisterAPI registers the token-authenticated public surface.  All
// routes authenticate with an API key ("Authorization: Token <key>")
// and share a Redis token-bucket rate limit keyed by caller identity.
func RegisterAPI(e *echo.Echo, core *handler.CoreHandler, submit *handler.SubmitHandler,
    explore *handler.ExploreHandler, apiKeys *repository.APIKeyRepo,
    rl config.RateLimitConfig, rdb *redis.Client) {

    g := e.Group("",
        middleware.TokenAuth(apiKeys),
        middleware.NewTokenBucket(rl, rdb),
    )

    // ---- Core: form discovery ----
    g.GET("/core/projects/:project/feedback-forms", core.ListForms)
    g.GET("/core/projects/:project/feedback-forms/:id", core.GetForm)
    // The wildcard captures the page path being resolved, e.g.
    // /core/projects/4/feedback-forms/path/blog/post-1.  The bare route
    // resolves the site root.
    g.GET("/core/projects/:project/feedback-forms/path", core.ResolvePath)
    g.GET("/core/projects/:project/feedback-forms/path/*", core.ResolvePath)

    // ---- Submit ----
    g.POST("/submit/responses", submit.CreateResponse)
    g.POST("/submit/prompt-responses", submit.CreatePromptResponse)

    // ---- Explore ----
    g.GET("/explore/responses", explore.ListResponses)
    g.GET("/explore/responses/:id", explore.GetResponse)
    g.GET("/explore/prompt-responses", explore.ListPromptResponses)
    g.GET("/explore/prompt-responses/:id", explore.GetPromptResponse)
}
