package router // editor routes: project, form and prompt management

import (
    "github.com/labstack/echo/v4"

    "github.com/talkform/talkform/internal/handler"
    "github.com/talkform/talkform/internal/middleware"
)

// RegisterEditor registers the editor surface under /v1.  Every route
// requires a valid JWT; per-project authorization (membership role or
// superuser) happens inside the handlers because most routes derive
// the project from the addressed resource.
func RegisterEditor(e *echo.Echo, h *handler.EditorHandler, jwtSecret string) {
    g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

    // ---- Projects ----
    // Creating projects is reserved for superusers; everything below is
    // gated by membership.
    g.POST("/projects", h.CreateProject, middleware.RequireSuperuser())
    g.GET("/projects", h.ListProjects)
    g.GET("/projects/:id", h.GetProject)
    g.PATCH("/projects/:id", h.UpdateProject)

    // ---- Memberships ----
    g.POST("/projects/:id/members", h.AddMember)
    g.GET("/projects/:id/members", h.ListMembers)
    g.DELETE("/projects/:id/members/:member_id", h.RemoveMember)

    // ---- API access grants ----
    g.POST("/projects/:id/api-accesses", h.GrantAccess)
    g.GET("/projects/:id/api-accesses", h.ListAccesses)

    // ---- Feedback forms ----
    g.POST("/projects/:id/feedback-forms", h.CreateForm)
    g.GET("/projects/:id/feedback-forms", h.ListProjectForms)
    g.GET("/feedback-forms/:id", h.GetForm)
    g.PATCH("/feedback-forms/:id", h.RenameForm)
    g.POST("/feedback-forms/:id/disable", h.DisableForm)
    g.POST("/feedback-forms/:id/enable", h.EnableForm)

    // ---- Path patterns ----
    g.POST("/feedback-forms/:id/path-patterns", h.CreatePattern)
    g.GET("/feedback-forms/:id/path-patterns", h.ListPatterns)
    g.DELETE("/path-patterns/:id", h.DeletePattern)

    // ---- Prompts ----
    g.POST("/feedback-forms/:id/prompts", h.CreatePrompt)
    g.GET("/feedback-forms/:id/prompts", h.ListPrompts)
    g.PATCH("/prompts/:id", h.UpdatePrompt)
    g.POST("/prompts/:id/disable", h.DisablePrompt)
    g.POST("/prompts/:id/enable", h.EnablePrompt)
    g.POST("/prompts/:id/options", h.AddPromptOption)
}
