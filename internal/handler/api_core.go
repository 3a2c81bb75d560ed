package handler

import (
    "database/sql"
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/talkform/talkform/internal/acl"
    "github.com/talkform/talkform/internal/middleware"
    "github.com/talkform/talkform/internal/model"
    "github.com/talkform/talkform/internal/repository"
    "github.com/talkform/talkform/internal/resolver"
)

// CoreHandler serves the read side of the public feedback API: the
// feedback forms of a project and path resolution.  Every operation
// starts with an ACL check on the project; either API role is enough
// to read form configuration.
type CoreHandler struct {
    Engine   *acl.Engine
    Projects *repository.ProjectRepo
    Forms    *repository.FeedbackFormRepo
    Prompts  *repository.PromptRepo
    Patterns *repository.PathPatternRepo
}

func NewCoreHandler(engine *acl.Engine, projects *repository.ProjectRepo, forms *repository.FeedbackFormRepo, prompts *repository.PromptRepo, patterns *repository.PathPatternRepo) *CoreHandler {
    return &CoreHandler{Engine: engine, Projects: projects, Forms: forms, Prompts: prompts, Patterns: patterns}
}

var readRoles = []model.APIRole{model.APIRoleSubmit, model.APIRoleExplore}

// projectAccess parses the :project parameter and runs the ACL check.
// It writes the error response itself and returns ok=false when the
// request must not proceed.
func (h *CoreHandler) projectAccess(c echo.Context, roles ...model.APIRole) (uint64, bool) {
    projectID, ok := parseID(c.Param("project"))
    if !ok {
        _ = notFoundID(c, "Project", c.Param("project"))
        return 0, false
    }
    principal, ok := middleware.CurrentPrincipal(c)
    if !ok {
        _ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
        return 0, false
    }
    allowed, err := h.Engine.CanAccessProject(c.Request().Context(), principal, projectID, roles...)
    if err != nil {
        _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "access check failed"})
        return 0, false
    }
    if !allowed {
        _ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        return 0, false
    }
    return projectID, true
}

// ListForms returns the project's feedback forms, enabled and disabled
// alike, each with its prompts in submission order.
func (h *CoreHandler) ListForms(c echo.Context) error {
    projectID, ok := h.projectAccess(c, readRoles...)
    if !ok {
        return nil
    }
    ctx := c.Request().Context()
    forms, err := h.Forms.ListByProject(ctx, projectID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list forms failed"})
    }
    out := make([]echo.Map, 0, len(forms))
    for _, f := range forms {
        prompts, err := h.Prompts.ListByForm(ctx, f.ID, false)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list prompts failed"})
        }
        out = append(out, formWithPromptsJSON(f, prompts))
    }
    return c.JSON(http.StatusOK, out)
}

// GetForm returns one feedback form of the project with its prompts.
func (h *CoreHandler) GetForm(c echo.Context) error {
    projectID, ok := h.projectAccess(c, readRoles...)
    if !ok {
        return nil
    }
    formID, ok := parseID(c.Param("id"))
    if !ok {
        return notFoundID(c, "Feedback form", c.Param("id"))
    }
    ctx := c.Request().Context()
    form, err := h.Forms.GetByID(ctx, formID)
    if err == sql.ErrNoRows || (err == nil && form.ProjectID != projectID) {
        return notFoundID(c, "Feedback form", c.Param("id"))
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load form failed"})
    }
    prompts, err := h.Prompts.ListByForm(ctx, form.ID, false)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list prompts failed"})
    }
    return c.JSON(http.StatusOK, formWithPromptsJSON(form, prompts))
}

// ResolvePath maps the trailing path of the request to the most
// specific enabled feedback form of the project.  Only patterns of
// enabled forms participate; no match is a 404.
func (h *CoreHandler) ResolvePath(c echo.Context) error {
    projectID, ok := h.projectAccess(c, readRoles...)
    if !ok {
        return nil
    }
    path := "/" + c.Param("*")

    ctx := c.Request().Context()
    patterns, err := h.Patterns.ListForEnabledForms(ctx, projectID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load patterns failed"})
    }
    formID, found := resolver.BestMatch(patterns, path)
    if !found {
        return c.JSON(http.StatusNotFound, echo.Map{
            "error": fmt.Sprintf("No feedback form matches path %q in project id=%d.", path, projectID),
        })
    }
    form, err := h.Forms.GetByID(ctx, formID)
    if err == sql.ErrNoRows || (err == nil && !form.Enabled()) {
        // The form vanished or was disabled between the pattern query
        // and this read; same outcome as no match.
        return c.JSON(http.StatusNotFound, echo.Map{
            "error": fmt.Sprintf("No feedback form matches path %q in project id=%d.", path, projectID),
        })
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load form failed"})
    }
    prompts, err := h.Prompts.ListByForm(ctx, form.ID, true)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list prompts failed"})
    }
    return c.JSON(http.StatusOK, formWithPromptsJSON(form, prompts))
}
