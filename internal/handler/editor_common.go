package handler

import (
    "database/sql"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/talkform/talkform/internal/middleware"
    "github.com/talkform/talkform/internal/repository"
)

// EditorHandler bundles the repositories behind the membership-gated
// editor surface: project configuration, memberships, API access
// grants, feedback forms, path patterns and prompts.  Authorization
// here runs on ProjectMembership roles, never on the public API's
// ProjectAPIAccess grants.
type EditorHandler struct {
    Projects    *repository.ProjectRepo
    Memberships *repository.MembershipRepo
    Accesses    *repository.APIAccessRepo
    Forms       *repository.FeedbackFormRepo
    Patterns    *repository.PathPatternRepo
    Prompts     *repository.PromptRepo
    Users       *repository.UserRepo
}

func NewEditorHandler(projects *repository.ProjectRepo, memberships *repository.MembershipRepo, accesses *repository.APIAccessRepo, forms *repository.FeedbackFormRepo, patterns *repository.PathPatternRepo, prompts *repository.PromptRepo, users *repository.UserRepo) *EditorHandler {
    if projects == nil || memberships == nil || accesses == nil || forms == nil || patterns == nil || prompts == nil || users == nil {
        panic("nil repository passed to NewEditorHandler")
    }
    return &EditorHandler{
        Projects:    projects,
        Memberships: memberships,
        Accesses:    accesses,
        Forms:       forms,
        Patterns:    patterns,
        Prompts:     prompts,
        Users:       users,
    }
}

// requireMembership checks that the caller holds one of the roles on
// the project.  Superusers pass every check.  It writes the error
// response itself and returns the caller's user id with ok=false when
// the request must stop.
func (h *EditorHandler) requireMembership(c echo.Context, projectID uint64, roles ...string) (uint64, bool) {
    principal, ok := middleware.CurrentPrincipal(c)
    if !ok {
        _ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
        return 0, false
    }
    if principal.IsSuperuser {
        return principal.UserID, true
    }
    role, err := h.Memberships.GetRole(c.Request().Context(), principal.UserID, projectID)
    if err == sql.ErrNoRows {
        _ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        return 0, false
    }
    if err != nil {
        _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "membership check failed"})
        return 0, false
    }
    for _, r := range roles {
        if r == role {
            return principal.UserID, true
        }
    }
    _ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    return 0, false
}

// formProject resolves a feedback form and checks membership on its
// project in one step, so form-scoped editor routes share the fetch.
func (h *EditorHandler) formProject(c echo.Context, rawFormID string, roles ...string) (formID uint64, userID uint64, ok bool) {
    id, valid := parseID(rawFormID)
    if !valid {
        _ = notFoundID(c, "Feedback form", rawFormID)
        return 0, 0, false
    }
    form, err := h.Forms.GetByID(c.Request().Context(), id)
    if err == sql.ErrNoRows {
        _ = notFoundID(c, "Feedback form", rawFormID)
        return 0, 0, false
    }
    if err != nil {
        _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "load form failed"})
        return 0, 0, false
    }
    uid, allowed := h.requireMembership(c, form.ProjectID, roles...)
    if !allowed {
        return 0, 0, false
    }
    return form.ID, uid, true
}
