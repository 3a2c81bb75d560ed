package handler

import (
    "database/sql"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/talkform/talkform/internal/acl"
    "github.com/talkform/talkform/internal/middleware"
    "github.com/talkform/talkform/internal/model"
    "github.com/talkform/talkform/internal/repository"
)

// ExploreHandler serves the read side of collected feedback: responses
// and prompt responses, gated by the explore-responses role.  List
// endpoints restrict results to the caller's accessible projects
// unless the caller is a superuser, who gets the unfiltered view.
type ExploreHandler struct {
    Engine          *acl.Engine
    Responses       *repository.ResponseRepo
    PromptResponses *repository.PromptResponseRepo
}

func NewExploreHandler(engine *acl.Engine, responses *repository.ResponseRepo, promptResponses *repository.PromptResponseRepo) *ExploreHandler {
    return &ExploreHandler{Engine: engine, Responses: responses, PromptResponses: promptResponses}
}

// queryID validates an optional numeric query filter.  A missing
// filter yields (0, true); a malformed one is reported as a 404, not a
// 500.
func queryID(c echo.Context, name string) (uint64, bool) {
    raw := c.QueryParam(name)
    if raw == "" {
        return 0, true
    }
    id, ok := parseID(raw)
    if !ok {
        _ = notFoundID(c, "Filter "+name, raw)
        return 0, false
    }
    return id, true
}

// exploreScope runs the any-project ACL check and computes the
// accessible-project restriction: nil for superusers (unfiltered),
// the grant-derived id set for everyone else.
func (h *ExploreHandler) exploreScope(c echo.Context) ([]uint64, bool) {
    principal, ok := middleware.CurrentPrincipal(c)
    if !ok {
        _ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
        return nil, false
    }
    ctx := c.Request().Context()
    allowed, err := h.Engine.CanAccessAnyProject(ctx, principal, model.APIRoleExplore)
    if err != nil {
        _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "access check failed"})
        return nil, false
    }
    if !allowed {
        _ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        return nil, false
    }
    if principal.IsSuperuser {
        return nil, true
    }
    ids, err := h.Engine.AccessibleProjects(ctx, principal, model.APIRoleExplore)
    if err != nil {
        _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "access check failed"})
        return nil, false
    }
    if ids == nil {
        ids = []uint64{}
    }
    return ids, true
}

// detailAccess runs the specific-project ACL check for a detail view.
func (h *ExploreHandler) detailAccess(c echo.Context, projectID uint64) bool {
    principal, ok := middleware.CurrentPrincipal(c)
    if !ok {
        _ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
        return false
    }
    allowed, err := h.Engine.CanAccessProject(c.Request().Context(), principal, projectID, model.APIRoleExplore)
    if err != nil {
        _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "access check failed"})
        return false
    }
    if !allowed {
        _ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        return false
    }
    return true
}

// ListResponses returns responses visible to the caller, optionally
// filtered by project and feedback form.
func (h *ExploreHandler) ListResponses(c echo.Context) error {
    // ACL first: a caller without the explore role gets 403 even when
    // their filters are malformed.
    accessible, ok := h.exploreScope(c)
    if !ok {
        return nil
    }
    projectID, ok := queryID(c, "project")
    if !ok {
        return nil
    }
    formID, ok := queryID(c, "feedback_form")
    if !ok {
        return nil
    }

    responses, err := h.Responses.List(c.Request().Context(), repository.ResponseFilter{
        ProjectID:          projectID,
        FeedbackFormID:     formID,
        AccessibleProjects: accessible,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list responses failed"})
    }
    out := make([]echo.Map, 0, len(responses))
    for _, r := range responses {
        out = append(out, responseJSON(r))
    }
    return c.JSON(http.StatusOK, out)
}

// GetResponse returns one response.  The row is fetched once and that
// same row feeds both the ACL check and the body.
func (h *ExploreHandler) GetResponse(c echo.Context) error {
    id, ok := parseID(c.Param("id"))
    if !ok {
        return notFoundID(c, "Response", c.Param("id"))
    }
    resp, projectID, err := h.Responses.GetByID(c.Request().Context(), id)
    if err == sql.ErrNoRows {
        return notFoundID(c, "Response", c.Param("id"))
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load response failed"})
    }
    if !h.detailAccess(c, projectID) {
        return nil
    }
    return c.JSON(http.StatusOK, responseJSON(resp))
}

// ListPromptResponses returns answers visible to the caller, with
// optional project/feedback_form/prompt/response equality filters.
func (h *ExploreHandler) ListPromptResponses(c echo.Context) error {
    accessible, ok := h.exploreScope(c)
    if !ok {
        return nil
    }
    projectID, ok := queryID(c, "project")
    if !ok {
        return nil
    }
    formID, ok := queryID(c, "feedback_form")
    if !ok {
        return nil
    }
    promptID, ok := queryID(c, "prompt")
    if !ok {
        return nil
    }
    responseID, ok := queryID(c, "response")
    if !ok {
        return nil
    }

    answers, err := h.PromptResponses.List(c.Request().Context(), repository.PromptResponseFilter{
        ProjectID:          projectID,
        FeedbackFormID:     formID,
        PromptID:           promptID,
        ResponseID:         responseID,
        AccessibleProjects: accessible,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list prompt responses failed"})
    }
    out := make([]echo.Map, 0, len(answers))
    for _, pr := range answers {
        out = append(out, promptResponseJSON(pr))
    }
    return c.JSON(http.StatusOK, out)
}

// GetPromptResponse returns one answer, same single-fetch discipline as
// GetResponse.
func (h *ExploreHandler) GetPromptResponse(c echo.Context) error {
    id, ok := parseID(c.Param("id"))
    if !ok {
        return notFoundID(c, "Prompt response", c.Param("id"))
    }
    pr, projectID, err := h.PromptResponses.GetByID(c.Request().Context(), id)
    if err == sql.ErrNoRows {
        return notFoundID(c, "Prompt response", c.Param("id"))
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load prompt response failed"})
    }
    if !h.detailAccess(c, projectID) {
        return nil
    }
    return c.JSON(http.StatusOK, promptResponseJSON(pr))
}
