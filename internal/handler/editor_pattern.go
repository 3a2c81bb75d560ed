package handler

import (
    "database/sql"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/talkform/talkform/internal/model"
    "github.com/talkform/talkform/internal/repository"
)

type patternReq struct {
    Pattern    string `json:"pattern"`
    IsWildcard bool   `json:"is_wildcard"`
}

// CreatePattern maps a path to the feedback form.  The same literal
// pattern may exist once as exact and once as wildcard within a
// project; any closer duplicate is rejected.
func (h *EditorHandler) CreatePattern(c echo.Context) error {
    formID, _, ok := h.formProject(c, c.Param("id"), model.MembershipRoleOwner, model.MembershipRoleEditor)
    if !ok {
        return nil
    }
    var req patternReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    pattern := strings.TrimSpace(req.Pattern)
    if pattern == "" || !strings.HasPrefix(pattern, "/") {
        return validationFailed(c, map[string][]string{
            "pattern": {"Pattern must begin with a slash."},
        })
    }

    ctx := c.Request().Context()
    form, err := h.Forms.GetByID(ctx, formID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load form failed"})
    }

    p := model.PathPattern{
        ProjectID:      form.ProjectID,
        FeedbackFormID: form.ID,
        Pattern:        pattern,
        IsWildcard:     req.IsWildcard,
    }
    if err := h.Patterns.Create(ctx, &p); err != nil {
        if err == repository.ErrDuplicatePattern {
            return validationFailed(c, map[string][]string{
                "pattern": {"This pattern already exists in the project."},
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create pattern failed"})
    }
    return c.JSON(http.StatusCreated, patternJSON(p))
}

// ListPatterns returns the form's path patterns.
func (h *EditorHandler) ListPatterns(c echo.Context) error {
    formID, _, ok := h.formProject(c, c.Param("id"), model.MembershipRoleOwner, model.MembershipRoleEditor)
    if !ok {
        return nil
    }
    patterns, err := h.Patterns.ListByForm(c.Request().Context(), formID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list patterns failed"})
    }
    out := make([]echo.Map, 0, len(patterns))
    for _, p := range patterns {
        out = append(out, patternJSON(p))
    }
    return c.JSON(http.StatusOK, out)
}

// DeletePattern removes a path pattern.
func (h *EditorHandler) DeletePattern(c echo.Context) error {
    patternID, ok := parseID(c.Param("id"))
    if !ok {
        return notFoundID(c, "Path pattern", c.Param("id"))
    }
    ctx := c.Request().Context()
    p, err := h.Patterns.GetByID(ctx, patternID)
    if err == sql.ErrNoRows {
        return notFoundID(c, "Path pattern", c.Param("id"))
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load pattern failed"})
    }
    if _, ok := h.requireMembership(c, p.ProjectID, model.MembershipRoleOwner, model.MembershipRoleEditor); !ok {
        return nil
    }
    if err := h.Patterns.Delete(ctx, p.ID); err != nil {
        if err == sql.ErrNoRows {
            return notFoundID(c, "Path pattern", c.Param("id"))
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete pattern failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
