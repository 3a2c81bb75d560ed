package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/talkform/talkform/internal/model"
)

type formReq struct {
    Name string `json:"name"`
}

// CreateForm adds a feedback form to the project.  Editors and owners.
func (h *EditorHandler) CreateForm(c echo.Context) error {
    projectID, ok := parseID(c.Param("id"))
    if !ok {
        return notFoundID(c, "Project", c.Param("id"))
    }
    if _, ok := h.requireMembership(c, projectID, model.MembershipRoleOwner, model.MembershipRoleEditor); !ok {
        return nil
    }
    var req formReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    name := strings.TrimSpace(req.Name)
    if name == "" {
        return validationFailed(c, map[string][]string{"name": {"Name is required."}})
    }

    f := model.FeedbackForm{ProjectID: projectID, Name: name}
    if err := h.Forms.Create(c.Request().Context(), &f); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create form failed"})
    }
    return c.JSON(http.StatusCreated, formJSON(f))
}

// ListProjectForms returns the project's forms, both states, with
// their prompts.
func (h *EditorHandler) ListProjectForms(c echo.Context) error {
    projectID, ok := parseID(c.Param("id"))
    if !ok {
        return notFoundID(c, "Project", c.Param("id"))
    }
    if _, ok := h.requireMembership(c, projectID, model.MembershipRoleOwner, model.MembershipRoleEditor); !ok {
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

// GetForm returns one form with its prompts.
func (h *EditorHandler) GetForm(c echo.Context) error {
    formID, _, ok := h.formProject(c, c.Param("id"), model.MembershipRoleOwner, model.MembershipRoleEditor)
    if !ok {
        return nil
    }
    ctx := c.Request().Context()
    form, err := h.Forms.GetByID(ctx, formID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load form failed"})
    }
    prompts, err := h.Prompts.ListByForm(ctx, formID, false)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list prompts failed"})
    }
    return c.JSON(http.StatusOK, formWithPromptsJSON(form, prompts))
}

// RenameForm changes a form's name.
func (h *EditorHandler) RenameForm(c echo.Context) error {
    formID, _, ok := h.formProject(c, c.Param("id"), model.MembershipRoleOwner, model.MembershipRoleEditor)
    if !ok {
        return nil
    }
    var req formReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    name := strings.TrimSpace(req.Name)
    if name == "" {
        return validationFailed(c, map[string][]string{"name": {"Name is required."}})
    }
    ctx := c.Request().Context()
    if err := h.Forms.Rename(ctx, formID, name); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "rename form failed"})
    }
    form, err := h.Forms.GetByID(ctx, formID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load form failed"})
    }
    return c.JSON(http.StatusOK, formJSON(form))
}

// DisableForm takes a form out of path resolution and blocks new
// submissions; recorded responses stay readable.
func (h *EditorHandler) DisableForm(c echo.Context) error {
    return h.setFormDisabled(c, true)
}

// EnableForm puts a disabled form back into service.
func (h *EditorHandler) EnableForm(c echo.Context) error {
    return h.setFormDisabled(c, false)
}

func (h *EditorHandler) setFormDisabled(c echo.Context, disabled bool) error {
    formID, uid, ok := h.formProject(c, c.Param("id"), model.MembershipRoleOwner, model.MembershipRoleEditor)
    if !ok {
        return nil
    }
    ctx := c.Request().Context()
    if err := h.Forms.SetDisabled(ctx, formID, disabled, uid); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update form failed"})
    }
    form, err := h.Forms.GetByID(ctx, formID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load form failed"})
    }
    return c.JSON(http.StatusOK, formJSON(form))
}
