package handler

import (
    "database/sql"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/talkform/talkform/internal/model"
)

type grantAccessReq struct {
    GranteeID    uint64        `json:"grantee"`
    Role         model.APIRole `json:"role"`
    LifespanDays uint32        `json:"lifespan_days"`
}

// GrantAccess creates a ProjectAPIAccess for a user.  Owners only.
// The expiry is computed here, once, and never changes afterwards.
func (h *EditorHandler) GrantAccess(c echo.Context) error {
    projectID, ok := parseID(c.Param("id"))
    if !ok {
        return notFoundID(c, "Project", c.Param("id"))
    }
    if _, ok := h.requireMembership(c, projectID, model.MembershipRoleOwner); !ok {
        return nil
    }
    var req grantAccessReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    fields := map[string][]string{}
    if !model.ValidAPIRole(req.Role) {
        fields["role"] = append(fields["role"],
            "Role must be submit-responses or explore-responses.")
    }
    if !model.ValidAccessLifespan(req.LifespanDays) {
        fields["lifespan_days"] = append(fields["lifespan_days"],
            "Lifespan must be one of 30, 60, 90 or 180 days.")
    }
    ctx := c.Request().Context()
    if _, err := h.Users.GetByID(ctx, req.GranteeID); err != nil {
        if err == sql.ErrNoRows {
            fields["grantee"] = append(fields["grantee"], "Grantee does not exist.")
        } else {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
        }
    }
    if len(fields) > 0 {
        return validationFailed(c, fields)
    }

    now := time.Now().UTC()
    a := model.ProjectAPIAccess{
        ProjectID:    projectID,
        GranteeID:    req.GranteeID,
        Role:         req.Role,
        LifespanDays: req.LifespanDays,
        ExpiresAt:    model.ExpiryFor(now, req.LifespanDays),
        CreatedAt:    now,
    }
    if err := h.Accesses.Create(ctx, &a); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "grant access failed"})
    }
    return c.JSON(http.StatusCreated, accessJSON(a))
}

// ListAccesses returns the project's API access grants, expired ones
// included.
func (h *EditorHandler) ListAccesses(c echo.Context) error {
    projectID, ok := parseID(c.Param("id"))
    if !ok {
        return notFoundID(c, "Project", c.Param("id"))
    }
    if _, ok := h.requireMembership(c, projectID, model.MembershipRoleOwner, model.MembershipRoleEditor); !ok {
        return nil
    }
    accesses, err := h.Accesses.ListByProject(c.Request().Context(), projectID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list accesses failed"})
    }
    out := make([]echo.Map, 0, len(accesses))
    for _, a := range accesses {
        out = append(out, accessJSON(a))
    }
    return c.JSON(http.StatusOK, out)
}
