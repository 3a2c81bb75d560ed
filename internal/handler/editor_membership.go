package handler

import (
    "database/sql"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/talkform/talkform/internal/model"
    "github.com/talkform/talkform/internal/repository"
)

type addMemberReq struct {
    UserID uint64 `json:"user"`
    Role   string `json:"role"`
}

// AddMember adds a user to the project.  Owners only.
func (h *EditorHandler) AddMember(c echo.Context) error {
    projectID, ok := parseID(c.Param("id"))
    if !ok {
        return notFoundID(c, "Project", c.Param("id"))
    }
    if _, ok := h.requireMembership(c, projectID, model.MembershipRoleOwner); !ok {
        return nil
    }
    var req addMemberReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if !model.ValidMembershipRole(req.Role) {
        return validationFailed(c, map[string][]string{
            "role": {"Role must be owner or editor."},
        })
    }

    ctx := c.Request().Context()
    if _, err := h.Users.GetByID(ctx, req.UserID); err != nil {
        if err == sql.ErrNoRows {
            return validationFailed(c, map[string][]string{
                "user": {"User does not exist."},
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
    }

    m := model.ProjectMembership{ProjectID: projectID, UserID: req.UserID, Role: req.Role}
    if err := h.Memberships.Add(ctx, &m); err != nil {
        if err == repository.ErrDuplicateMembership {
            return validationFailed(c, map[string][]string{
                "user": {"User is already a member of this project."},
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add member failed"})
    }
    return c.JSON(http.StatusCreated, membershipJSON(m))
}

// ListMembers returns the project's memberships.
func (h *EditorHandler) ListMembers(c echo.Context) error {
    projectID, ok := parseID(c.Param("id"))
    if !ok {
        return notFoundID(c, "Project", c.Param("id"))
    }
    if _, ok := h.requireMembership(c, projectID, model.MembershipRoleOwner, model.MembershipRoleEditor); !ok {
        return nil
    }
    members, err := h.Memberships.ListByProject(c.Request().Context(), projectID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list members failed"})
    }
    out := make([]echo.Map, 0, len(members))
    for _, m := range members {
        out = append(out, membershipJSON(m))
    }
    return c.JSON(http.StatusOK, out)
}

// RemoveMember removes a membership.  Owners only; removing the last
// owner of a project is refused.
func (h *EditorHandler) RemoveMember(c echo.Context) error {
    projectID, ok := parseID(c.Param("id"))
    if !ok {
        return notFoundID(c, "Project", c.Param("id"))
    }
    memberID, ok := parseID(c.Param("member_id"))
    if !ok {
        return notFoundID(c, "Membership", c.Param("member_id"))
    }
    if _, ok := h.requireMembership(c, projectID, model.MembershipRoleOwner); !ok {
        return nil
    }

    ctx := c.Request().Context()
    m, err := h.Memberships.GetByID(ctx, memberID)
    if err == sql.ErrNoRows || (err == nil && m.ProjectID != projectID) {
        return notFoundID(c, "Membership", c.Param("member_id"))
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load membership failed"})
    }

    if err := h.Memberships.Remove(ctx, m.ID); err != nil {
        if err == repository.ErrConflict {
            return validationFailed(c, map[string][]string{
                "member": {"Cannot remove the last owner of a project."},
            })
        }
        if err == sql.ErrNoRows {
            return notFoundID(c, "Membership", c.Param("member_id"))
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove member failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
