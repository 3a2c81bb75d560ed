package handler

import (
    "database/sql"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/talkform/talkform/internal/middleware"
    "github.com/talkform/talkform/internal/model"
    "github.com/talkform/talkform/internal/repository"
)

type projectReq struct {
    Name                string `json:"name"`
    Domain              string `json:"domain"`
    RetentionPeriodDays uint32 `json:"retention_period_days"`
}

func (r *projectReq) validate() map[string][]string {
    fields := map[string][]string{}
    if strings.TrimSpace(r.Name) == "" {
        fields["name"] = append(fields["name"], "Name is required.")
    }
    if model.NormalizeDomain(r.Domain) == "" {
        fields["domain"] = append(fields["domain"], "Domain is required.")
    }
    if !model.ValidRetentionPeriod(r.RetentionPeriodDays) {
        fields["retention_period_days"] = append(fields["retention_period_days"],
            "Retention period must be one of 30, 60, 90 or 180 days.")
    }
    if len(fields) == 0 {
        return nil
    }
    return fields
}

// CreateProject creates a project and makes the creator its first
// owner.  The route is restricted to superusers.
func (h *EditorHandler) CreateProject(c echo.Context) error {
    uid, ok := getUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req projectReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if fields := req.validate(); fields != nil {
        return validationFailed(c, fields)
    }

    p := model.Project{
        Name:                strings.TrimSpace(req.Name),
        Domain:              strings.TrimSpace(req.Domain),
        NormalizedDomain:    model.NormalizeDomain(req.Domain),
        RetentionPeriodDays: req.RetentionPeriodDays,
        CreatedBy:           uid,
    }
    if err := h.Projects.Create(c.Request().Context(), &p, uid); err != nil {
        if err == repository.ErrDomainExists {
            return validationFailed(c, map[string][]string{
                "domain": {"A project with this domain already exists."},
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create project failed"})
    }
    return c.JSON(http.StatusCreated, projectJSON(p))
}

// ListProjects returns the caller's projects; superusers see all of
// them.
func (h *EditorHandler) ListProjects(c echo.Context) error {
    principal, ok := middleware.CurrentPrincipal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx := c.Request().Context()
    var (
        projects []model.Project
        err      error
    )
    if principal.IsSuperuser {
        projects, err = h.Projects.ListAll(ctx)
    } else {
        projects, err = h.Projects.ListForMember(ctx, principal.UserID)
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list projects failed"})
    }
    out := make([]echo.Map, 0, len(projects))
    for _, p := range projects {
        out = append(out, projectJSON(p))
    }
    return c.JSON(http.StatusOK, out)
}

// GetProject returns one project the caller is a member of.
func (h *EditorHandler) GetProject(c echo.Context) error {
    projectID, ok := parseID(c.Param("id"))
    if !ok {
        return notFoundID(c, "Project", c.Param("id"))
    }
    if _, ok := h.requireMembership(c, projectID, model.MembershipRoleOwner, model.MembershipRoleEditor); !ok {
        return nil
    }
    p, err := h.Projects.GetByID(c.Request().Context(), projectID)
    if err == sql.ErrNoRows {
        return notFoundID(c, "Project", c.Param("id"))
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load project failed"})
    }
    return c.JSON(http.StatusOK, projectJSON(p))
}

// UpdateProject changes name, domain or retention period.  Owners
// only.
func (h *EditorHandler) UpdateProject(c echo.Context) error {
    projectID, ok := parseID(c.Param("id"))
    if !ok {
        return notFoundID(c, "Project", c.Param("id"))
    }
    if _, ok := h.requireMembership(c, projectID, model.MembershipRoleOwner); !ok {
        return nil
    }
    var req projectReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if fields := req.validate(); fields != nil {
        return validationFailed(c, fields)
    }

    ctx := c.Request().Context()
    p, err := h.Projects.GetByID(ctx, projectID)
    if err == sql.ErrNoRows {
        return notFoundID(c, "Project", c.Param("id"))
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load project failed"})
    }

    p.Name = strings.TrimSpace(req.Name)
    p.Domain = strings.TrimSpace(req.Domain)
    p.NormalizedDomain = model.NormalizeDomain(req.Domain)
    p.RetentionPeriodDays = req.RetentionPeriodDays
    if err := h.Projects.Update(ctx, &p); err != nil {
        if err == repository.ErrDomainExists {
            return validationFailed(c, map[string][]string{
                "domain": {"A project with this domain already exists."},
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update project failed"})
    }
    return c.JSON(http.StatusOK, projectJSON(p))
}
