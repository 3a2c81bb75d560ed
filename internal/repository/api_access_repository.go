package repository

import (
    "context"
    "database/sql"

    "github.com/talkform/talkform/internal/model"
)

// APIAccessRepo persists ProjectAPIAccess grants.  Rows are immutable
// after creation: expiry is computed once at grant time and activity is
// always recomputed from it, so there is no update method.
type APIAccessRepo struct{ DB *sql.DB }

func NewAPIAccessRepo(db *sql.DB) *APIAccessRepo { return &APIAccessRepo{DB: db} }

const accessColumns = "id, project_id, grantee_id, role, lifespan_days, expires_at, created_at"

// Create inserts a grant.  ExpiresAt must already be computed by the
// caller (model.ExpiryFor); it is stored verbatim and never touched
// again.
func (r *APIAccessRepo) Create(ctx context.Context, a *model.ProjectAPIAccess) error {
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO project_api_accesses (project_id, grantee_id, role, lifespan_days, expires_at) VALUES (?,?,?,?,?)",
        a.ProjectID, a.GranteeID, a.Role, a.LifespanDays, a.ExpiresAt)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    a.ID = uint64(id)
    return nil
}

// ListByGrantee returns every grant held by the user, active or not.
// Expiry filtering is deliberately left to the ACL engine so that
// "active" is evaluated against a single clock at check time.
func (r *APIAccessRepo) ListByGrantee(ctx context.Context, granteeID uint64) ([]model.ProjectAPIAccess, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT "+accessColumns+" FROM project_api_accesses WHERE grantee_id=? ORDER BY id",
        granteeID)
    if err != nil {
        return nil, err
    }
    return collectAccesses(rows)
}

// ListByProject returns the project's grants in creation order, for
// the editor surface.
func (r *APIAccessRepo) ListByProject(ctx context.Context, projectID uint64) ([]model.ProjectAPIAccess, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT "+accessColumns+" FROM project_api_accesses WHERE project_id=? ORDER BY id",
        projectID)
    if err != nil {
        return nil, err
    }
    return collectAccesses(rows)
}

func collectAccesses(rows *sql.Rows) ([]model.ProjectAPIAccess, error) {
    defer rows.Close()
    out := make([]model.ProjectAPIAccess, 0)
    for rows.Next() {
        var a model.ProjectAPIAccess
        if err := rows.Scan(&a.ID, &a.ProjectID, &a.GranteeID, &a.Role,
            &a.LifespanDays, &a.ExpiresAt, &a.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, a)
    }
    return out, rows.Err()
}
