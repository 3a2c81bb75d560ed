package repository

import (
    "context"
    "database/sql"

    "github.com/talkform/talkform/internal/model"
)

// MembershipRepo manages the (user, project, role) rows that gate the
// editor surface.  Every project keeps at least one owner; removal
// enforces that inside a transaction that locks the project's
// membership rows.
type MembershipRepo struct{ DB *sql.DB }

func NewMembershipRepo(db *sql.DB) *MembershipRepo { return &MembershipRepo{DB: db} }

// Add inserts a membership.  A user already on the project surfaces as
// ErrDuplicateMembership.
func (r *MembershipRepo) Add(ctx context.Context, m *model.ProjectMembership) error {
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO project_memberships (project_id, user_id, role) VALUES (?,?,?)",
        m.ProjectID, m.UserID, m.Role)
    if err != nil {
        if isDuplicateKey(err) {
            return ErrDuplicateMembership
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    m.ID = uint64(id)
    return nil
}

// GetRole returns the role the user holds on the project, or
// sql.ErrNoRows when there is no membership.
func (r *MembershipRepo) GetRole(ctx context.Context, userID, projectID uint64) (string, error) {
    var role string
    err := r.DB.QueryRowContext(ctx,
        "SELECT role FROM project_memberships WHERE user_id=? AND project_id=? LIMIT 1",
        userID, projectID).Scan(&role)
    return role, err
}

// GetByID returns a membership by primary key, or sql.ErrNoRows.
func (r *MembershipRepo) GetByID(ctx context.Context, id uint64) (model.ProjectMembership, error) {
    var m model.ProjectMembership
    err := r.DB.QueryRowContext(ctx,
        "SELECT id, project_id, user_id, role, created_at FROM project_memberships WHERE id=?",
        id).Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.CreatedAt)
    return m, err
}

// ListByProject returns the project's memberships in creation order.
func (r *MembershipRepo) ListByProject(ctx context.Context, projectID uint64) ([]model.ProjectMembership, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT id, project_id, user_id, role, created_at FROM project_memberships WHERE project_id=? ORDER BY id",
        projectID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.ProjectMembership, 0)
    for rows.Next() {
        var m model.ProjectMembership
        if err := rows.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, m)
    }
    return out, rows.Err()
}

// Remove deletes a membership.  Removing the last owner of a project
// is refused with ErrConflict; the owner count is read under FOR
// UPDATE so two concurrent removals cannot both see a second owner.
func (r *MembershipRepo) Remove(ctx context.Context, membershipID uint64) error {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var projectID uint64
    var role string
    err = tx.QueryRowContext(ctx,
        "SELECT project_id, role FROM project_memberships WHERE id=? FOR UPDATE",
        membershipID).Scan(&projectID, &role)
    if err != nil {
        return err
    }
    if role == model.MembershipRoleOwner {
        var owners uint64
        err = tx.QueryRowContext(ctx,
            "SELECT COUNT(*) FROM project_memberships WHERE project_id=? AND role=? FOR UPDATE",
            projectID, model.MembershipRoleOwner).Scan(&owners)
        if err != nil {
            return err
        }
        if owners <= 1 {
            return ErrConflict
        }
    }
    if _, err := tx.ExecContext(ctx, "DELETE FROM project_memberships WHERE id=?", membershipID); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
