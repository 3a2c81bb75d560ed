package repository

import (
    "context"
    "database/sql"

    "github.com/talkform/talkform/internal/model"
)

// ProjectRepo provides CRUD operations for projects.  Domain
// normalization happens in the model layer; this repository only
// persists and enforces the normalized-domain uniqueness through the
// database constraint.
type ProjectRepo struct{ DB *sql.DB }

func NewProjectRepo(db *sql.DB) *ProjectRepo { return &ProjectRepo{DB: db} }

const projectColumns = "id, name, domain, normalized_domain, retention_period_days, created_by, created_at, updated_at"

func scanProject(row interface{ Scan(...any) error }) (model.Project, error) {
    var p model.Project
    err := row.Scan(&p.ID, &p.Name, &p.Domain, &p.NormalizedDomain,
        &p.RetentionPeriodDays, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
    return p, err
}

// Create inserts a project and its creator's owner membership in one
// transaction and populates the generated ID.  A taken domain surfaces
// as ErrDomainExists.
func (r *ProjectRepo) Create(ctx context.Context, p *model.Project, ownerID uint64) error {
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

    res, err := tx.ExecContext(ctx,
        "INSERT INTO projects (name, domain, normalized_domain, retention_period_days, created_by) VALUES (?,?,?,?,?)",
        p.Name, p.Domain, p.NormalizedDomain, p.RetentionPeriodDays, p.CreatedBy)
    if err != nil {
        if isDuplicateKey(err) {
            return ErrDomainExists
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    p.ID = uint64(id)

    if _, err := tx.ExecContext(ctx,
        "INSERT INTO project_memberships (project_id, user_id, role) VALUES (?,?,?)",
        p.ID, ownerID, model.MembershipRoleOwner); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// GetByID returns a single project or sql.ErrNoRows.
func (r *ProjectRepo) GetByID(ctx context.Context, id uint64) (model.Project, error) {
    return scanProject(r.DB.QueryRowContext(ctx,
        "SELECT "+projectColumns+" FROM projects WHERE id=?", id))
}

// ListAll returns every project in creation order.  Reserved for
// superusers.
func (r *ProjectRepo) ListAll(ctx context.Context) ([]model.Project, error) {
    rows, err := r.DB.QueryContext(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY id")
    if err != nil {
        return nil, err
    }
    return collectProjects(rows)
}

// ListForMember returns the projects the user holds a membership on,
// in creation order.
func (r *ProjectRepo) ListForMember(ctx context.Context, userID uint64) ([]model.Project, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT p.id, p.name, p.domain, p.normalized_domain, p.retention_period_days, p.created_by, p.created_at, p.updated_at
         FROM projects p
         JOIN project_memberships m ON m.project_id = p.id
         WHERE m.user_id = ?
         ORDER BY p.id`, userID)
    if err != nil {
        return nil, err
    }
    return collectProjects(rows)
}

// Update changes the mutable fields (name, domain, retention).  The
// normalized domain moves with the domain; a collision surfaces as
// ErrDomainExists.
func (r *ProjectRepo) Update(ctx context.Context, p *model.Project) error {
    _, err := r.DB.ExecContext(ctx,
        "UPDATE projects SET name=?, domain=?, normalized_domain=?, retention_period_days=? WHERE id=?",
        p.Name, p.Domain, p.NormalizedDomain, p.RetentionPeriodDays, p.ID)
    if isDuplicateKey(err) {
        return ErrDomainExists
    }
    return err
}

func collectProjects(rows *sql.Rows) ([]model.Project, error) {
    defer rows.Close()
    out := make([]model.Project, 0)
    for rows.Next() {
        p, err := scanProject(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, p)
    }
    return out, rows.Err()
}
