package repository

import (
    "context"
    "database/sql"

    "github.com/talkform/talkform/internal/model"
)

// PathPatternRepo provides access to the path_patterns table.  The
// (project, lowercased pattern, wildcard flag) uniqueness rule is
// backed by a generated-column index and surfaced as
// ErrDuplicatePattern.
type PathPatternRepo struct{ DB *sql.DB }

func NewPathPatternRepo(db *sql.DB) *PathPatternRepo { return &PathPatternRepo{DB: db} }

// Create inserts a pattern and populates the generated ID.  ProjectID
// must already match the owning form's project; callers derive it from
// the form rather than trusting request input.
func (r *PathPatternRepo) Create(ctx context.Context, p *model.PathPattern) error {
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO path_patterns (project_id, feedback_form_id, pattern, is_wildcard) VALUES (?,?,?,?)",
        p.ProjectID, p.FeedbackFormID, p.Pattern, p.IsWildcard)
    if err != nil {
        if isDuplicateKey(err) {
            return ErrDuplicatePattern
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    p.ID = uint64(id)
    return nil
}

// ListByForm returns the form's patterns in creation order.
func (r *PathPatternRepo) ListByForm(ctx context.Context, formID uint64) ([]model.PathPattern, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT id, project_id, feedback_form_id, pattern, is_wildcard, created_at FROM path_patterns WHERE feedback_form_id=? ORDER BY id",
        formID)
    if err != nil {
        return nil, err
    }
    return collectPatterns(rows)
}

// ListForEnabledForms returns every pattern of the project whose form
// is currently enabled.  This is the candidate set for path
// resolution; disabled forms are excluded here so they can never win a
// match.
func (r *PathPatternRepo) ListForEnabledForms(ctx context.Context, projectID uint64) ([]model.PathPattern, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT pp.id, pp.project_id, pp.feedback_form_id, pp.pattern, pp.is_wildcard, pp.created_at
         FROM path_patterns pp
         JOIN feedback_forms f ON f.id = pp.feedback_form_id
         WHERE pp.project_id = ? AND f.disabled_at IS NULL`,
        projectID)
    if err != nil {
        return nil, err
    }
    return collectPatterns(rows)
}

// Delete removes a pattern.  A missing row is reported as
// sql.ErrNoRows so handlers can answer 404.
func (r *PathPatternRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, "DELETE FROM path_patterns WHERE id=?", id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// GetByID returns a single pattern or sql.ErrNoRows.
func (r *PathPatternRepo) GetByID(ctx context.Context, id uint64) (model.PathPattern, error) {
    var p model.PathPattern
    err := r.DB.QueryRowContext(ctx,
        "SELECT id, project_id, feedback_form_id, pattern, is_wildcard, created_at FROM path_patterns WHERE id=?",
        id).Scan(&p.ID, &p.ProjectID, &p.FeedbackFormID, &p.Pattern, &p.IsWildcard, &p.CreatedAt)
    return p, err
}

func collectPatterns(rows *sql.Rows) ([]model.PathPattern, error) {
    defer rows.Close()
    out := make([]model.PathPattern, 0)
    for rows.Next() {
        var p model.PathPattern
        if err := rows.Scan(&p.ID, &p.ProjectID, &p.FeedbackFormID, &p.Pattern, &p.IsWildcard, &p.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, p)
    }
    return out, rows.Err()
}
