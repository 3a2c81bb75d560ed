package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/talkform/talkform/internal/model"
)

// FeedbackFormRepo provides CRUD operations for feedback forms.
type FeedbackFormRepo struct{ DB *sql.DB }

func NewFeedbackFormRepo(db *sql.DB) *FeedbackFormRepo { return &FeedbackFormRepo{DB: db} }

const formColumns = "id, project_id, name, disabled_at, disabled_by, created_at, updated_at"

func scanForm(row interface{ Scan(...any) error }) (model.FeedbackForm, error) {
    var f model.FeedbackForm
    var disabledAt sql.NullTime
    var disabledBy sql.NullInt64
    err := row.Scan(&f.ID, &f.ProjectID, &f.Name, &disabledAt, &disabledBy, &f.CreatedAt, &f.UpdatedAt)
    if err != nil {
        return f, err
    }
    if disabledAt.Valid {
        t := disabledAt.Time
        f.DisabledAt = &t
    }
    if disabledBy.Valid {
        id := uint64(disabledBy.Int64)
        f.DisabledBy = &id
    }
    return f, nil
}

// Create inserts a form and populates the generated ID.
func (r *FeedbackFormRepo) Create(ctx context.Context, f *model.FeedbackForm) error {
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO feedback_forms (project_id, name) VALUES (?,?)",
        f.ProjectID, f.Name)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    f.ID = uint64(id)
    // Query back the full row to populate timestamps and defaults
    created, err := r.GetByID(ctx, f.ID)
    if err != nil {
        return err
    }
    *f = created
    return nil
}

// GetByID returns a single form or sql.ErrNoRows.
func (r *FeedbackFormRepo) GetByID(ctx context.Context, id uint64) (model.FeedbackForm, error) {
    return scanForm(r.DB.QueryRowContext(ctx,
        "SELECT "+formColumns+" FROM feedback_forms WHERE id=?", id))
}

// ListByProject returns the project's forms in creation order,
// enabled and disabled alike: the list surface exposes both states.
func (r *FeedbackFormRepo) ListByProject(ctx context.Context, projectID uint64) ([]model.FeedbackForm, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT "+formColumns+" FROM feedback_forms WHERE project_id=? ORDER BY id", projectID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.FeedbackForm, 0)
    for rows.Next() {
        f, err := scanForm(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, f)
    }
    return out, rows.Err()
}

// Rename updates the form's name.
func (r *FeedbackFormRepo) Rename(ctx context.Context, id uint64, name string) error {
    _, err := r.DB.ExecContext(ctx, "UPDATE feedback_forms SET name=? WHERE id=?", name, id)
    return err
}

// SetDisabled toggles the form's enabled state.  Disabling records who
// did it and when; enabling clears both fields.
func (r *FeedbackFormRepo) SetDisabled(ctx context.Context, id uint64, disabled bool, byUserID uint64) error {
    if disabled {
        _, err := r.DB.ExecContext(ctx,
            "UPDATE feedback_forms SET disabled_at=?, disabled_by=? WHERE id=? AND disabled_at IS NULL",
            time.Now().UTC(), byUserID, id)
        return err
    }
    _, err := r.DB.ExecContext(ctx,
        "UPDATE feedback_forms SET disabled_at=NULL, disabled_by=NULL WHERE id=?", id)
    return err
}
