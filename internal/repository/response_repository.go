package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/talkform/talkform/internal/model"
)

// ResponseRepo provides access to the responses table.  The query
// methods join up to feedback_forms so callers get the owning project
// id alongside each row; access decisions happen on that id without a
// second round trip.
type ResponseRepo struct{ DB *sql.DB }

func NewResponseRepo(db *sql.DB) *ResponseRepo { return &ResponseRepo{DB: db} }

// ResponseFilter narrows List.  Zero-valued fields are ignored.
// AccessibleProjects, when non-nil, restricts results to those
// projects; an empty non-nil slice matches nothing.  Nil means no
// restriction and is reserved for superusers.
type ResponseFilter struct {
    ProjectID          uint64
    FeedbackFormID     uint64
    AccessibleProjects []uint64
}

const responseSelect = `SELECT r.id, r.feedback_form_id, r.url, r.metadata, r.created_at, r.updated_at, f.project_id
FROM responses r
JOIN feedback_forms f ON f.id = r.feedback_form_id`

func scanResponse(row interface{ Scan(...any) error }) (model.Response, uint64, error) {
    var resp model.Response
    var metadata sql.NullString
    var projectID uint64
    err := row.Scan(&resp.ID, &resp.FeedbackFormID, &resp.URL, &metadata,
        &resp.CreatedAt, &resp.UpdatedAt, &projectID)
    if err != nil {
        return resp, 0, err
    }
    if metadata.Valid {
        resp.Metadata = []byte(metadata.String)
    }
    return resp, projectID, nil
}

// CreateWithFirst inserts a response together with its first prompt
// response in one transaction.  A response never exists without at
// least one answer, so the pair commits or rolls back as a unit.  Both
// arguments get their generated ids filled in.
func (r *ResponseRepo) CreateWithFirst(ctx context.Context, resp *model.Response, first *model.PromptResponse) error {
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

    var metadata interface{}
    if len(resp.Metadata) > 0 {
        metadata = []byte(resp.Metadata)
    }
    res, err := tx.ExecContext(ctx,
        "INSERT INTO responses (feedback_form_id, url, metadata) VALUES (?,?,?)",
        resp.FeedbackFormID, resp.URL, metadata)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    resp.ID = uint64(id)

    first.ResponseID = resp.ID
    if err := insertPromptResponseTx(ctx, tx, first); err != nil {
        return err
    }

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// GetByID returns the response and its project id, or sql.ErrNoRows.
func (r *ResponseRepo) GetByID(ctx context.Context, id uint64) (model.Response, uint64, error) {
    return scanResponse(r.DB.QueryRowContext(ctx, responseSelect+" WHERE r.id=?", id))
}

// List returns responses matching the filter, newest first.
func (r *ResponseRepo) List(ctx context.Context, filter ResponseFilter) ([]model.Response, error) {
    where, args := make([]string, 0, 3), make([]interface{}, 0, 3)
    if filter.ProjectID != 0 {
        where = append(where, "f.project_id=?")
        args = append(args, filter.ProjectID)
    }
    if filter.FeedbackFormID != 0 {
        where = append(where, "r.feedback_form_id=?")
        args = append(args, filter.FeedbackFormID)
    }
    if filter.AccessibleProjects != nil {
        clause, inArgs := inClause("f.project_id", filter.AccessibleProjects)
        where = append(where, clause)
        args = append(args, inArgs...)
    }
    q := responseSelect
    if len(where) > 0 {
        q += " WHERE " + strings.Join(where, " AND ")
    }
    q += " ORDER BY r.id DESC"

    rows, err := r.DB.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Response, 0)
    for rows.Next() {
        resp, _, err := scanResponse(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, resp)
    }
    return out, rows.Err()
}

// inClause renders "col IN (?,...)" for the ids.  An empty slice
// renders a clause that matches no rows, so a grantee with no active
// grants sees an empty result rather than everything.
func inClause(col string, ids []uint64) (string, []interface{}) {
    if len(ids) == 0 {
        return "1=0", nil
    }
    placeholders := make([]string, len(ids))
    args := make([]interface{}, len(ids))
    for i, id := range ids {
        placeholders[i] = "?"
        args[i] = id
    }
    return col + " IN (" + strings.Join(placeholders, ",") + ")", args
}
