package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/talkform/talkform/internal/model"
)

// PromptResponseRepo provides access to the prompt_responses table.
// Like ResponseRepo its reads join up to feedback_forms so the owning
// project id travels with every row.
type PromptResponseRepo struct{ DB *sql.DB }

func NewPromptResponseRepo(db *sql.DB) *PromptResponseRepo {
    return &PromptResponseRepo{DB: db}
}

// PromptResponseFilter narrows List.  Zero-valued fields are ignored;
// AccessibleProjects follows the same convention as ResponseFilter.
type PromptResponseFilter struct {
    ProjectID          uint64
    FeedbackFormID     uint64
    PromptID           uint64
    ResponseID         uint64
    AccessibleProjects []uint64
}

const promptResponseSelect = `SELECT pr.id, pr.response_id, pr.prompt_id, pr.prompt_type,
       pr.text_value, pr.bool_value, pr.option_id, pr.created_at, f.project_id
FROM prompt_responses pr
JOIN responses r ON r.id = pr.response_id
JOIN feedback_forms f ON f.id = r.feedback_form_id`

func scanPromptResponse(row interface{ Scan(...any) error }) (model.PromptResponse, uint64, error) {
    var pr model.PromptResponse
    var textValue sql.NullString
    var boolValue sql.NullBool
    var optionID sql.NullInt64
    var projectID uint64
    err := row.Scan(&pr.ID, &pr.ResponseID, &pr.PromptID, &pr.Kind,
        &textValue, &boolValue, &optionID, &pr.CreatedAt, &projectID)
    if err != nil {
        return pr, 0, err
    }
    if textValue.Valid {
        v := textValue.String
        pr.TextValue = &v
    }
    if boolValue.Valid {
        v := boolValue.Bool
        pr.BoolValue = &v
    }
    if optionID.Valid {
        v := uint64(optionID.Int64)
        pr.OptionID = &v
    }
    return pr, projectID, nil
}

func insertPromptResponseTx(ctx context.Context, tx *sql.Tx, pr *model.PromptResponse) error {
    res, err := tx.ExecContext(ctx,
        "INSERT INTO prompt_responses (response_id, prompt_id, prompt_type, text_value, bool_value, option_id) VALUES (?,?,?,?,?,?)",
        pr.ResponseID, pr.PromptID, pr.Kind, pr.TextValue, pr.BoolValue, pr.OptionID)
    if err != nil {
        if isDuplicateKey(err) {
            return ErrDuplicateAnswer
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    pr.ID = uint64(id)
    return nil
}

// Create records an answer on an existing response.  The unique
// (response, prompt) key backstops the handler's duplicate check;
// a race that slips past it surfaces as ErrDuplicateAnswer.
func (r *PromptResponseRepo) Create(ctx context.Context, pr *model.PromptResponse) error {
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
    if err := insertPromptResponseTx(ctx, tx, pr); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// Exists reports whether the response already has an answer for the
// prompt.
func (r *PromptResponseRepo) Exists(ctx context.Context, responseID, promptID uint64) (bool, error) {
    var one int
    err := r.DB.QueryRowContext(ctx,
        "SELECT 1 FROM prompt_responses WHERE response_id=? AND prompt_id=?",
        responseID, promptID).Scan(&one)
    if err == sql.ErrNoRows {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// GetByID returns the prompt response and its project id, or
// sql.ErrNoRows.
func (r *PromptResponseRepo) GetByID(ctx context.Context, id uint64) (model.PromptResponse, uint64, error) {
    return scanPromptResponse(r.DB.QueryRowContext(ctx, promptResponseSelect+" WHERE pr.id=?", id))
}

// List returns prompt responses matching the filter, newest first.
func (r *PromptResponseRepo) List(ctx context.Context, filter PromptResponseFilter) ([]model.PromptResponse, error) {
    where, args := make([]string, 0, 5), make([]interface{}, 0, 5)
    if filter.ProjectID != 0 {
        where = append(where, "f.project_id=?")
        args = append(args, filter.ProjectID)
    }
    if filter.FeedbackFormID != 0 {
        where = append(where, "r.feedback_form_id=?")
        args = append(args, filter.FeedbackFormID)
    }
    if filter.PromptID != 0 {
        where = append(where, "pr.prompt_id=?")
        args = append(args, filter.PromptID)
    }
    if filter.ResponseID != 0 {
        where = append(where, "pr.response_id=?")
        args = append(args, filter.ResponseID)
    }
    if filter.AccessibleProjects != nil {
        clause, inArgs := inClause("f.project_id", filter.AccessibleProjects)
        where = append(where, clause)
        args = append(args, inArgs...)
    }
    q := promptResponseSelect
    if len(where) > 0 {
        q += " WHERE " + strings.Join(where, " AND ")
    }
    q += " ORDER BY pr.id DESC"

    rows, err := r.DB.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.PromptResponse, 0)
    for rows.Next() {
        pr, _, err := scanPromptResponse(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, pr)
    }
    return out, rows.Err()
}
