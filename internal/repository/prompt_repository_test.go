package repository

import (
    "context"
    "regexp"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/talkform/talkform/internal/model"
)

var lockFormQuery = regexp.QuoteMeta(
    "SELECT display_order, disabled_at FROM prompts WHERE feedback_form_id=? FOR UPDATE")

// A form with three enabled prompts rejects a fourth inside the locked
// transaction; nothing is inserted and the transaction rolls back.
func TestCreateRejectsFourthEnabledPrompt(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectQuery(lockFormQuery).
        WithArgs(int64(4)).
        WillReturnRows(sqlmock.NewRows([]string{"display_order", "disabled_at"}).
            AddRow(1, nil).
            AddRow(2, nil).
            AddRow(3, nil))
    mock.ExpectRollback()

    repo := NewPromptRepo(db)
    p := model.Prompt{FeedbackFormID: 4, Kind: model.PromptKindText, Text: "Anything else?"}
    err = repo.Create(context.Background(), &p)
    assert.Equal(t, ErrPromptLimit, err)
    require.NoError(t, mock.ExpectationsWereMet())
}

// With a disabled prompt in the mix the enabled count stays under the
// ceiling and creation goes through.  The new order is the all-time
// maximum plus one, so orders of disabled prompts are never reused.
func TestCreateAssignsOrderPastDisabledPrompts(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectQuery(lockFormQuery).
        WithArgs(int64(4)).
        WillReturnRows(sqlmock.NewRows([]string{"display_order", "disabled_at"}).
            AddRow(1, nil).
            AddRow(2, nil).
            AddRow(5, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)))
    mock.ExpectExec(regexp.QuoteMeta(
        "INSERT INTO prompts (feedback_form_id, prompt_type, text, display_order) VALUES (?,?,?,?)")).
        WithArgs(int64(4), "text", "Anything else?", int64(6)).
        WillReturnResult(sqlmock.NewResult(11, 1))
    mock.ExpectExec(regexp.QuoteMeta(
        "INSERT INTO text_prompts (prompt_id, max_length) VALUES (?,?)")).
        WithArgs(int64(11), int64(model.DefaultTextMaxLength)).
        WillReturnResult(sqlmock.NewResult(11, 1))
    mock.ExpectCommit()

    repo := NewPromptRepo(db)
    p := model.Prompt{FeedbackFormID: 4, Kind: model.PromptKindText, Text: "Anything else?"}
    require.NoError(t, repo.Create(context.Background(), &p))
    assert.Equal(t, uint64(11), p.ID)
    assert.Equal(t, uint32(6), p.Order)
    require.NoError(t, mock.ExpectationsWereMet())
}

// Re-enabling a prompt re-enters the form's critical section and fails
// the same way as creation when the form is already at the ceiling.
func TestEnableRejectsWhenFormFull(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta(
        "SELECT feedback_form_id, disabled_at FROM prompts WHERE id=? FOR UPDATE")).
        WithArgs(int64(9)).
        WillReturnRows(sqlmock.NewRows([]string{"feedback_form_id", "disabled_at"}).
            AddRow(4, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)))
    mock.ExpectQuery(lockFormQuery).
        WithArgs(int64(4)).
        WillReturnRows(sqlmock.NewRows([]string{"display_order", "disabled_at"}).
            AddRow(1, nil).
            AddRow(2, nil).
            AddRow(3, nil))
    mock.ExpectRollback()

    repo := NewPromptRepo(db)
    err = repo.SetDisabled(context.Background(), 9, false, 1)
    assert.Equal(t, ErrPromptLimit, err)
    require.NoError(t, mock.ExpectationsWereMet())
}

// Enabling an already enabled prompt is a no-op, not an error, and
// never reads the rest of the form.
func TestEnableAlreadyEnabledIsNoop(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta(
        "SELECT feedback_form_id, disabled_at FROM prompts WHERE id=? FOR UPDATE")).
        WithArgs(int64(9)).
        WillReturnRows(sqlmock.NewRows([]string{"feedback_form_id", "disabled_at"}).
            AddRow(4, nil))
    mock.ExpectCommit()

    repo := NewPromptRepo(db)
    require.NoError(t, repo.SetDisabled(context.Background(), 9, false, 1))
    require.NoError(t, mock.ExpectationsWereMet())
}
