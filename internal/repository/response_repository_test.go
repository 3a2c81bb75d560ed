package repository

import (
    "context"
    "errors"
    "regexp"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/talkform/talkform/internal/model"
)

var (
    insertResponseQuery = regexp.QuoteMeta(
        "INSERT INTO responses (feedback_form_id, url, metadata) VALUES (?,?,?)")
    insertPromptResponseQuery = regexp.QuoteMeta(
        "INSERT INTO prompt_responses (response_id, prompt_id, prompt_type, text_value, bool_value, option_id) VALUES (?,?,?,?,?,?)")
)

// The response and its first answer commit as one unit; both ids are
// filled in on success.
func TestCreateWithFirstCommitsAsOneUnit(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec(insertResponseQuery).
        WithArgs(int64(4), "https://acme.dev/pricing/", nil).
        WillReturnResult(sqlmock.NewResult(7, 1))
    mock.ExpectExec(insertPromptResponseQuery).
        WithArgs(int64(7), int64(2), "binary", nil, true, nil).
        WillReturnResult(sqlmock.NewResult(31, 1))
    mock.ExpectCommit()

    repo := NewResponseRepo(db)
    resp := model.Response{FeedbackFormID: 4, URL: "https://acme.dev/pricing/"}
    yes := true
    first := model.PromptResponse{PromptID: 2, Kind: model.PromptResponseKindBinary, BoolValue: &yes}
    require.NoError(t, repo.CreateWithFirst(context.Background(), &resp, &first))
    assert.Equal(t, uint64(7), resp.ID)
    assert.Equal(t, uint64(7), first.ResponseID)
    assert.Equal(t, uint64(31), first.ID)
    require.NoError(t, mock.ExpectationsWereMet())
}

// When the answer insert fails the response insert rolls back with it:
// a response is never observable without its first answer.  A duplicate
// key on the answer surfaces as ErrDuplicateAnswer.
func TestCreateWithFirstRollsBackWhenAnswerFails(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec(insertResponseQuery).
        WithArgs(int64(4), "https://acme.dev/pricing/", nil).
        WillReturnResult(sqlmock.NewResult(7, 1))
    mock.ExpectExec(insertPromptResponseQuery).
        WithArgs(int64(7), int64(2), "binary", nil, true, nil).
        WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '7-2' for key 'uq_prompt_responses_pair'"))
    mock.ExpectRollback()

    repo := NewResponseRepo(db)
    resp := model.Response{FeedbackFormID: 4, URL: "https://acme.dev/pricing/"}
    yes := true
    first := model.PromptResponse{PromptID: 2, Kind: model.PromptResponseKindBinary, BoolValue: &yes}
    err = repo.CreateWithFirst(context.Background(), &resp, &first)
    assert.Equal(t, ErrDuplicateAnswer, err)
    require.NoError(t, mock.ExpectationsWereMet())
}
