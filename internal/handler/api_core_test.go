package handler

import (
    "database/sql"
    "net/http"
    "net/http/httptest"
    "regexp"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/talkform/talkform/internal/acl"
    "github.com/talkform/talkform/internal/middleware"
    "github.com/talkform/talkform/internal/repository"
)

var getFormQuery = regexp.QuoteMeta(
    "SELECT id, project_id, name, disabled_at, disabled_by, created_at, updated_at FROM feedback_forms WHERE id=?")

func resolvePathContext(e *echo.Echo) (echo.Context, *httptest.ResponseRecorder) {
    rec := httptest.NewRecorder()
    c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
    c.SetParamNames("project", "*")
    c.SetParamValues("2", "pricing/")
    middleware.SetPrincipal(c, acl.Principal{UserID: 1, IsSuperuser: true})
    return c, rec
}

func patternRows() *sqlmock.Rows {
    return sqlmock.NewRows([]string{"id", "project_id", "feedback_form_id", "pattern", "is_wildcard", "created_at"}).
        AddRow(1, 2, 4, "/pricing/", false, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
}

// A form deleted between the pattern query and the form read resolves
// the same as no match: a 404, not a 500.
func TestResolvePathTreatsVanishedFormAsNoMatch(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectQuery("FROM path_patterns pp").WithArgs(int64(2)).WillReturnRows(patternRows())
    mock.ExpectQuery(getFormQuery).WithArgs(int64(4)).WillReturnError(sql.ErrNoRows)

    h := &CoreHandler{
        Engine:   acl.NewEngine(grantlessStore{}),
        Forms:    repository.NewFeedbackFormRepo(db),
        Patterns: repository.NewPathPatternRepo(db),
    }
    c, rec := resolvePathContext(echo.New())

    assert.NoError(t, h.ResolvePath(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.Contains(t, rec.Body.String(), "No feedback form matches")
    require.NoError(t, mock.ExpectationsWereMet())
}

// Likewise a form disabled in the same window is answered as no match.
func TestResolvePathTreatsDisabledFormAsNoMatch(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
    mock.ExpectQuery("FROM path_patterns pp").WithArgs(int64(2)).WillReturnRows(patternRows())
    mock.ExpectQuery(getFormQuery).WithArgs(int64(4)).WillReturnRows(
        sqlmock.NewRows([]string{"id", "project_id", "name", "disabled_at", "disabled_by", "created_at", "updated_at"}).
            AddRow(4, 2, "Pricing page", now, 1, now, now))

    h := &CoreHandler{
        Engine:   acl.NewEngine(grantlessStore{}),
        Forms:    repository.NewFeedbackFormRepo(db),
        Patterns: repository.NewPathPatternRepo(db),
    }
    c, rec := resolvePathContext(echo.New())

    assert.NoError(t, h.ResolvePath(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.Contains(t, rec.Body.String(), "No feedback form matches")
    require.NoError(t, mock.ExpectationsWereMet())
}
