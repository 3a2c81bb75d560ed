package handler

import (
    "context"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"

    "github.com/talkform/talkform/internal/acl"
    "github.com/talkform/talkform/internal/middleware"
    "github.com/talkform/talkform/internal/model"
)

type grantlessStore struct{}

func (grantlessStore) ListByGrantee(context.Context, uint64) ([]model.ProjectAPIAccess, error) {
    return nil, nil
}

// A caller without the explore role is turned away with a 403 before
// any query filter is looked at, so a malformed filter cannot demote
// the refusal to a 404.
func TestExploreListsRefuseBeforeFilterValidation(t *testing.T) {
    h := &ExploreHandler{Engine: acl.NewEngine(grantlessStore{})}
    e := echo.New()

    for name, call := range map[string]func(echo.Context) error{
        "responses":        h.ListResponses,
        "prompt responses": h.ListPromptResponses,
    } {
        rec := httptest.NewRecorder()
        req := httptest.NewRequest(http.MethodGet, "/?project=abc", nil)
        c := e.NewContext(req, rec)
        middleware.SetPrincipal(c, acl.Principal{UserID: 12})

        assert.NoError(t, call(c), name)
        assert.Equal(t, http.StatusForbidden, rec.Code, name)
        assert.Contains(t, rec.Body.String(), "forbidden", name)
    }
}

func TestExploreListsRequireAPrincipal(t *testing.T) {
    h := &ExploreHandler{Engine: acl.NewEngine(grantlessStore{})}
    e := echo.New()
    rec := httptest.NewRecorder()
    c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

    assert.NoError(t, h.ListResponses(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
