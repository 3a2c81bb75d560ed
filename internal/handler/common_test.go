package handler

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestParseIDRejectsMalformedIdentifiers(t *testing.T) {
    for _, raw := range []string{"", "0", "-1", "abc", "1.5", "18446744073709551616", "1e3"} {
        _, ok := parseID(raw)
        assert.False(t, ok, "raw=%q", raw)
    }

    n, ok := parseID("42")
    require.True(t, ok)
    assert.Equal(t, uint64(42), n)

    n, ok = parseID(" 7 ")
    require.True(t, ok)
    assert.Equal(t, uint64(7), n)
}

// A malformed identifier is answered with a descriptive 404, not a 500.
func TestNotFoundIDBody(t *testing.T) {
    e := echo.New()
    rec := httptest.NewRecorder()
    c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

    require.NoError(t, notFoundID(c, "Feedback form", "abc"))
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.Contains(t, rec.Body.String(), "Feedback form id=abc not found.")
}

func TestValidationFailedBody(t *testing.T) {
    e := echo.New()
    rec := httptest.NewRecorder()
    c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

    require.NoError(t, validationFailed(c, map[string][]string{
        "prompt": {"Prompt id=9 does not belong to feedback form id=4."},
    }))
    assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
    assert.Contains(t, rec.Body.String(), `"validation failed"`)
    assert.Contains(t, rec.Body.String(), "Prompt id=9 does not belong to feedback form id=4.")
}
