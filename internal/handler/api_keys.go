package handler

import (
    "database/sql"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/talkform/talkform/internal/repository"
    "github.com/talkform/talkform/internal/utils"
)

// APIKeyHandler manages the bearer credentials of the public feedback
// API.  The raw key is returned exactly once, on creation.
type APIKeyHandler struct {
    Keys *repository.APIKeyRepo
}

func NewAPIKeyHandler(k *repository.APIKeyRepo) *APIKeyHandler { return &APIKeyHandler{Keys: k} }

type createKeyReq struct {
    Label string `json:"label"`
}

// Create issues a new API key for the authenticated user.
func (h *APIKeyHandler) Create(c echo.Context) error {
    uid, ok := getUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createKeyReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    label := strings.TrimSpace(req.Label)
    if label == "" {
        label = "default"
    }

    key, err := utils.NewAPIKey()
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate key failed"})
    }
    id, err := h.Keys.Create(c.Request().Context(), uid, key.Hash, label)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save key failed"})
    }
    // The raw key is not recoverable later; only its hash is stored.
    return c.JSON(http.StatusCreated, echo.Map{
        "id":    id,
        "label": label,
        "key":   key.Raw,
    })
}

// List returns the caller's keys without their secret material.
func (h *APIKeyHandler) List(c echo.Context) error {
    uid, ok := getUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    keys, err := h.Keys.ListByUser(c.Request().Context(), uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list keys failed"})
    }
    out := make([]echo.Map, 0, len(keys))
    for _, k := range keys {
        out = append(out, echo.Map{
            "id":         k.ID,
            "label":      k.Label,
            "revoked_at": k.RevokedAt,
            "created_at": k.CreatedAt,
        })
    }
    return c.JSON(http.StatusOK, out)
}

// Revoke disables one of the caller's keys.
func (h *APIKeyHandler) Revoke(c echo.Context) error {
    uid, ok := getUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    keyID, ok := parseID(c.Param("id"))
    if !ok {
        return notFoundID(c, "API key", c.Param("id"))
    }
    err := h.Keys.Revoke(c.Request().Context(), keyID, uid)
    switch {
    case err == sql.ErrNoRows:
        return notFoundID(c, "API key", c.Param("id"))
    case err == repository.ErrForbidden:
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case err != nil:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke key failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
