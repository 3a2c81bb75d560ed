package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/talkform/talkform/internal/model"
)

// APIKeyRecord mirrors the api_keys table without the hash, for
// listing a user's keys.
type APIKeyRecord struct {
    ID        uint64
    UserID    uint64
    Label     string
    RevokedAt *time.Time
    CreatedAt time.Time
}

// APIKeyRepo persists the hashed bearer credentials of the public
// feedback API.  The same hash-only discipline as refresh tokens
// applies: the raw key never touches the database.
type APIKeyRepo struct{ DB *sql.DB }

func NewAPIKeyRepo(db *sql.DB) *APIKeyRepo { return &APIKeyRepo{DB: db} }

// Create inserts a key hash for the user and returns the new row id.
func (r *APIKeyRepo) Create(ctx context.Context, userID uint64, keyHash, label string) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO api_keys (user_id, key_hash, label) VALUES (?,?,?)",
        userID, keyHash, label)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// Authenticate resolves a key hash to the active user owning it.  It
// returns sql.ErrNoRows for unknown or revoked keys and for inactive
// users, indistinguishably, so callers leak nothing about which case
// occurred.
func (r *APIKeyRepo) Authenticate(ctx context.Context, keyHash string) (model.User, error) {
    var u model.User
    err := r.DB.QueryRowContext(ctx,
        `SELECT u.id, u.email, u.password_hash, u.is_superuser, u.is_active, u.created_at, u.updated_at
         FROM api_keys k
         JOIN users u ON u.id = k.user_id
         WHERE k.key_hash = ? AND k.revoked_at IS NULL
         LIMIT 1`,
        keyHash).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsSuperuser, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
    if err != nil {
        return model.User{}, err
    }
    if !u.IsActive {
        return model.User{}, sql.ErrNoRows
    }
    return u, nil
}

// ListByUser returns the user's keys, newest first, without hashes.
func (r *APIKeyRepo) ListByUser(ctx context.Context, userID uint64) ([]APIKeyRecord, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT id, user_id, label, revoked_at, created_at FROM api_keys WHERE user_id=? ORDER BY id DESC",
        userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]APIKeyRecord, 0)
    for rows.Next() {
        var rec APIKeyRecord
        var revoked sql.NullTime
        if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Label, &revoked, &rec.CreatedAt); err != nil {
            return nil, err
        }
        if revoked.Valid {
            t := revoked.Time
            rec.RevokedAt = &t
        }
        out = append(out, rec)
    }
    return out, rows.Err()
}

// Revoke marks the user's key as revoked.  Revoking someone else's key
// is reported as ErrForbidden; a missing key as sql.ErrNoRows.
func (r *APIKeyRepo) Revoke(ctx context.Context, keyID, userID uint64) error {
    var ownerID uint64
    err := r.DB.QueryRowContext(ctx, "SELECT user_id FROM api_keys WHERE id=?", keyID).Scan(&ownerID)
    if err != nil {
        return err
    }
    if ownerID != userID {
        return ErrForbidden
    }
    _, err = r.DB.ExecContext(ctx,
        "UPDATE api_keys SET revoked_at=NOW() WHERE id=? AND revoked_at IS NULL", keyID)
    return err
}
