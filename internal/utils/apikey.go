package utils

// APIKey is the bearer credential of the public feedback API, sent as
// "Authorization: Token <key>".  The raw value is shown to the user
// exactly once at creation; only its SHA‑256 hash is persisted.
type APIKey struct {
    Raw  string // raw key returned to the client once
    Hash string // hex SHA‑256 stored in the database
}

// NewAPIKey generates a random API key and its storage hash.
func NewAPIKey() (APIKey, error) {
    raw, err := randomHex(32) // 32 bytes -> 64 hex chars
    if err != nil {
        return APIKey{}, err
    }
    return APIKey{Raw: raw, Hash: HashTokenRaw(raw)}, nil
}
