package model

import "time"

// User is an account that can sign in to the editor UI and hold API
// keys for the public feedback API.  Superusers bypass the API access
// control checks and are the only accounts allowed to create projects.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – login email, stored lowercased.
//  PasswordHash – bcrypt hash of the password.
//  IsSuperuser  – platform administrator flag.
//  IsActive     – soft account switch.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    IsSuperuser  bool      // users.is_superuser
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
