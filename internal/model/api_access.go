package model

import "time"

// APIRole is a role granted by a ProjectAPIAccess.  The public API
// checks these roles, never membership roles.
type APIRole string

const (
    // APIRoleSubmit allows creating responses and prompt responses.
    APIRoleSubmit APIRole = "submit-responses"
    // APIRoleExplore allows reading responses and prompt responses.
    APIRoleExplore APIRole = "explore-responses"
)

// ValidAPIRole reports whether role names a known API role.
func ValidAPIRole(role APIRole) bool {
    return role == APIRoleSubmit || role == APIRoleExplore
}

// AccessLifespans lists the allowed lifespan_days values for an API
// access grant.
var AccessLifespans = []uint32{30, 60, 90, 180}

// ValidAccessLifespan reports whether days is one of the allowed
// grant lifespans.
func ValidAccessLifespan(days uint32) bool {
    for _, d := range AccessLifespans {
        if d == days {
            return true
        }
    }
    return false
}

// ProjectAPIAccess grants a user (the grantee) an API role on a project
// for a fixed lifespan.  ExpiresAt is computed once when the grant is
// created and never mutated afterwards; whether the grant is active is
// always recomputed from it.
//
// Fields:
//  ID           – primary key identifier.
//  ProjectID    – project the grant applies to.
//  GranteeID    – user the grant authorizes.
//  Role         – "submit-responses" or "explore-responses".
//  LifespanDays – grant duration in days (30/60/90/180).
//  ExpiresAt    – CreatedAt + LifespanDays, immutable.
//  CreatedAt    – creation timestamp.
type ProjectAPIAccess struct {
    ID           uint64    // project_api_accesses.id
    ProjectID    uint64    // project_api_accesses.project_id
    GranteeID    uint64    // project_api_accesses.grantee_id
    Role         APIRole   // project_api_accesses.role
    LifespanDays uint32    // project_api_accesses.lifespan_days
    ExpiresAt    time.Time // project_api_accesses.expires_at
    CreatedAt    time.Time // project_api_accesses.created_at
}

// IsActive reports whether the grant is still usable at the given
// instant.  A grant expiring exactly at now is still active.  The check
// is a pure computation so two calls straddling ExpiresAt flip from
// true to false without any write.
func (a ProjectAPIAccess) IsActive(now time.Time) bool {
    return !a.ExpiresAt.Before(now)
}

// ExpiryFor computes the immutable expiry for a grant created at the
// given instant with the given lifespan.
func ExpiryFor(createdAt time.Time, lifespanDays uint32) time.Time {
    return createdAt.Add(time.Duration(lifespanDays) * 24 * time.Hour)
}
