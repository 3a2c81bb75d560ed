package model

import (
    "strings"
    "time"
)

// RetentionPeriods lists the allowed values for a project's
// retention_period_days setting.
var RetentionPeriods = []uint32{30, 60, 90, 180}

// ValidRetentionPeriod reports whether days is one of the allowed
// retention periods.
func ValidRetentionPeriod(days uint32) bool {
    for _, d := range RetentionPeriods {
        if d == days {
            return true
        }
    }
    return false
}

// Project is the tenant boundary.  Every feedback form, path pattern,
// prompt and response hangs off exactly one project, and both access
// control models (memberships for the editor UI, API accesses for the
// public API) are scoped to it.
//
// Fields:
//  ID                  – primary key identifier.
//  Name                – display name.
//  Domain              – site domain as entered by the creator.
//  NormalizedDomain    – canonical form of Domain; unique platform-wide.
//  RetentionPeriodDays – how long responses are kept (30/60/90/180).
//  CreatedBy           – superuser who created the project.
//  CreatedAt           – creation timestamp.
//  UpdatedAt           – last update timestamp.
type Project struct {
    ID                  uint64    // projects.id
    Name                string    // projects.name
    Domain              string    // projects.domain
    NormalizedDomain    string    // projects.normalized_domain
    RetentionPeriodDays uint32    // projects.retention_period_days
    CreatedBy           uint64    // projects.created_by
    CreatedAt           time.Time // projects.created_at
    UpdatedAt           time.Time // projects.updated_at
}

// NormalizeDomain canonicalizes a site domain for the uniqueness check:
// lowercase, scheme stripped, a leading "www." stripped and any trailing
// slashes removed.  "https://www.Example.com/" and "example.com" are the
// same project domain.
func NormalizeDomain(domain string) string {
    d := strings.ToLower(strings.TrimSpace(domain))
    d = strings.TrimPrefix(d, "https://")
    d = strings.TrimPrefix(d, "http://")
    d = strings.TrimPrefix(d, "www.")
    d = strings.TrimRight(d, "/")
    return d
}
