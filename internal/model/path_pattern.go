package model

import "time"

// PathPattern maps an inbound URL path to a feedback form.  An exact
// pattern must equal the path verbatim (case-sensitive, trailing slash
// included); a wildcard pattern matches any path that begins with it,
// compared case-insensitively.  ProjectID duplicates the owning form's
// project so resolution can scan a single table per project.
//
// Fields:
//  ID             – primary key identifier.
//  ProjectID      – project the pattern belongs to (denormalized).
//  FeedbackFormID – form the pattern routes to.
//  Pattern        – the path or path prefix, e.g. "/pricing/".
//  IsWildcard     – prefix match when true, exact match when false.
//  CreatedAt      – creation timestamp.
type PathPattern struct {
    ID             uint64    // path_patterns.id
    ProjectID      uint64    // path_patterns.project_id
    FeedbackFormID uint64    // path_patterns.feedback_form_id
    Pattern        string    // path_patterns.pattern
    IsWildcard     bool      // path_patterns.is_wildcard
    CreatedAt      time.Time // path_patterns.created_at
}
