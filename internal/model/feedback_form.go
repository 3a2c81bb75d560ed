package model

import "time"

// FeedbackForm is an ordered collection of prompts shown to visitors of
// the pages its path patterns match.  A form can be disabled, which
// removes it from path resolution and blocks new submissions while
// keeping recorded responses readable.
//
// Fields:
//  ID         – primary key identifier.
//  ProjectID  – owning project.
//  Name       – editor-facing name.
//  DisabledAt – when the form was disabled; nil means enabled.
//  DisabledBy – user who disabled the form, nil while enabled.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type FeedbackForm struct {
    ID         uint64     // feedback_forms.id
    ProjectID  uint64     // feedback_forms.project_id
    Name       string     // feedback_forms.name
    DisabledAt *time.Time // feedback_forms.disabled_at (nullable)
    DisabledBy *uint64    // feedback_forms.disabled_by (nullable)
    CreatedAt  time.Time  // feedback_forms.created_at
    UpdatedAt  time.Time  // feedback_forms.updated_at
}

// Enabled reports whether the form accepts submissions and participates
// in path resolution.
func (f FeedbackForm) Enabled() bool { return f.DisabledAt == nil }
