package model

import (
    "encoding/json"
    "time"
)

// Response is one feedback submission instance on a feedback form.  It
// is append-only: a response is created together with its first prompt
// response and accumulates further prompt responses afterwards.
//
// Fields:
//  ID             – primary key identifier.
//  FeedbackFormID – form the submission belongs to.
//  URL            – page URL the widget was embedded on.
//  Metadata       – opaque client-supplied JSON (user agent, viewport, ...).
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Response struct {
    ID             uint64          // responses.id
    FeedbackFormID uint64          // responses.feedback_form_id
    URL            string          // responses.url
    Metadata       json.RawMessage // responses.metadata (nullable)
    CreatedAt      time.Time       // responses.created_at
    UpdatedAt      time.Time       // responses.updated_at
}
