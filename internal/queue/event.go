// Package queue defines message payloads exchanged over the message broker.
package queue

// ResponseSubmittedEvent is published when a visitor opens a new
// response on a feedback form.  It carries enough context for
// downstream consumers to log or notify without querying the primary
// database.
type ResponseSubmittedEvent struct {
    ResponseID     uint64 `json:"response_id"`
    FeedbackFormID uint64 `json:"feedback_form_id"`
    ProjectID      uint64 `json:"project_id"`
    ProjectDomain  string `json:"project_domain"`
    FormName       string `json:"form_name"`
    URL            string `json:"url"`
    SubmittedAt    string `json:"submitted_at"`
}

// PromptResponseRecordedEvent is published for every answer recorded on
// a response, the first one included.
type PromptResponseRecordedEvent struct {
    PromptResponseID uint64 `json:"prompt_response_id"`
    ResponseID       uint64 `json:"response_id"`
    PromptID         uint64 `json:"prompt_id"`
    FeedbackFormID   uint64 `json:"feedback_form_id"`
    ProjectID        uint64 `json:"project_id"`
    PromptType       string `json:"prompt_type"`
    RecordedAt       string `json:"recorded_at"`
}
