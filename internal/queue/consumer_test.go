package queue

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestFormatResponseLine(t *testing.T) {
    line := formatResponseLine(ResponseSubmittedEvent{
        ResponseID:     7,
        FeedbackFormID: 4,
        ProjectID:      2,
        ProjectDomain:  "acme.dev",
        FormName:       "Pricing page",
        URL:            "https://acme.dev/pricing/",
        SubmittedAt:    "2026-08-28T10:30:00Z",
    })

    assert.Equal(t,
        "[2026-08-28T10:30:00Z] Response submitted | response_id=7 | feedback_form_id=4 | project_id=2 | domain=\"acme.dev\" | form=\"Pricing page\" | url=\"https://acme.dev/pricing/\"\n",
        line)
}

func TestFormatPromptResponseLine(t *testing.T) {
    line := formatPromptResponseLine(PromptResponseRecordedEvent{
        PromptResponseID: 31,
        ResponseID:       7,
        PromptID:         9,
        FeedbackFormID:   4,
        ProjectID:        2,
        PromptType:       "binary",
        RecordedAt:       "2026-08-28T10:30:01Z",
    })

    assert.Equal(t,
        "[2026-08-28T10:30:01Z] Prompt response recorded | prompt_response_id=31 | response_id=7 | prompt_id=9 | feedback_form_id=4 | project_id=2 | prompt_type=binary\n",
        line)
}

// A payload that does not decode is rejected so the delivery is
// dropped instead of redelivered forever.
func TestHandlersRejectMalformedPayloads(t *testing.T) {
    assert.Error(t, handleResponseMessage([]byte("{not json")))
    assert.Error(t, handlePromptResponseMessage([]byte("{not json")))
}
