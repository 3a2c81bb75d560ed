// Package submission validates prompt-response payloads against the
// prompt they answer and the response they belong to.  Both submit
// endpoints (create-response-with-first-answer and create-subsequent-
// answer) share these checks.  Validation problems are field-scoped and
// collected so one request can report several at once; only the caller
// decides which HTTP status they map to.
package submission

import (
    "encoding/json"
    "fmt"
    "sort"
    "unicode/utf8"

    "github.com/talkform/talkform/internal/model"
)

// FieldError names the offending request field and carries a message
// precise enough to act on (identifiers included).
type FieldError struct {
    Field   string `json:"field"`
    Message string `json:"message"`
}

// FieldErrors collects the problems found in one payload.
type FieldErrors []FieldError

// Map groups messages per field for the JSON error body.
func (e FieldErrors) Map() map[string][]string {
    if len(e) == 0 {
        return nil
    }
    m := make(map[string][]string, len(e))
    for _, fe := range e {
        m[fe.Field] = append(m[fe.Field], fe.Message)
    }
    return m
}

// CrossCheck verifies the relationship constraints between a prompt and
// the response it is being answered under: the prompt must belong to
// the response's feedback form, must be enabled, and must not have been
// answered for this response already.  responseID is only used for the
// duplicate message and may be zero while the response does not exist
// yet.
func CrossCheck(p model.Prompt, responseFormID uint64, responseID uint64, alreadyAnswered bool) FieldErrors {
    var errs FieldErrors
    if p.FeedbackFormID != responseFormID {
        errs = append(errs, FieldError{
            Field:   "prompt",
            Message: fmt.Sprintf("Prompt id=%d does not belong to feedback form id=%d.", p.ID, responseFormID),
        })
    }
    if !p.Enabled() {
        errs = append(errs, FieldError{
            Field:   "prompt",
            Message: fmt.Sprintf("Prompt id=%d is disabled.", p.ID),
        })
    }
    if alreadyAnswered {
        errs = append(errs, FieldError{
            Field:   "prompt",
            Message: fmt.Sprintf("Prompt id=%d has already been answered for response id=%d.", p.ID, responseID),
        })
    }
    return errs
}

// BuildValue decodes and validates the raw JSON answer value for the
// prompt's concrete kind and returns a PromptResponse carrying the
// typed value (ResponseID left to the caller).  The switch over the
// variant set is exhaustive; a prompt with an unknown kind is an
// internal invariant violation surfaced as an error, not a FieldError.
func BuildValue(p model.Prompt, raw json.RawMessage) (model.PromptResponse, FieldErrors, error) {
    kind, err := model.ResponseKindFor(p.Kind)
    if err != nil {
        return model.PromptResponse{}, nil, err
    }
    pr := model.PromptResponse{PromptID: p.ID, Kind: kind}

    switch p.Kind {
    case model.PromptKindText:
        var v string
        if err := json.Unmarshal(raw, &v); err != nil {
            return pr, FieldErrors{{Field: "value", Message: fmt.Sprintf("Value must be a string for prompt id=%d.", p.ID)}}, nil
        }
        maxLen := uint32(model.DefaultTextMaxLength)
        if p.TextDetail != nil {
            maxLen = p.TextDetail.MaxLength
        }
        if uint32(utf8.RuneCountInString(v)) > maxLen {
            return pr, FieldErrors{{
                Field:   "value",
                Message: fmt.Sprintf("Value exceeds the maximum length of %d for prompt id=%d.", maxLen, p.ID),
            }}, nil
        }
        pr.TextValue = &v

    case model.PromptKindBinary:
        var v bool
        if err := json.Unmarshal(raw, &v); err != nil {
            return pr, FieldErrors{{Field: "value", Message: fmt.Sprintf("Value must be a boolean for prompt id=%d.", p.ID)}}, nil
        }
        pr.BoolValue = &v

    case model.PromptKindRanged:
        var optionID uint64
        if err := json.Unmarshal(raw, &optionID); err != nil {
            return pr, FieldErrors{{Field: "value", Message: fmt.Sprintf("Value must be an option id for prompt id=%d.", p.ID)}}, nil
        }
        if _, ok := p.Option(optionID); !ok {
            return pr, FieldErrors{{
                Field:   "value",
                Message: fmt.Sprintf("Value is not an option of prompt id=%d.", p.ID),
            }}, nil
        }
        pr.OptionID = &optionID

    default:
        return model.PromptResponse{}, nil, fmt.Errorf("unhandled prompt kind %q", p.Kind)
    }
    return pr, nil, nil
}

// FirstEnabledPrompt returns the enabled prompt with the lowest order,
// i.e. the only prompt a new response may open with.
func FirstEnabledPrompt(prompts []model.Prompt) (model.Prompt, bool) {
    enabled := make([]model.Prompt, 0, len(prompts))
    for _, p := range prompts {
        if p.Enabled() {
            enabled = append(enabled, p)
        }
    }
    if len(enabled) == 0 {
        return model.Prompt{}, false
    }
    sort.Slice(enabled, func(i, j int) bool { return enabled[i].Order < enabled[j].Order })
    return enabled[0], true
}

// CheckFirstPrompt enforces the opening rule of the submission
// protocol: the first prompt response of a new response must answer the
// lowest-order enabled prompt of the form.  A disabled prompt fails
// this check even if its order is lowest.
func CheckFirstPrompt(formID uint64, prompts []model.Prompt, promptID uint64) FieldErrors {
    first, ok := FirstEnabledPrompt(prompts)
    if !ok || first.ID != promptID {
        return FieldErrors{{
            Field: "first_prompt_response",
            Message: fmt.Sprintf(
                "Prompt id=%d is not the first enabled prompt of feedback form id=%d.",
                promptID, formID),
        }}
    }
    return nil
}
