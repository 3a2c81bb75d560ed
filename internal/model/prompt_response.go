package model

import (
    "fmt"
    "time"
)

// PromptResponseKind discriminates the concrete variant of a prompt
// response.  It always mirrors the kind of the answered prompt.
type PromptResponseKind string

const (
    PromptResponseKindText   PromptResponseKind = "text"
    PromptResponseKindBinary PromptResponseKind = "binary"
    PromptResponseKindRanged PromptResponseKind = "ranged"
)

// PromptResponse records one answer within a response.  Exactly one of
// the value fields matching Kind is non-nil: TextValue for text,
// BoolValue for binary, OptionID for ranged.  A (response, prompt)
// pair is answered at most once.
//
// Fields:
//  ID         – primary key identifier.
//  ResponseID – owning response; answers are deleted with it.
//  PromptID   – answered prompt; protected from deletion while
//               referenced.
//  Kind       – concrete variant discriminant.
//  TextValue  – free-text answer (text kind).
//  BoolValue  – boolean answer (binary kind).
//  OptionID   – chosen option (ranged kind).
//  CreatedAt  – creation timestamp.
type PromptResponse struct {
    ID         uint64             // prompt_responses.id
    ResponseID uint64             // prompt_responses.response_id
    PromptID   uint64             // prompt_responses.prompt_id
    Kind       PromptResponseKind // prompt_responses.prompt_type
    TextValue  *string            // prompt_responses.text_value (nullable)
    BoolValue  *bool              // prompt_responses.bool_value (nullable)
    OptionID   *uint64            // prompt_responses.option_id (nullable)
    CreatedAt  time.Time          // prompt_responses.created_at
}

// PromptKindFor maps a prompt-response kind back to the prompt kind it
// answers.  Like ResponseKindFor it is total over the closed set and
// treats anything else as an internal invariant violation.
func PromptKindFor(k PromptResponseKind) (PromptKind, error) {
    switch k {
    case PromptResponseKindText:
        return PromptKindText, nil
    case PromptResponseKindBinary:
        return PromptKindBinary, nil
    case PromptResponseKindRanged:
        return PromptKindRanged, nil
    }
    return "", fmt.Errorf("no prompt kind for prompt response kind %q", k)
}
