package model

import (
    "fmt"
    "time"
)

// PromptKind discriminates the concrete variant of a prompt.  The set
// is closed: text, binary and ranged are the only kinds, and every
// switch over PromptKind in this codebase is exhaustive.
type PromptKind string

const (
    PromptKindText   PromptKind = "text"
    PromptKindBinary PromptKind = "binary"
    PromptKindRanged PromptKind = "ranged"
)

// ValidPromptKind reports whether k names a known prompt kind.
func ValidPromptKind(k PromptKind) bool {
    switch k {
    case PromptKindText, PromptKindBinary, PromptKindRanged:
        return true
    }
    return false
}

// MaxEnabledPrompts is the ceiling on enabled prompts per feedback
// form.  The count is checked under a per-form row lock because it is
// a read-then-write invariant.
const MaxEnabledPrompts = 3

// DefaultTextMaxLength is the answer length limit applied to text
// prompts created without an explicit max_length.
const DefaultTextMaxLength = 1000

// Prompt is a question within a feedback form.  The base fields are
// shared by every kind; exactly one of the detail pointers matching
// Kind is non-nil once the prompt has been loaded or built.
//
// Fields:
//  ID             – primary key identifier.
//  FeedbackFormID – owning form.
//  Kind           – concrete variant discriminant.
//  Text           – the question shown to the visitor.
//  Order          – submission position; unique among the form's
//                   enabled prompts.
//  DisabledAt     – when the prompt was disabled; nil means enabled.
//  DisabledBy     – user who disabled the prompt.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
//  Text/Binary/RangedDetail – kind-specific payload.
type Prompt struct {
    ID             uint64     // prompts.id
    FeedbackFormID uint64     // prompts.feedback_form_id
    Kind           PromptKind // prompts.prompt_type
    Text           string     // prompts.text
    Order          uint32     // prompts.display_order
    DisabledAt     *time.Time // prompts.disabled_at (nullable)
    DisabledBy     *uint64    // prompts.disabled_by (nullable)
    CreatedAt      time.Time  // prompts.created_at
    UpdatedAt      time.Time  // prompts.updated_at

    TextDetail   *TextPromptDetail   // populated when Kind == text
    BinaryDetail *BinaryPromptDetail // populated when Kind == binary
    RangedDetail *RangedPromptDetail // populated when Kind == ranged
}

// TextPromptDetail holds the text-kind payload: a free-text answer
// bounded by MaxLength characters.
type TextPromptDetail struct {
    MaxLength uint32 // text_prompts.max_length
}

// BinaryPromptDetail holds the binary-kind payload: the labels the
// widget renders for a boolean answer.
type BinaryPromptDetail struct {
    PositiveAnswerLabel string // binary_prompts.positive_answer_label
    NegativeAnswerLabel string // binary_prompts.negative_answer_label
}

// RangedPromptDetail holds the ranged-kind payload: the option set a
// valid answer must come from.
type RangedPromptDetail struct {
    Options []RangedPromptOption
}

// RangedPromptOption is one selectable answer of a ranged prompt.
// Label and Value are each unique within their prompt.
//
// Fields:
//  ID       – primary key identifier.
//  PromptID – owning ranged prompt.
//  Label    – text shown to the visitor.
//  Value    – numeric value recorded for analytics.
type RangedPromptOption struct {
    ID       uint64 // ranged_prompt_options.id
    PromptID uint64 // ranged_prompt_options.prompt_id
    Label    string // ranged_prompt_options.label
    Value    int32  // ranged_prompt_options.value
}

// Enabled reports whether the prompt currently accepts answers.
func (p Prompt) Enabled() bool { return p.DisabledAt == nil }

// Option returns the prompt's option with the given id.  It returns
// false for non-ranged prompts and unknown ids.
func (p Prompt) Option(optionID uint64) (RangedPromptOption, bool) {
    if p.RangedDetail == nil {
        return RangedPromptOption{}, false
    }
    for _, o := range p.RangedDetail.Options {
        if o.ID == optionID {
            return o, true
        }
    }
    return RangedPromptOption{}, false
}

// ResponseKindFor maps a prompt kind to the prompt-response kind that
// records its answers.  The mapping is static and total over the closed
// variant set; an unknown kind is an internal invariant violation and
// is reported as an error rather than guessed at.
func ResponseKindFor(k PromptKind) (PromptResponseKind, error) {
    switch k {
    case PromptKindText:
        return PromptResponseKindText, nil
    case PromptKindBinary:
        return PromptResponseKindBinary, nil
    case PromptKindRanged:
        return PromptResponseKindRanged, nil
    }
    return "", fmt.Errorf("no prompt response kind for prompt kind %q", k)
}
