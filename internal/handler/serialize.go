package handler

import (
    "encoding/json"

    "github.com/labstack/echo/v4"

    "github.com/talkform/talkform/internal/model"
)

// serialize.go builds the JSON bodies of the public API.  Prompt and
// prompt-response bodies always carry the concrete variant's full
// field set next to the prompt_type discriminant, never just the base
// fields.

func projectJSON(p model.Project) echo.Map {
    return echo.Map{
        "id":                    p.ID,
        "name":                  p.Name,
        "domain":                p.Domain,
        "retention_period_days": p.RetentionPeriodDays,
        "created_at":            p.CreatedAt,
    }
}

func membershipJSON(m model.ProjectMembership) echo.Map {
    return echo.Map{
        "id":      m.ID,
        "project": m.ProjectID,
        "user":    m.UserID,
        "role":    m.Role,
    }
}

func accessJSON(a model.ProjectAPIAccess) echo.Map {
    return echo.Map{
        "id":            a.ID,
        "project":       a.ProjectID,
        "grantee":       a.GranteeID,
        "role":          a.Role,
        "lifespan_days": a.LifespanDays,
        "expires_at":    a.ExpiresAt,
        "created_at":    a.CreatedAt,
    }
}

func formJSON(f model.FeedbackForm) echo.Map {
    return echo.Map{
        "id":          f.ID,
        "project":     f.ProjectID,
        "name":        f.Name,
        "disabled_at": f.DisabledAt,
        "created_at":  f.CreatedAt,
    }
}

// formWithPromptsJSON is formJSON plus the form's prompts in
// submission order.
func formWithPromptsJSON(f model.FeedbackForm, prompts []model.Prompt) echo.Map {
    ps := make([]echo.Map, 0, len(prompts))
    for _, p := range prompts {
        ps = append(ps, promptJSON(p))
    }
    m := formJSON(f)
    m["prompts"] = ps
    return m
}

func patternJSON(p model.PathPattern) echo.Map {
    return echo.Map{
        "id":            p.ID,
        "project":       p.ProjectID,
        "feedback_form": p.FeedbackFormID,
        "pattern":       p.Pattern,
        "is_wildcard":   p.IsWildcard,
    }
}

// promptJSON emits the concrete variant of a prompt.  The switch is
// exhaustive over the closed kind set.
func promptJSON(p model.Prompt) echo.Map {
    m := echo.Map{
        "id":            p.ID,
        "feedback_form": p.FeedbackFormID,
        "prompt_type":   p.Kind,
        "text":          p.Text,
        "order":         p.Order,
        "disabled_at":   p.DisabledAt,
    }
    switch p.Kind {
    case model.PromptKindText:
        maxLen := uint32(model.DefaultTextMaxLength)
        if p.TextDetail != nil {
            maxLen = p.TextDetail.MaxLength
        }
        m["max_length"] = maxLen
    case model.PromptKindBinary:
        if p.BinaryDetail != nil {
            m["positive_answer_label"] = p.BinaryDetail.PositiveAnswerLabel
            m["negative_answer_label"] = p.BinaryDetail.NegativeAnswerLabel
        }
    case model.PromptKindRanged:
        opts := make([]echo.Map, 0)
        if p.RangedDetail != nil {
            for _, o := range p.RangedDetail.Options {
                opts = append(opts, echo.Map{"id": o.ID, "label": o.Label, "value": o.Value})
            }
        }
        m["options"] = opts
    }
    return m
}

func responseJSON(r model.Response) echo.Map {
    var metadata interface{}
    if len(r.Metadata) > 0 {
        metadata = json.RawMessage(r.Metadata)
    }
    return echo.Map{
        "id":            r.ID,
        "feedback_form": r.FeedbackFormID,
        "url":           r.URL,
        "metadata":      metadata,
        "created_at":    r.CreatedAt,
    }
}

// promptResponseJSON emits the concrete variant of an answer: value is
// a string, a bool or the selected option's id depending on the kind.
func promptResponseJSON(pr model.PromptResponse) echo.Map {
    m := echo.Map{
        "id":          pr.ID,
        "response":    pr.ResponseID,
        "prompt":      pr.PromptID,
        "prompt_type": pr.Kind,
        "created_at":  pr.CreatedAt,
    }
    switch pr.Kind {
    case model.PromptResponseKindText:
        if pr.TextValue != nil {
            m["value"] = *pr.TextValue
        }
    case model.PromptResponseKindBinary:
        if pr.BoolValue != nil {
            m["value"] = *pr.BoolValue
        }
    case model.PromptResponseKindRanged:
        if pr.OptionID != nil {
            m["value"] = *pr.OptionID
        }
    }
    return m
}
