package handler

import (
    "database/sql"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/talkform/talkform/internal/model"
    "github.com/talkform/talkform/internal/repository"
)

type promptOptionReq struct {
    Label string `json:"label"`
    Value int32  `json:"value"`
}

type createPromptReq struct {
    PromptType model.PromptKind `json:"prompt_type"`
    Text       string           `json:"text"`

    // text kind
    MaxLength *uint32 `json:"max_length"`
    // binary kind
    PositiveAnswerLabel string `json:"positive_answer_label"`
    NegativeAnswerLabel string `json:"negative_answer_label"`
    // ranged kind
    Options []promptOptionReq `json:"options"`
}

type updatePromptReq struct {
    Text                string  `json:"text"`
    MaxLength           *uint32 `json:"max_length"`
    PositiveAnswerLabel string  `json:"positive_answer_label"`
    NegativeAnswerLabel string  `json:"negative_answer_label"`
}

// CreatePrompt adds a prompt of one of the three kinds to the form.
// The repository runs the per-form critical section that enforces the
// enabled-prompt ceiling and assigns the next order.
func (h *EditorHandler) CreatePrompt(c echo.Context) error {
    formID, _, ok := h.formProject(c, c.Param("id"), model.MembershipRoleOwner, model.MembershipRoleEditor)
    if !ok {
        return nil
    }
    var req createPromptReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    fields := map[string][]string{}
    if !model.ValidPromptKind(req.PromptType) {
        fields["prompt_type"] = append(fields["prompt_type"],
            "Prompt type must be text, binary or ranged.")
    }
    if strings.TrimSpace(req.Text) == "" {
        fields["text"] = append(fields["text"], "Text is required.")
    }
    if req.PromptType == model.PromptKindRanged {
        fields = mergeFields(fields, validateOptions(req.Options))
    }
    if len(fields) > 0 {
        return validationFailed(c, fields)
    }

    p := model.Prompt{
        FeedbackFormID: formID,
        Kind:           req.PromptType,
        Text:           strings.TrimSpace(req.Text),
    }
    switch req.PromptType {
    case model.PromptKindText:
        maxLen := uint32(model.DefaultTextMaxLength)
        if req.MaxLength != nil && *req.MaxLength > 0 {
            maxLen = *req.MaxLength
        }
        p.TextDetail = &model.TextPromptDetail{MaxLength: maxLen}
    case model.PromptKindBinary:
        p.BinaryDetail = &model.BinaryPromptDetail{
            PositiveAnswerLabel: strings.TrimSpace(req.PositiveAnswerLabel),
            NegativeAnswerLabel: strings.TrimSpace(req.NegativeAnswerLabel),
        }
    case model.PromptKindRanged:
        detail := &model.RangedPromptDetail{}
        for _, o := range req.Options {
            detail.Options = append(detail.Options, model.RangedPromptOption{
                Label: strings.TrimSpace(o.Label),
                Value: o.Value,
            })
        }
        p.RangedDetail = detail
    }

    if err := h.Prompts.Create(c.Request().Context(), &p); err != nil {
        switch err {
        case repository.ErrPromptLimit:
            return validationFailed(c, map[string][]string{
                "prompt_type": {"A feedback form cannot have more than 3 enabled prompts."},
            })
        case repository.ErrDuplicateOption:
            return validationFailed(c, map[string][]string{
                "options": {"Option labels and values must be unique per prompt."},
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create prompt failed"})
    }
    return c.JSON(http.StatusCreated, promptJSON(p))
}

// ListPrompts returns every prompt of the form, disabled ones included,
// ordered by display order.
func (h *EditorHandler) ListPrompts(c echo.Context) error {
    formID, _, ok := h.formProject(c, c.Param("id"),
        model.MembershipRoleOwner, model.MembershipRoleEditor)
    if !ok {
        return nil
    }
    prompts, err := h.Prompts.ListByForm(c.Request().Context(), formID, false)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list prompts failed"})
    }
    out := make([]echo.Map, 0, len(prompts))
    for _, p := range prompts {
        out = append(out, promptJSON(p))
    }
    return c.JSON(http.StatusOK, echo.Map{"prompts": out})
}

// UpdatePrompt changes a prompt's text and its kind-specific settings.
// The prompt's kind itself is fixed at creation.
func (h *EditorHandler) UpdatePrompt(c echo.Context) error {
    prompt, ok := h.promptAccess(c)
    if !ok {
        return nil
    }
    var req updatePromptReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    text := strings.TrimSpace(req.Text)
    if text == "" {
        return validationFailed(c, map[string][]string{"text": {"Text is required."}})
    }

    ctx := c.Request().Context()
    switch prompt.Kind {
    case model.PromptKindText:
        var maxLen *uint32
        if req.MaxLength != nil && *req.MaxLength > 0 {
            maxLen = req.MaxLength
        }
        if err := h.Prompts.UpdateText(ctx, prompt.ID, text, maxLen); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update prompt failed"})
        }
    case model.PromptKindBinary:
        if err := h.Prompts.UpdateText(ctx, prompt.ID, text, nil); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update prompt failed"})
        }
        pos := strings.TrimSpace(req.PositiveAnswerLabel)
        neg := strings.TrimSpace(req.NegativeAnswerLabel)
        if pos != "" || neg != "" {
            if pos == "" && prompt.BinaryDetail != nil {
                pos = prompt.BinaryDetail.PositiveAnswerLabel
            }
            if neg == "" && prompt.BinaryDetail != nil {
                neg = prompt.BinaryDetail.NegativeAnswerLabel
            }
            if err := h.Prompts.UpdateBinaryLabels(ctx, prompt.ID, pos, neg); err != nil {
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update prompt failed"})
            }
        }
    case model.PromptKindRanged:
        if err := h.Prompts.UpdateText(ctx, prompt.ID, text, nil); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update prompt failed"})
        }
    }

    updated, err := h.Prompts.GetByID(ctx, prompt.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load prompt failed"})
    }
    return c.JSON(http.StatusOK, promptJSON(updated))
}

// DisablePrompt takes a prompt out of the enabled set.
func (h *EditorHandler) DisablePrompt(c echo.Context) error {
    return h.setPromptDisabled(c, true)
}

// EnablePrompt re-enables a prompt, re-checking the enabled ceiling
// under the form's critical section.
func (h *EditorHandler) EnablePrompt(c echo.Context) error {
    return h.setPromptDisabled(c, false)
}

func (h *EditorHandler) setPromptDisabled(c echo.Context, disabled bool) error {
    prompt, ok := h.promptAccess(c)
    if !ok {
        return nil
    }
    uid, _ := getUserID(c)
    ctx := c.Request().Context()
    if err := h.Prompts.SetDisabled(ctx, prompt.ID, disabled, uid); err != nil {
        if err == repository.ErrPromptLimit {
            return validationFailed(c, map[string][]string{
                "prompt": {"A feedback form cannot have more than 3 enabled prompts."},
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update prompt failed"})
    }
    updated, err := h.Prompts.GetByID(ctx, prompt.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load prompt failed"})
    }
    return c.JSON(http.StatusOK, promptJSON(updated))
}

// AddPromptOption appends an option to a ranged prompt.
func (h *EditorHandler) AddPromptOption(c echo.Context) error {
    prompt, ok := h.promptAccess(c)
    if !ok {
        return nil
    }
    var req promptOptionReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    label := strings.TrimSpace(req.Label)
    if label == "" {
        return validationFailed(c, map[string][]string{"label": {"Label is required."}})
    }

    o := model.RangedPromptOption{PromptID: prompt.ID, Label: label, Value: req.Value}
    if err := h.Prompts.AddOption(c.Request().Context(), &o); err != nil {
        switch err {
        case repository.ErrConflict:
            return validationFailed(c, map[string][]string{
                "prompt": {"Options can only be added to ranged prompts."},
            })
        case repository.ErrDuplicateOption:
            return validationFailed(c, map[string][]string{
                "label": {"Option labels and values must be unique per prompt."},
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add option failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": o.ID, "label": o.Label, "value": o.Value})
}

// promptAccess resolves a prompt from :id and checks membership on its
// form's project.  The resolved prompt is returned so the caller works
// with the same row the check saw.
func (h *EditorHandler) promptAccess(c echo.Context) (model.Prompt, bool) {
    promptID, ok := parseID(c.Param("id"))
    if !ok {
        _ = notFoundID(c, "Prompt", c.Param("id"))
        return model.Prompt{}, false
    }
    ctx := c.Request().Context()
    prompt, err := h.Prompts.GetByID(ctx, promptID)
    if err == sql.ErrNoRows {
        _ = notFoundID(c, "Prompt", c.Param("id"))
        return model.Prompt{}, false
    }
    if err != nil {
        _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "load prompt failed"})
        return model.Prompt{}, false
    }
    form, err := h.Forms.GetByID(ctx, prompt.FeedbackFormID)
    if err != nil {
        _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "load form failed"})
        return model.Prompt{}, false
    }
    if _, ok := h.requireMembership(c, form.ProjectID, model.MembershipRoleOwner, model.MembershipRoleEditor); !ok {
        return model.Prompt{}, false
    }
    return prompt, true
}

// validateOptions checks the inline option set of a new ranged prompt:
// at least one option, labels present, labels and values unique.
func validateOptions(options []promptOptionReq) map[string][]string {
    fields := map[string][]string{}
    if len(options) == 0 {
        fields["options"] = append(fields["options"],
            "A ranged prompt needs at least one option.")
        return fields
    }
    labels := make(map[string]struct{}, len(options))
    values := make(map[int32]struct{}, len(options))
    for _, o := range options {
        label := strings.TrimSpace(o.Label)
        if label == "" {
            fields["options"] = append(fields["options"], "Option labels are required.")
            continue
        }
        if _, dup := labels[label]; dup {
            fields["options"] = append(fields["options"],
                "Option labels must be unique per prompt.")
        }
        labels[label] = struct{}{}
        if _, dup := values[o.Value]; dup {
            fields["options"] = append(fields["options"],
                "Option values must be unique per prompt.")
        }
        values[o.Value] = struct{}{}
    }
    if len(fields) == 0 {
        return map[string][]string{}
    }
    return fields
}

func mergeFields(dst, src map[string][]string) map[string][]string {
    for k, v := range src {
        dst[k] = append(dst[k], v...)
    }
    return dst
}
