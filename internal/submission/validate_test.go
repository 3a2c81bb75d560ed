package submission

import (
    "encoding/json"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/talkform/talkform/internal/model"
)

func textPrompt(id uint64, maxLen uint32) model.Prompt {
    return model.Prompt{
        ID: id, FeedbackFormID: 1, Kind: model.PromptKindText,
        TextDetail: &model.TextPromptDetail{MaxLength: maxLen},
    }
}

func TestBuildValueText(t *testing.T) {
    p := textPrompt(5, 10)

    pr, ferrs, err := BuildValue(p, json.RawMessage(`"short"`))
    require.NoError(t, err)
    require.Empty(t, ferrs)
    require.NotNil(t, pr.TextValue)
    assert.Equal(t, "short", *pr.TextValue)
    assert.Equal(t, model.PromptResponseKindText, pr.Kind)

    // Eleven characters against a limit of ten.
    _, ferrs, err = BuildValue(p, json.RawMessage(`"elevenchars"`))
    require.NoError(t, err)
    require.Len(t, ferrs, 1)
    assert.Equal(t, "value", ferrs[0].Field)
    assert.Contains(t, ferrs[0].Message, "maximum length of 10")
    assert.Contains(t, ferrs[0].Message, "id=5")

    // The limit counts characters, not bytes.
    _, ferrs, err = BuildValue(p, json.RawMessage(`"ääääääääää"`))
    require.NoError(t, err)
    assert.Empty(t, ferrs)

    // Non-string values are rejected, not coerced.
    _, ferrs, err = BuildValue(p, json.RawMessage(`42`))
    require.NoError(t, err)
    require.Len(t, ferrs, 1)
    assert.Contains(t, ferrs[0].Message, "must be a string")
}

func TestBuildValueBinary(t *testing.T) {
    p := model.Prompt{ID: 6, FeedbackFormID: 1, Kind: model.PromptKindBinary,
        BinaryDetail: &model.BinaryPromptDetail{PositiveAnswerLabel: "Yes", NegativeAnswerLabel: "No"}}

    pr, ferrs, err := BuildValue(p, json.RawMessage(`true`))
    require.NoError(t, err)
    require.Empty(t, ferrs)
    require.NotNil(t, pr.BoolValue)
    assert.True(t, *pr.BoolValue)

    for _, raw := range []string{`"true"`, `1`, `null`} {
        _, ferrs, err = BuildValue(p, json.RawMessage(raw))
        require.NoError(t, err)
        assert.Len(t, ferrs, 1, "raw=%s", raw)
    }
}

func TestBuildValueRanged(t *testing.T) {
    p := model.Prompt{ID: 7, FeedbackFormID: 1, Kind: model.PromptKindRanged,
        RangedDetail: &model.RangedPromptDetail{Options: []model.RangedPromptOption{
            {ID: 30, Label: "Poor", Value: 1},
            {ID: 31, Label: "Great", Value: 5},
        }}}

    pr, ferrs, err := BuildValue(p, json.RawMessage(`31`))
    require.NoError(t, err)
    require.Empty(t, ferrs)
    require.NotNil(t, pr.OptionID)
    assert.Equal(t, uint64(31), *pr.OptionID)
    assert.Equal(t, model.PromptResponseKindRanged, pr.Kind)

    _, ferrs, err = BuildValue(p, json.RawMessage(`99`))
    require.NoError(t, err)
    require.Len(t, ferrs, 1)
    assert.Contains(t, ferrs[0].Message, "not an option of prompt id=7")
}

func TestBuildValueUnknownKindIsInternal(t *testing.T) {
    _, _, err := BuildValue(model.Prompt{ID: 8, Kind: model.PromptKind("slider")}, json.RawMessage(`1`))
    assert.Error(t, err)
}

func TestCrossCheck(t *testing.T) {
    now := time.Now().UTC()
    p := textPrompt(5, 100)

    assert.Empty(t, CrossCheck(p, 1, 0, false))

    // Wrong form, disabled and duplicate are all reported together.
    disabled := p
    disabled.DisabledAt = &now
    errs := CrossCheck(disabled, 2, 77, true)
    require.Len(t, errs, 3)
    assert.Contains(t, errs[0].Message, "does not belong to feedback form id=2")
    assert.Contains(t, errs[1].Message, "disabled")
    assert.Contains(t, errs[2].Message, "already been answered for response id=77")
}

func TestFirstEnabledPrompt(t *testing.T) {
    now := time.Now().UTC()
    p1 := textPrompt(1, 100)
    p1.Order = 1
    p1.DisabledAt = &now // disabled prompts never count as first
    p2 := textPrompt(2, 100)
    p2.Order = 2
    p3 := textPrompt(3, 100)
    p3.Order = 3

    first, ok := FirstEnabledPrompt([]model.Prompt{p3, p1, p2})
    require.True(t, ok)
    assert.Equal(t, uint64(2), first.ID)

    _, ok = FirstEnabledPrompt([]model.Prompt{p1})
    assert.False(t, ok)
}

func TestCheckFirstPrompt(t *testing.T) {
    p1 := textPrompt(1, 100)
    p1.Order = 1
    p2 := textPrompt(2, 100)
    p2.Order = 2
    prompts := []model.Prompt{p1, p2}

    assert.Empty(t, CheckFirstPrompt(9, prompts, 1))

    errs := CheckFirstPrompt(9, prompts, 2)
    require.Len(t, errs, 1)
    assert.Equal(t, "first_prompt_response", errs[0].Field)
    assert.Contains(t, errs[0].Message, "not the first enabled prompt of feedback form id=9")
}

func TestFieldErrorsMap(t *testing.T) {
    errs := FieldErrors{
        {Field: "value", Message: "a"},
        {Field: "value", Message: "b"},
        {Field: "prompt", Message: "c"},
    }
    m := errs.Map()
    assert.Equal(t, []string{"a", "b"}, m["value"])
    assert.Equal(t, []string{"c"}, m["prompt"])
    assert.Nil(t, FieldErrors{}.Map())
}
