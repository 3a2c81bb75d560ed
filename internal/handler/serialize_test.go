package handler

import (
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/talkform/talkform/internal/model"
)

// Prompt bodies must carry the concrete variant's fields next to the
// prompt_type discriminant, and only those fields.
func TestPromptJSONVariantFields(t *testing.T) {
    text := model.Prompt{
        ID: 1, FeedbackFormID: 4, Kind: model.PromptKindText,
        Text: "Anything else?", Order: 2,
        TextDetail: &model.TextPromptDetail{MaxLength: 500},
    }
    m := promptJSON(text)
    assert.Equal(t, uint32(500), m["max_length"])
    assert.NotContains(t, m, "options")
    assert.NotContains(t, m, "positive_answer_label")

    binary := model.Prompt{
        ID: 2, FeedbackFormID: 4, Kind: model.PromptKindBinary,
        Text: "Was this page helpful?", Order: 1,
        BinaryDetail: &model.BinaryPromptDetail{
            PositiveAnswerLabel: "Yes",
            NegativeAnswerLabel: "No",
        },
    }
    m = promptJSON(binary)
    assert.Equal(t, "Yes", m["positive_answer_label"])
    assert.Equal(t, "No", m["negative_answer_label"])
    assert.NotContains(t, m, "max_length")

    ranged := model.Prompt{
        ID: 3, FeedbackFormID: 4, Kind: model.PromptKindRanged,
        Text: "How would you rate this page?", Order: 3,
        RangedDetail: &model.RangedPromptDetail{Options: []model.RangedPromptOption{
            {ID: 30, PromptID: 3, Label: "Bad", Value: 1},
            {ID: 31, PromptID: 3, Label: "Good", Value: 2},
        }},
    }
    m = promptJSON(ranged)
    opts, ok := m["options"].([]echo.Map)
    require.True(t, ok)
    require.Len(t, opts, 2)
    assert.Equal(t, uint64(30), opts[0]["id"])
    assert.Equal(t, "Bad", opts[0]["label"])
    assert.NotContains(t, m, "max_length")
}

// A text prompt loaded without its detail row still reports the
// default answer length limit.
func TestPromptJSONTextDefaultMaxLength(t *testing.T) {
    p := model.Prompt{ID: 1, Kind: model.PromptKindText, Text: "Comments?"}
    m := promptJSON(p)
    assert.Equal(t, uint32(model.DefaultTextMaxLength), m["max_length"])
}

// The value of a ranged answer is the selected option's id, not its
// label or numeric value.
func TestPromptResponseJSONValueByKind(t *testing.T) {
    s := "Loved it"
    m := promptResponseJSON(model.PromptResponse{
        ID: 1, ResponseID: 7, PromptID: 1,
        Kind: model.PromptResponseKindText, TextValue: &s,
    })
    assert.Equal(t, "Loved it", m["value"])

    b := true
    m = promptResponseJSON(model.PromptResponse{
        ID: 2, ResponseID: 7, PromptID: 2,
        Kind: model.PromptResponseKindBinary, BoolValue: &b,
    })
    assert.Equal(t, true, m["value"])

    opt := uint64(31)
    m = promptResponseJSON(model.PromptResponse{
        ID: 3, ResponseID: 7, PromptID: 3,
        Kind: model.PromptResponseKindRanged, OptionID: &opt,
    })
    assert.Equal(t, uint64(31), m["value"])
}

// Empty response metadata serializes as null rather than "".
func TestResponseJSONMetadata(t *testing.T) {
    m := responseJSON(model.Response{ID: 1, FeedbackFormID: 4, URL: "https://acme.dev/pricing/"})
    assert.Nil(t, m["metadata"])

    withMeta := model.Response{
        ID: 2, FeedbackFormID: 4,
        URL:      "https://acme.dev/pricing/",
        Metadata: []byte(`{"ua":"firefox"}`),
    }
    m = responseJSON(withMeta)
    assert.NotNil(t, m["metadata"])
}
