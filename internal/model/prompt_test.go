package model

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

// The kind mapping is a closed two-way table; both directions must be
// total over it and reject anything outside it.
func TestKindMappingIsClosedAndSymmetric(t *testing.T) {
    for _, k := range []PromptKind{PromptKindText, PromptKindBinary, PromptKindRanged} {
        rk, err := ResponseKindFor(k)
        require.NoError(t, err, "kind=%s", k)
        back, err := PromptKindFor(rk)
        require.NoError(t, err, "kind=%s", k)
        assert.Equal(t, k, back)
    }

    _, err := ResponseKindFor(PromptKind("slider"))
    assert.Error(t, err)
    _, err = PromptKindFor(PromptResponseKind(""))
    assert.Error(t, err)
}

func TestPromptOptionLookup(t *testing.T) {
    ranged := Prompt{
        Kind: PromptKindRanged,
        RangedDetail: &RangedPromptDetail{Options: []RangedPromptOption{
            {ID: 10, Label: "Bad", Value: 1},
            {ID: 11, Label: "Good", Value: 2},
        }},
    }

    opt, ok := ranged.Option(11)
    require.True(t, ok)
    assert.Equal(t, "Good", opt.Label)

    _, ok = ranged.Option(99)
    assert.False(t, ok)

    text := Prompt{Kind: PromptKindText, TextDetail: &TextPromptDetail{MaxLength: 1000}}
    _, ok = text.Option(10)
    assert.False(t, ok, "non-ranged prompts have no options")
}

func TestEnabled(t *testing.T) {
    p := Prompt{}
    assert.True(t, p.Enabled())
    f := FeedbackForm{}
    assert.True(t, f.Enabled())

    now := f.CreatedAt
    p.DisabledAt = &now
    f.DisabledAt = &now
    assert.False(t, p.Enabled())
    assert.False(t, f.Enabled())
}
