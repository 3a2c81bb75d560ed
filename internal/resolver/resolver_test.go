package resolver

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/talkform/talkform/internal/model"
)

const (
    formA uint64 = 1
    formB uint64 = 2
)

// Pattern fixture from two forms of the same project:
// form A owns the wildcard "/foo/" and the exact "/foo/zim/",
// form B owns the exact "/foo/bar/" and the wildcard "/foo/zim/".
func fixture() []model.PathPattern {
    return []model.PathPattern{
        {ID: 1, FeedbackFormID: formA, Pattern: "/foo/", IsWildcard: true},
        {ID: 2, FeedbackFormID: formA, Pattern: "/foo/zim/", IsWildcard: false},
        {ID: 3, FeedbackFormID: formB, Pattern: "/foo/bar/", IsWildcard: false},
        {ID: 4, FeedbackFormID: formB, Pattern: "/foo/zim/", IsWildcard: true},
    }
}

func TestExactBeatsWildcard(t *testing.T) {
    // Both A's exact and B's wildcard match "/foo/zim/"; exact wins.
    id, ok := BestMatch(fixture(), "/foo/zim/")
    require.True(t, ok)
    assert.Equal(t, formA, id)
}

func TestLongestWildcardWins(t *testing.T) {
    // Only wildcards match "/foo/zim/gir": A's "/foo/" and B's
    // "/foo/zim/".  The more specific prefix wins.
    id, ok := BestMatch(fixture(), "/foo/zim/gir")
    require.True(t, ok)
    assert.Equal(t, formB, id)
}

func TestMissingTrailingSlashStillResolves(t *testing.T) {
    // "/foo/zim" is normalized to "/foo/zim/" before matching, so A's
    // exact pattern still applies and still outranks B's wildcard.
    id, ok := BestMatch(fixture(), "/foo/zim")
    require.True(t, ok)
    assert.Equal(t, formA, id)

    // Same normalization lets a bare "/foo" reach the wildcard "/foo/".
    id, ok = BestMatch(fixture(), "/foo")
    require.True(t, ok)
    assert.Equal(t, formA, id)
}

func TestWildcardIsCaseInsensitiveExactIsNot(t *testing.T) {
    patterns := []model.PathPattern{
        {FeedbackFormID: formA, Pattern: "/Docs/", IsWildcard: false},
        {FeedbackFormID: formB, Pattern: "/docs/", IsWildcard: true},
    }

    // Case mismatch rules the exact pattern out but not the wildcard.
    id, ok := BestMatch(patterns, "/DOCS/")
    require.True(t, ok)
    assert.Equal(t, formB, id)

    // Verbatim case hits the exact pattern, which then outranks.
    id, ok = BestMatch(patterns, "/Docs/")
    require.True(t, ok)
    assert.Equal(t, formA, id)
}

func TestNoMatch(t *testing.T) {
    _, ok := BestMatch(fixture(), "/bar/")
    assert.False(t, ok)

    _, ok = BestMatch(nil, "/foo/")
    assert.False(t, ok, "empty pattern set never resolves")
}

func TestEqualLengthWildcardTieIsDeterministic(t *testing.T) {
    // Two equal-length wildcards from different forms should not occur
    // in valid data, but resolution stays deterministic if they do.
    patterns := []model.PathPattern{
        {FeedbackFormID: formB, Pattern: "/aaa/", IsWildcard: true},
        {FeedbackFormID: formA, Pattern: "/aAa/", IsWildcard: true},
    }
    for i := 0; i < 10; i++ {
        id, ok := BestMatch(patterns, "/aaa/x")
        require.True(t, ok)
        assert.Equal(t, formA, id)
    }
}

func TestNormalizePath(t *testing.T) {
    assert.Equal(t, "/foo/", NormalizePath("/foo"))
    assert.Equal(t, "/foo/", NormalizePath("/foo/"))
    assert.Equal(t, "/", NormalizePath("/"))
}
