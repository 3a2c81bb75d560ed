// Package resolver implements path-pattern resolution: mapping an
// inbound URL path to the single most specific enabled feedback form of
// a project.  The ranking itself is pure so it can be tested without a
// database; the repository layer supplies the candidate pattern set.
package resolver

import (
    "sort"
    "strings"

    "github.com/talkform/talkform/internal/model"
)

// NormalizePath prepares an inbound path for matching.  Paths arrive
// with a leading slash but not necessarily a trailing one, while editors
// store patterns with trailing slashes; appending the missing slash lets
// "/foo" reach a form configured for "/foo/".
func NormalizePath(path string) string {
    if !strings.HasSuffix(path, "/") {
        return path + "/"
    }
    return path
}

// Matches reports whether the pattern applies to the normalized path.
// Exact patterns must equal the path verbatim, case and trailing slash
// included.  Wildcard patterns are case-insensitive prefixes.
func Matches(p model.PathPattern, path string) bool {
    if p.IsWildcard {
        return strings.HasPrefix(strings.ToLower(path), strings.ToLower(p.Pattern))
    }
    return p.Pattern == path
}

// BestMatch normalizes the path, ranks the candidate patterns against
// it and returns the feedback form id of the top match.  Exact matches
// beat wildcard matches; among wildcards the longest pattern wins.
// Valid data cannot produce true ties (patterns are unique per project
// and exact/wildcard duplicates are rejected), but equal-length
// wildcards from different forms are still resolved deterministically
// by lowest form id.  The boolean result is false when nothing matches.
func BestMatch(patterns []model.PathPattern, path string) (uint64, bool) {
    path = NormalizePath(path)
    matched := make([]model.PathPattern, 0, len(patterns))
    for _, p := range patterns {
        if Matches(p, path) {
            matched = append(matched, p)
        }
    }
    if len(matched) == 0 {
        return 0, false
    }
    sort.Slice(matched, func(i, j int) bool {
        a, b := matched[i], matched[j]
        if a.IsWildcard != b.IsWildcard {
            return !a.IsWildcard // exact first
        }
        if len(a.Pattern) != len(b.Pattern) {
            return len(a.Pattern) > len(b.Pattern) // longer prefix first
        }
        return a.FeedbackFormID < b.FeedbackFormID
    })
    return matched[0].FeedbackFormID, true
}
