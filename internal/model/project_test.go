package model

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestNormalizeDomain(t *testing.T) {
    cases := []struct {
        name string
        in   string
        want string
    }{
        {"already normalized", "example.com", "example.com"},
        {"uppercase", "Example.COM", "example.com"},
        {"https scheme", "https://example.com", "example.com"},
        {"http scheme", "http://example.com", "example.com"},
        {"www prefix", "www.example.com", "example.com"},
        {"scheme then www", "https://www.example.com", "example.com"},
        {"trailing slash", "example.com/", "example.com"},
        {"everything at once", "https://www.Example.com/", "example.com"},
        {"multiple trailing slashes", "example.com//", "example.com"},
        {"subdomain survives", "https://feedback.example.com/", "feedback.example.com"},
        {"surrounding whitespace", "  example.com ", "example.com"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, NormalizeDomain(tc.in))
        })
    }
}

func TestValidRetentionPeriod(t *testing.T) {
    for _, days := range []uint32{30, 60, 90, 180} {
        assert.True(t, ValidRetentionPeriod(days), "days=%d", days)
    }
    for _, days := range []uint32{0, 1, 45, 365} {
        assert.False(t, ValidRetentionPeriod(days), "days=%d", days)
    }
}
