package model

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

// An access must flip from active to inactive purely by re-evaluating
// IsActive at a later instant; nothing is written at expiry time.
func TestAPIAccessIsActiveStraddlesExpiry(t *testing.T) {
    expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
    access := ProjectAPIAccess{ExpiresAt: expiry}

    assert.True(t, access.IsActive(expiry.Add(-time.Second)))
    assert.True(t, access.IsActive(expiry), "expiring exactly now is still active")
    assert.False(t, access.IsActive(expiry.Add(time.Second)))
}

func TestExpiryFor(t *testing.T) {
    created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
    assert.Equal(t, created.AddDate(0, 0, 30), ExpiryFor(created, 30))
    assert.Equal(t, created.AddDate(0, 0, 180), ExpiryFor(created, 180))
}

func TestValidAccessLifespan(t *testing.T) {
    for _, days := range []uint32{30, 60, 90, 180} {
        assert.True(t, ValidAccessLifespan(days), "days=%d", days)
    }
    assert.False(t, ValidAccessLifespan(0))
    assert.False(t, ValidAccessLifespan(7))
}

func TestValidAPIRole(t *testing.T) {
    assert.True(t, ValidAPIRole(APIRoleSubmit))
    assert.True(t, ValidAPIRole(APIRoleExplore))
    assert.False(t, ValidAPIRole("owner"))
    assert.False(t, ValidAPIRole(""))
}
