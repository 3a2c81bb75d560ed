package acl

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/talkform/talkform/internal/model"
)

type fakeStore struct {
    accesses []model.ProjectAPIAccess
}

func (s *fakeStore) ListByGrantee(_ context.Context, granteeID uint64) ([]model.ProjectAPIAccess, error) {
    var out []model.ProjectAPIAccess
    for _, a := range s.accesses {
        if a.GranteeID == granteeID {
            out = append(out, a)
        }
    }
    return out, nil
}

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func engineWith(accesses ...model.ProjectAPIAccess) *Engine {
    return NewEngineAt(&fakeStore{accesses: accesses}, func() time.Time { return testNow })
}

func grant(grantee, project uint64, role model.APIRole, expires time.Time) model.ProjectAPIAccess {
    return model.ProjectAPIAccess{GranteeID: grantee, ProjectID: project, Role: role, ExpiresAt: expires}
}

func TestCanAccessProject(t *testing.T) {
    e := engineWith(
        grant(7, 1, model.APIRoleSubmit, testNow.Add(time.Hour)),
        grant(7, 2, model.APIRoleExplore, testNow.Add(-time.Hour)), // expired
        grant(8, 3, model.APIRoleExplore, testNow.Add(time.Hour)),  // other grantee
    )
    ctx := context.Background()
    caller := Principal{UserID: 7}

    ok, err := e.CanAccessProject(ctx, caller, 1, model.APIRoleSubmit)
    require.NoError(t, err)
    assert.True(t, ok)

    // Role not in the allowed set.
    ok, err = e.CanAccessProject(ctx, caller, 1, model.APIRoleExplore)
    require.NoError(t, err)
    assert.False(t, ok)

    // Matching role but the grant has expired.
    ok, err = e.CanAccessProject(ctx, caller, 2, model.APIRoleExplore)
    require.NoError(t, err)
    assert.False(t, ok)

    // Grant belongs to someone else.
    ok, err = e.CanAccessProject(ctx, caller, 3, model.APIRoleExplore)
    require.NoError(t, err)
    assert.False(t, ok)

    // Superusers pass without any grant at all.
    ok, err = e.CanAccessProject(ctx, Principal{UserID: 99, IsSuperuser: true}, 3, model.APIRoleExplore)
    require.NoError(t, err)
    assert.True(t, ok)
}

func TestCanAccessProjectMultipleAllowedRoles(t *testing.T) {
    e := engineWith(grant(7, 1, model.APIRoleExplore, testNow.Add(time.Hour)))

    ok, err := e.CanAccessAnyProject(context.Background(), Principal{UserID: 7},
        model.APIRoleSubmit, model.APIRoleExplore)
    require.NoError(t, err)
    assert.True(t, ok)
}

func TestCanAccessAnyProject(t *testing.T) {
    e := engineWith(
        grant(7, 1, model.APIRoleSubmit, testNow.Add(-time.Minute)), // expired
    )
    ctx := context.Background()

    ok, err := e.CanAccessAnyProject(ctx, Principal{UserID: 7}, model.APIRoleSubmit)
    require.NoError(t, err)
    assert.False(t, ok, "only an expired grant exists")

    ok, err = e.CanAccessAnyProject(ctx, Principal{UserID: 7, IsSuperuser: true}, model.APIRoleSubmit)
    require.NoError(t, err)
    assert.True(t, ok)
}

func TestAccessibleProjects(t *testing.T) {
    e := engineWith(
        grant(7, 1, model.APIRoleExplore, testNow.Add(time.Hour)),
        grant(7, 1, model.APIRoleSubmit, testNow.Add(time.Hour)),  // same project, other role
        grant(7, 2, model.APIRoleExplore, testNow.Add(-time.Hour)), // expired
        grant(7, 3, model.APIRoleSubmit, testNow.Add(time.Hour)),  // role not requested
        grant(7, 4, model.APIRoleExplore, testNow),                 // expires exactly now: active
    )

    ids, err := e.AccessibleProjects(context.Background(), Principal{UserID: 7}, model.APIRoleExplore)
    require.NoError(t, err)
    assert.ElementsMatch(t, []uint64{1, 4}, ids)
}

func TestAccessibleProjectsRefusesSuperuser(t *testing.T) {
    e := engineWith()
    _, err := e.AccessibleProjects(context.Background(), Principal{UserID: 1, IsSuperuser: true}, model.APIRoleExplore)
    assert.ErrorIs(t, err, ErrSuperuserUnfiltered)
}
