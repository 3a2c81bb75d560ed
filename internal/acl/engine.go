// Package acl evaluates whether a principal may act on a project
// through the public feedback API.  The policy is computed in Go over
// the principal's raw access grants so that role matching and expiry
// are evaluated at call time, never cached and never baked into SQL.
package acl

import (
    "context"
    "errors"
    "time"

    "github.com/talkform/talkform/internal/model"
)

// Principal is the authenticated caller of the public API, as resolved
// from its API key by the auth middleware.
type Principal struct {
    UserID      uint64
    IsSuperuser bool
}

// ErrSuperuserUnfiltered is returned by AccessibleProjects when called
// for a superuser.  Superusers must get an unfiltered view from the
// caller; asking for their accessible-project set would silently
// restrict it, so the engine refuses instead.
var ErrSuperuserUnfiltered = errors.New("acl: superusers have an unfiltered project view")

// AccessStore loads a grantee's API access rows.  The engine is the
// only consumer; the repository layer provides the production
// implementation.
type AccessStore interface {
    ListByGrantee(ctx context.Context, granteeID uint64) ([]model.ProjectAPIAccess, error)
}

// Engine answers the three access-control questions of the public API.
// It is stateless; every call re-reads the grants and re-evaluates
// expiry against the clock.
type Engine struct {
    store AccessStore
    now   func() time.Time
}

// NewEngine returns an Engine reading grants from store.  The clock
// defaults to time.Now in UTC.
func NewEngine(store AccessStore) *Engine {
    return &Engine{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// NewEngineAt is NewEngine with an explicit clock, used by tests.
func NewEngineAt(store AccessStore, now func() time.Time) *Engine {
    return &Engine{store: store, now: now}
}

// CanAccessProject reports whether the principal may act on the given
// project with one of the allowed roles: superusers always may, anyone
// else needs an active grant on that exact project.
func (e *Engine) CanAccessProject(ctx context.Context, p Principal, projectID uint64, roles ...model.APIRole) (bool, error) {
    if p.IsSuperuser {
        return true, nil
    }
    accesses, err := e.store.ListByGrantee(ctx, p.UserID)
    if err != nil {
        return false, err
    }
    now := e.now()
    for _, a := range accesses {
        if a.ProjectID == projectID && a.IsActive(now) && roleAllowed(a.Role, roles) {
            return true, nil
        }
    }
    return false, nil
}

// CanAccessAnyProject is CanAccessProject without a specific project,
// used by list endpoints before the result set is known.
func (e *Engine) CanAccessAnyProject(ctx context.Context, p Principal, roles ...model.APIRole) (bool, error) {
    if p.IsSuperuser {
        return true, nil
    }
    accesses, err := e.store.ListByGrantee(ctx, p.UserID)
    if err != nil {
        return false, err
    }
    now := e.now()
    for _, a := range accesses {
        if a.IsActive(now) && roleAllowed(a.Role, roles) {
            return true, nil
        }
    }
    return false, nil
}

// AccessibleProjects returns the distinct project ids the principal
// holds an active grant on with one of the allowed roles.  Calling it
// for a superuser is a programming error and yields
// ErrSuperuserUnfiltered.
func (e *Engine) AccessibleProjects(ctx context.Context, p Principal, roles ...model.APIRole) ([]uint64, error) {
    if p.IsSuperuser {
        return nil, ErrSuperuserUnfiltered
    }
    accesses, err := e.store.ListByGrantee(ctx, p.UserID)
    if err != nil {
        return nil, err
    }
    now := e.now()
    seen := make(map[uint64]struct{})
    var ids []uint64
    for _, a := range accesses {
        if !a.IsActive(now) || !roleAllowed(a.Role, roles) {
            continue
        }
        if _, ok := seen[a.ProjectID]; ok {
            continue
        }
        seen[a.ProjectID] = struct{}{}
        ids = append(ids, a.ProjectID)
    }
    return ids, nil
}

func roleAllowed(role model.APIRole, allowed []model.APIRole) bool {
    for _, r := range allowed {
        if r == role {
            return true
        }
    }
    return false
}
