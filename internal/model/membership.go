package model

import "time"

// Membership roles used by the editor UI.  These are distinct from the
// API roles on ProjectAPIAccess: memberships gate who may configure a
// project, API accesses gate who may call the public feedback API.
const (
    MembershipRoleOwner  = "owner"
    MembershipRoleEditor = "editor"
)

// ValidMembershipRole reports whether role names a known membership role.
func ValidMembershipRole(role string) bool {
    return role == MembershipRoleOwner || role == MembershipRoleEditor
}

// ProjectMembership links a user to a project with an editor-UI role.
// A user holds at most one membership per project, and every project
// must keep at least one owner membership at all times (enforced when
// memberships are removed).
//
// Fields:
//  ID        – primary key identifier.
//  ProjectID – project the membership belongs to.
//  UserID    – member user.
//  Role      – "owner" or "editor".
//  CreatedAt – creation timestamp.
type ProjectMembership struct {
    ID        uint64    // project_memberships.id
    ProjectID uint64    // project_memberships.project_id
    UserID    uint64    // project_memberships.user_id
    Role      string    // project_memberships.role
    CreatedAt time.Time // project_memberships.created_at
}
