// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by someone
// else, while the duplicate errors surface unique-constraint conflicts
// (same pattern, same option label, same answered prompt) as precise
// validation failures instead of opaque database errors.
package repository

import (
    "errors"
    "strings"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as removing the last
// owner membership of a project or deleting a prompt that recorded
// answers reference. Handlers should translate this into an HTTP 409
// response.
var ErrConflict = errors.New("conflict")

// ErrDomainExists is returned when a project's normalized domain is
// already taken by another project.
var ErrDomainExists = errors.New("project domain already exists")

// ErrDuplicatePattern is returned when a (project, pattern, wildcard)
// triple already exists.
var ErrDuplicatePattern = errors.New("path pattern already exists")

// ErrDuplicateOption is returned when a ranged prompt option with the
// same label or value already exists on the prompt.
var ErrDuplicateOption = errors.New("ranged prompt option already exists")

// ErrDuplicateAnswer is returned when a (response, prompt) pair has
// already been answered.
var ErrDuplicateAnswer = errors.New("prompt already answered for this response")

// ErrDuplicateMembership is returned when the user already holds a
// membership on the project.
var ErrDuplicateMembership = errors.New("membership already exists")

// ErrPromptLimit is returned when creating or enabling a prompt would
// exceed the enabled-prompt ceiling of its feedback form.
var ErrPromptLimit = errors.New("enabled prompt limit reached")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error 1062).
func isDuplicateKey(err error) bool {
    return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
