// Package repository defines the account repository and error values
// shared with the handlers.  ErrForbidden indicates that the caller may not
// act on a resource held by someone else, while ErrConflict signals that an
// operation clashes with existing state (e.g. a duplicate email).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not hold.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a create or update clashes with existing
// state.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrUserNotFound is returned when an account lookup fails.
var ErrUserNotFound = errors.New("user not found")
