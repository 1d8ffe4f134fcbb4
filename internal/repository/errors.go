// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.  For
// example, ErrForbidden indicates that the current user is not authorized
// to operate on a resource owned by someone else.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrAuctionNotFound is returned when no auction exists for the given ID.
var ErrAuctionNotFound = errors.New("auction not found")

// ErrInvalidTransition is returned when a status change would violate
// the one-directional auction lifecycle.
var ErrInvalidTransition = errors.New("invalid status transition")
