// Package repository defines error types that are reused across multiple
// stores.  These sentinel values allow higher layers such as handlers to
// distinguish between different failure scenarios without inspecting
// storage-specific errors.
package repository

import "errors"

// ErrEmailExists is returned when a registration collides with an existing
// normalized email.  Handlers translate it into an HTTP 400 response.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a lookup misses.  Handlers translate it into
// an HTTP 404 (or 401 during login, where it is deliberately
// indistinguishable from a wrong password).
var ErrNotFound = errors.New("not found")

// ErrInvalidDateRange is returned when a trip update would leave the trip
// ending before it starts.  Handlers translate it into an HTTP 400.
var ErrInvalidDateRange = errors.New("trip ends before it starts")
