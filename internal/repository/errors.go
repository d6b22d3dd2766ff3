// Package repository holds the data access layer for the intake
// service's administrative entities: master data, applicants,
// admission read views, documents and dashboard aggregates. The seat
// allocation and confirmation writes live in internal/allocation, not
// here; repositories in this package never mutate quotas.filled_seats
// or admissions.status.
//
// Sentinel errors shared across repositories let handlers distinguish
// failure scenarios with errors.Is and translate them into HTTP
// statuses.
package repository

import "errors"

// ErrNotFound is returned when a referenced record does not exist.
// Handlers translate this into a 404 response. Repositories with a
// more specific sentinel (e.g. ErrEmailExists) document it at the
// declaration site.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a write cannot proceed because of
// existing state, such as creating a quota that would push a
// program's seat total past its sanctioned intake. Handlers
// translate this into a 409 response.
var ErrConflict = errors.New("conflict")
