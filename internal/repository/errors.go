// Package repository contains the data access layer for reservations.  This
// file defines sentinel errors shared across repository methods.  Handlers
// compare against them with errors.Is to pick the transport response, so no
// failure path collapses into an anonymous 500.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// reservation owned by someone else, such as cancelling another user's
// booking. Handlers translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a creation would overlap an existing
// non-rejected reservation for the same room and date. Handlers translate
// this into an HTTP 409 response together with the conflicting rows.
var ErrConflict = errors.New("conflict")

// ErrInvalidState is returned when a status transition is attempted from a
// terminal or otherwise ineligible source state, including the case where a
// concurrent transition won the race. The row is left untouched.
var ErrInvalidState = errors.New("invalid status transition")

// ErrReservationNotFound is returned when no reservation matches the
// requested identifier.
var ErrReservationNotFound = errors.New("reservation not found")
