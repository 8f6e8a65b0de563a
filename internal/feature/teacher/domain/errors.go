// Package domain defines domain-level errors for the teacher feature.
package domain

import "errors"

var (
	// ErrTeacherNotFound indicates that no teacher exists with the given ID.
	ErrTeacherNotFound = errors.New("teacher not found")

	// ErrNoChanges is returned by an update that carries no field.
	ErrNoChanges = errors.New("no data provided for update")
)
