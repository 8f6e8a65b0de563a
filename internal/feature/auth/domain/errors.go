// Package domain defines domain-level errors for the auth feature.
package domain

import "errors"

// Domain errors for authentication and registration.
// Handlers map them to HTTP statuses; storage details never reach clients.
var (
	// ErrDuplicateEmail indicates that a user with the given email already exists,
	// whether caught by the pre-check or by the storage unique index.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrUserNotFound indicates that no user was found with the given criteria.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials indicates that the email or password is incorrect.
	// Unknown emails and wrong passwords are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrStorageUnavailable wraps infrastructure failures outside a transaction.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrRegistrationFailed wraps any failure inside the compound registration
	// transaction. The cause stays reachable through errors.Is / errors.As.
	ErrRegistrationFailed = errors.New("registration failed")
)
