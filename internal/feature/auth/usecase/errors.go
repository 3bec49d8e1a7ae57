// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrOwnerNotFound is returned when no owner record has been created yet.
	ErrOwnerNotFound = errors.New("owner not found")

	// ErrInvalidCredentials is returned when the user name or password does not match.
	ErrInvalidCredentials = errors.New("invalid user name or password")

	// ErrAuthRequired is returned when a request carries no valid session.
	ErrAuthRequired = errors.New("authentication required")

	// ErrInvalidOwner is returned when owner fields break the length limits of the login form.
	ErrInvalidOwner = errors.New("invalid owner")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")
)
