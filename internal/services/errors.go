package services

import "errors"

// Sentinel errors produced by the service layer. The HTTP layer maps them
// to status codes in exactly one place; services never write responses.
var (
	// ErrInvalidInput marks malformed or incomplete request data.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registering or updating to an email
	// that another account already uses.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserNotFound is returned when a user lookup matches nothing.
	ErrUserNotFound = errors.New("user not found")

	// ErrListingNotFound is returned when a listing lookup matches nothing.
	ErrListingNotFound = errors.New("listing not found")

	// ErrForbidden is returned when an authenticated caller is not the
	// owner of the resource being mutated.
	ErrForbidden = errors.New("not allowed to modify this resource")
)
