// Package common defines sentinel errors shared by the repository, service
// and HTTP layers. Callers match them with errors.Is.
package common

import "errors"

var (
	// ErrValidation marks a malformed or incomplete request payload.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")

	// Account errors.
	ErrDuplicateAccount   = errors.New("user already exists")
	ErrAccountNotFound    = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUpstream wraps any failure of the remote store or identity service.
	ErrUpstream = errors.New("upstream service error")
)
