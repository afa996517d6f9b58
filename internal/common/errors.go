// Package common holds the sentinel errors shared by the storage, service and
// HTTP layers. Callers match them with errors.Is.
package common

import "errors"

var (
	// storage
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")

	// authentication
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")

	// startup
	ErrConfiguration = errors.New("invalid configuration")
)
