package services

import "errors"

// Sentinel errors returned by the services so handlers can map them to the
// right HTTP status without string matching. Anything else that comes out of
// a service is a storage failure.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
