package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthorized indicates a shared-secret mismatch
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUpstream indicates a failure in the store, SMTP relay or a proxied HTTP service
	ErrUpstream = errors.New("upstream failure")
	// ErrMailNotConfigured indicates missing SMTP credentials
	ErrMailNotConfigured = errors.New("email credentials not set")
)
