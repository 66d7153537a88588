package service

import "errors"

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	// ErrNotFound means the requested period or resource has no data file.
	ErrNotFound = errors.New("not found")
	// ErrBadRequest means the request carried a malformed or missing parameter.
	ErrBadRequest = errors.New("bad request")
)
