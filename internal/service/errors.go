package service

import "errors"

// Domain errors surfaced to callers verbatim as result messages.
var (
	ErrAuthentication     = errors.New("Authentication error")
	ErrNotOwner           = errors.New("unauthorized user not an owner")
	ErrInvalidCredentials = errors.New("unAuthorized User")
	ErrPostNotFound       = errors.New("post not found")
)
