package auth

import "errors"

var (
	ErrMissingToken = errors.New("access token not found")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")

	// ErrUnauthorized wraps every token failure seen by the resolver so
	// callers can test for one category while logs keep the cause.
	ErrUnauthorized = errors.New("could not validate credentials")
	ErrForbidden    = errors.New("you are not authorized to perform this action")
	ErrNotFound     = errors.New("user not found")
)
