package auth

import "errors"

var (
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingToken is returned when the request carries no credentials.
	ErrMissingToken = errors.New("missing token")
)
