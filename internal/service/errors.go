package service

import "errors"

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")

	ErrMissingCredentials    = errors.New("missing credentials")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrTokenRevoked          = errors.New("token revoked")
	ErrMalformedTokenPayload = errors.New("malformed token payload")
	ErrDuplicateRegistration = errors.New("username or email already registered")
	ErrDuplicateTitle        = errors.New("blog title already exists")
)

// IsUnauthorized reports whether err belongs to the 401 family.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrTokenRevoked)
}
