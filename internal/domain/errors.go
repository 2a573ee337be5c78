// internal/domain/errors.go
package domain

import "errors"

// ErrUnauthorized is returned by the GitHub client when the API responds with HTTP 401.
// Callers can check for it using errors.Is to trigger re-authentication.
var ErrUnauthorized = errors.New("unauthorized")
