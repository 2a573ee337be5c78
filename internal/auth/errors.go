package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned by session operations attempted before a
	// token has been obtained. No network call is made in that case.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrAuthTimeout is returned when the browser callback does not arrive in time.
	ErrAuthTimeout = errors.New("authentication timeout")
	// ErrMissingCode is returned when the callback carries neither code nor error.
	ErrMissingCode = errors.New("missing authorization code")
	// ErrNoAccessToken is returned when the token endpoint answers without error and without a token.
	ErrNoAccessToken = errors.New("no access token received")
)

// ProviderError is an OAuth error reported by the token or device endpoint.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Code
}

// AuthorizationError is reported when the user or provider aborts the browser
// authorization and the callback carries an error parameter.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("authorization failed: %s", e.Reason)
}
