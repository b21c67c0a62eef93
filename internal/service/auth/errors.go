package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates neither a bearer token nor an API key was provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidRefreshToken indicates the refresh token is malformed or badly signed
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrExpiredRefreshToken indicates the refresh token has expired
	ErrExpiredRefreshToken = errors.New("refresh token has expired")

	// ErrWrongTokenType indicates an access token was used as refresh token or vice versa
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrInvalidAPIKey indicates the X-API-Key header does not match the configured key
	ErrInvalidAPIKey = errors.New("invalid API key")

	// ErrInvalidCredentials indicates an unknown e-mail or a wrong password.
	// Both cases share one error so callers cannot probe for accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInactiveAccount indicates the user or its role is soft-deleted
	ErrInactiveAccount = errors.New("account is inactive")

	// ErrForbidden indicates the principal lacks a required permission bit
	ErrForbidden = errors.New("permission denied")
)

// IsUnauthenticated reports whether err means the caller could not be
// identified, as opposed to being identified and refused.
func IsUnauthenticated(err error) bool {
	for _, target := range []error{
		ErrInvalidToken, ErrExpiredToken, ErrTokenNotYetValid, ErrMissingToken,
		ErrInvalidRefreshToken, ErrExpiredRefreshToken, ErrWrongTokenType,
		ErrInvalidAPIKey, ErrInvalidCredentials, ErrInactiveAccount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
