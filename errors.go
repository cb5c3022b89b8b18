package gatekeeper

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	// TextCodeInvalidCreds flags a failed username/password check
	TextCodeInvalidCreds = "INVALID_CREDENTIALS"
	// TextCodeTokenExpired flags a token past its expiry
	TextCodeTokenExpired = "TOKEN_EXPIRED"
	// TextCodeTokenMalformed flags a forged, corrupted, or foreign-key token
	TextCodeTokenMalformed = "TOKEN_MALFORMED"
	// TextCodeTokenMissing flags a protected request with no usable bearer token
	TextCodeTokenMissing = "TOKEN_MISSING"
	// TextCodeDuplicateUser flags a registration collision
	TextCodeDuplicateUser = "DUPLICATE_USER"
	// TextCodeEmptyPassword flags an empty password at hashing time
	TextCodeEmptyPassword = "EMPTY_PASSWORD"
)

// ErrInvalidCredentials covers both unknown username and password mismatch.
// The two cases are intentionally indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrTokenExpired is returned when a token is past its expiry
var ErrTokenExpired = errors.New("the token has expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed covers bad signatures, truncated input, and tokens
// signed under a different key
var ErrTokenMalformed = errors.New("the token is malformed or has an invalid signature", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed)

// ErrMissingToken is returned when a protected request carries no bearer token
var ErrMissingToken = errors.New("missing or malformed authorization header", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMissing)

// ErrDuplicateUser is returned when registration collides on username or email
var ErrDuplicateUser = errors.New("a user with that username or email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateUser)

// ErrNoEmptyString is returned when an empty password reaches the hasher
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "invalid signature") ||
		strings.Contains(err.Error(), "missing or malformed")
}
