// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service/transport layers.
var (
	// ErrValidation indicates missing or malformed input.
	ErrValidation = errors.New("validation")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a uniqueness violation (email taken, game already favorited).
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized indicates failed credential verification.
	// Unknown email and wrong password both map here.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates an authenticated caller mutating a resource it does not own.
	ErrForbidden = errors.New("forbidden")

	// ErrTokenMissing indicates that no session token was presented.
	ErrTokenMissing = errors.New("token missing")

	// ErrTokenInvalid indicates a token with a bad signature or malformed payload.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrTokenExpired indicates a correctly signed token past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrUpstream indicates a failure of the third-party metadata provider.
	ErrUpstream = errors.New("upstream failure")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")
)
