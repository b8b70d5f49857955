package auth

import "errors"

var (
	// ErrInvalidToken is returned for malformed, tampered, or
	// wrong-issuer tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a token's expiry has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrSecretTooShort is returned when the HMAC secret is under 32 bytes.
	ErrSecretTooShort = errors.New("jwt secret must be at least 32 bytes")
)
