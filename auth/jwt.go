package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	nanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultTokenTTL is the token lifetime used when TokenConfig.TTL is zero.
const DefaultTokenTTL = 15 * time.Minute

// TokenConfig holds the settings for issuing and validating tokens.
type TokenConfig struct {
	// Secret is the HMAC signing key (must be at least 32 bytes).
	Secret []byte

	// Issuer is stamped into and checked against the iss claim.
	Issuer string

	// TTL is the token lifetime. Zero means DefaultTokenTTL.
	TTL time.Duration
}

func (c TokenConfig) ttl() time.Duration {
	if c.TTL == 0 {
		return DefaultTokenTTL
	}
	return c.TTL
}

// Claims are the claims carried by woundflow tokens.
type Claims struct {
	jwt.RegisteredClaims
}

// IssueToken creates a signed token for the given subject.
func IssueToken(cfg TokenConfig, subject string) (string, error) {
	if len(cfg.Secret) < 32 {
		return "", ErrSecretTooShort
	}

	tokenID, err := nanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.ttl())),
			ID:        tokenID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
}

// ValidateToken parses and verifies a token string.
func ValidateToken(cfg TokenConfig, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return cfg.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
