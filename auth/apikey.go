package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// API key format.
const (
	APIKeyPrefix = "wf_"
	apiKeyLength = 32
)

const base62 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// APIKey holds a freshly generated key. Secret is only available at
// creation; store Hash and discard the rest.
type APIKey struct {
	// Secret is the full key handed to the client, e.g. "wf_xxxx...".
	Secret string

	// Hash is the SHA-256 hex digest of Secret, suitable for config
	// files and storage.
	Hash string
}

// GenerateAPIKey creates a new random API key.
func GenerateAPIKey() (*APIKey, error) {
	random, err := nanoid.Generate(base62, apiKeyLength)
	if err != nil {
		return nil, fmt.Errorf("generate api key: %w", err)
	}
	secret := APIKeyPrefix + random
	return &APIKey{Secret: secret, Hash: HashToken(secret)}, nil
}

// HashToken returns the SHA-256 hex digest of a token.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// VerifyAPIKey reports whether key matches the stored digest. The
// comparison is constant-time over the digests.
func VerifyAPIKey(key, storedHash string) bool {
	if !strings.HasPrefix(key, APIKeyPrefix) {
		return false
	}
	got := HashToken(key)
	return subtle.ConstantTimeCompare([]byte(got), []byte(storedHash)) == 1
}
