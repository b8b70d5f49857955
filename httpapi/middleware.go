package httpapi

import (
	"net/http"
	"strings"

	"github.com/randalmurphal/woundflow/auth"
)

// requireAuth guards a handler with the configured schemes. With no
// API key hash and no JWT secret configured, requests pass through.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	if s.cfg.APIKeyHash == "" && s.cfg.JWTSecret == "" {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.APIKeyHash != "" {
			if key := r.Header.Get("X-API-Key"); key != "" && auth.VerifyAPIKey(key, s.cfg.APIKeyHash) {
				next(w, r)
				return
			}
		}
		if s.cfg.JWTSecret != "" {
			if token, ok := bearerToken(r); ok {
				cfg := auth.TokenConfig{Secret: []byte(s.cfg.JWTSecret)}
				if _, err := auth.ValidateToken(cfg, token); err == nil {
					next(w, r)
					return
				}
			}
		}
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	return strings.TrimPrefix(header, prefix), true
}
