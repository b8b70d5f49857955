// Package auth guards the upload server.
//
// Two schemes are supported and can be enabled independently: static
// API keys checked against a stored SHA-256 digest, and short-lived
// HMAC-signed bearer tokens. Keys and token IDs are nanoid-based.
package auth
