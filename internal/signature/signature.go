// Package signature authenticates inbound webhooks with a shared-secret
// HMAC-SHA256 over the raw request body.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// HeaderName is the request header carrying the hex signature
const HeaderName = "X-Signature"

var (
	// ErrUnauthorized is wrapped by every verification failure
	ErrUnauthorized = errors.New("unauthorized")

	ErrSecretNotConfigured = fmt.Errorf("%w: webhook secret not configured", ErrUnauthorized)
	ErrMissingSignature    = fmt.Errorf("%w: missing signature", ErrUnauthorized)
	ErrInvalidSignature    = fmt.Errorf("%w: invalid signature", ErrUnauthorized)
)

// Sign returns the lower-case hex HMAC-SHA256 of body keyed by secret
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks provided against the signature of body. The comparison is
// constant time and case-sensitive.
func Verify(secret string, body []byte, provided string) error {
	if secret == "" {
		return ErrSecretNotConfigured
	}
	if provided == "" {
		return ErrMissingSignature
	}

	expected := Sign(secret, body)
	if !hmac.Equal([]byte(provided), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}

// Verifier binds a secret so callers do not carry it around
type Verifier struct {
	secret string
}

// NewVerifier creates a verifier for secret. An empty secret yields a
// verifier that rejects every request.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Verify checks provided against the signature of body
func (v *Verifier) Verify(body []byte, provided string) error {
	return Verify(v.secret, body, provided)
}

// Configured reports whether a secret is set
func (v *Verifier) Configured() bool {
	return v.secret != ""
}
