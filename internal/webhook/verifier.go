// internal/webhook/verifier.go
//
// Webhook signature verifier (HMAC-SHA256).
//
// Context
// -------
// The platform signs every webhook delivery with HMAC-SHA256 over the
// raw request body, hex encoded, and sends the result in a header.  The
// Verifier holds the shared secret and proves or disproves that a byte
// payload was signed by the holder of that secret.  Header extraction is
// the transport's job; this package only sees `(payload, signature)`.
//
// Two deliberate security properties:
//
//   - MAC comparison is constant time (crypto/subtle) over the full
//     expected MAC, so timing never reveals which prefix matched.
//   - A malformed-hex header and a well-formed-but-wrong MAC produce the
//     identical ErrVerificationFailed, so a caller probing the endpoint
//     cannot distinguish "bad encoding" from "bad MAC".
//
// The secret is never logged and never serialized; Format is overridden
// so an accidental %v of the verifier cannot leak it.

package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/vuhn/zalokit/internal/apperr"
)

// Sentinel failures of the trust boundary.  Both carry the Unauthorized
// kind; ErrSecretEmpty is a deployment fault and carries Config.
var (
	// ErrMissingSignature reports an absent signature header.
	ErrMissingSignature = apperr.New(apperr.Unauthorized, "missing webhook signature header")
	// ErrVerificationFailed reports a signature that does not prove the
	// payload, for any reason beyond plain absence.
	ErrVerificationFailed = apperr.New(apperr.Unauthorized, "webhook signature verification failed")
	// ErrSecretEmpty rejects verifier construction with no key material.
	// HMAC-SHA256 itself accepts keys of any positive length (shorter
	// keys are zero-padded, longer ones hashed, per RFC 2104), so an
	// empty secret is the only length the toolkit refuses.
	ErrSecretEmpty = apperr.New(apperr.Config, "webhook secret must not be empty")
)

// Verifier proves webhook payloads were signed with a shared secret.
// It is immutable after construction and safe for concurrent use.
type Verifier struct {
	secret []byte
}

// NewVerifier validates the key material and returns a verifier.  The
// secret is copied; the caller may zero or reuse its slice.
func NewVerifier(secret []byte) (*Verifier, error) {
	if len(secret) == 0 {
		return nil, ErrSecretEmpty
	}
	owned := make([]byte, len(secret))
	copy(owned, secret)
	return &Verifier{secret: owned}, nil
}

// Sign computes the expected signature for a payload: lowercase hex of
// HMAC-SHA256 over the exact payload bytes.  Deterministic; a pure
// function of (secret, payload).
func (v *Verifier) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a signature header against the payload.  The empty
// string means the header was absent and fails with ErrMissingSignature;
// every other failure, including malformed hex and a length mismatch, is
// ErrVerificationFailed.
func (v *Verifier) Verify(payload []byte, signature string) error {
	if signature == "" {
		return ErrMissingSignature
	}

	claimed, err := hex.DecodeString(signature)
	if err != nil {
		return ErrVerificationFailed
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	expected := mac.Sum(nil)

	if subtle.ConstantTimeCompare(expected, claimed) != 1 {
		return ErrVerificationFailed
	}
	return nil
}

// String keeps the secret out of %v/%s output and log fields.
func (v *Verifier) String() string { return "webhook.Verifier{secret:REDACTED}" }
