// internal/webhook/verifier_test.go
//
// Unit tests for the signature verifier.  The oracle property matters
// most: malformed hex and a wrong MAC must be indistinguishable, and
// every failure must carry the Unauthorized kind.

package webhook

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vuhn/zalokit/internal/apperr"
)

func TestVerify_RoundTrip(t *testing.T) {
	v, err := NewVerifier([]byte("top-secret"))
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	payload := []byte(`{"event_name":"user.send.text"}`)

	sig := v.Sign(payload)
	if err := v.Verify(payload, sig); err != nil {
		t.Fatalf("Verify(Sign(payload)) = %v, want success", err)
	}
}

func TestSign_DeterministicLowercaseHex(t *testing.T) {
	v, _ := NewVerifier([]byte("secret"))
	payload := []byte("payload")

	first, second := v.Sign(payload), v.Sign(payload)
	if first != second {
		t.Fatal("Sign must be deterministic")
	}
	if len(first) != 64 { // SHA-256 → 32 bytes → 64 hex chars
		t.Fatalf("signature length = %d, want 64", len(first))
	}
	if first != strings.ToLower(first) {
		t.Fatalf("signature %q is not lowercase hex", first)
	}
}

func TestVerify_WrongSecretFails(t *testing.T) {
	signer, _ := NewVerifier([]byte("secret-one"))
	checker, _ := NewVerifier([]byte("secret-two"))
	payload := []byte("payload")

	err := checker.Verify(payload, signer.Sign(payload))
	if !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("err = %v, want ErrVerificationFailed", err)
	}
}

func TestVerify_TamperedPayloadFails(t *testing.T) {
	v, _ := NewVerifier([]byte("secret"))
	sig := v.Sign([]byte(`{"amount":10}`))

	if err := v.Verify([]byte(`{"amount":1000}`), sig); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("err = %v, want ErrVerificationFailed", err)
	}
}

func TestVerify_MissingSignature(t *testing.T) {
	v, _ := NewVerifier([]byte("secret"))

	err := v.Verify([]byte("anything"), "")
	if !errors.Is(err, ErrMissingSignature) {
		t.Fatalf("err = %v, want ErrMissingSignature", err)
	}
	if apperr.KindOf(err) != apperr.Unauthorized {
		t.Fatalf("kind = %v, want Unauthorized", apperr.KindOf(err))
	}
}

// Malformed hex, odd length, truncated, and well-formed-but-wrong inputs
// must all collapse into the identical error value.
func TestVerify_NoOracleBetweenBadHexAndBadMAC(t *testing.T) {
	v, _ := NewVerifier([]byte("secret"))
	payload := []byte("payload")
	good := v.Sign(payload)

	cases := []string{
		"not-hex!!",
		"abc",                   // odd length
		good[:32],               // truncated but valid hex
		good + "00",             // too long
		strings.Repeat("0", 64), // right shape, wrong MAC
	}
	for _, sig := range cases {
		err := v.Verify(payload, sig)
		if !errors.Is(err, ErrVerificationFailed) {
			t.Fatalf("Verify(%q) = %v, want ErrVerificationFailed", sig, err)
		}
		if apperr.KindOf(err) != apperr.Unauthorized {
			t.Fatalf("Verify(%q) kind = %v, want Unauthorized", sig, apperr.KindOf(err))
		}
	}
}

func TestNewVerifier_EmptySecretFailsAtConstruction(t *testing.T) {
	_, err := NewVerifier(nil)
	if !errors.Is(err, ErrSecretEmpty) {
		t.Fatalf("err = %v, want ErrSecretEmpty", err)
	}
	if apperr.KindOf(err) != apperr.Config {
		t.Fatalf("kind = %v, want Config (deployment fault, not request fault)", apperr.KindOf(err))
	}
}

func TestNewVerifier_CopiesSecret(t *testing.T) {
	secret := []byte("mutable")
	v, _ := NewVerifier(secret)
	sig := v.Sign([]byte("payload"))

	// Zeroing the caller's slice must not change the verifier's output.
	for i := range secret {
		secret[i] = 0
	}
	if v.Sign([]byte("payload")) != sig {
		t.Fatal("verifier must own an independent copy of the secret")
	}
}

func TestVerifier_StringRedactsSecret(t *testing.T) {
	v, _ := NewVerifier([]byte("hunter2"))
	out := fmt.Sprintf("%v %s", v, v)
	if strings.Contains(out, "hunter2") {
		t.Fatalf("secret leaked through formatting: %q", out)
	}
}

func TestVerify_ConcurrentUse(t *testing.T) {
	v, _ := NewVerifier([]byte("secret"))
	payload := []byte("payload")
	sig := v.Sign(payload)

	done := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func() { done <- v.Verify(payload, sig) }()
	}
	for i := 0; i < 16; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent Verify: %v", err)
		}
	}
}
