// internal/apperr/apperr_test.go
//
// Unit tests for the error taxonomy.  The kind assignment rules are
// public contract, so each mapping gets an explicit assertion.

package apperr

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestKindOf_TypedError(t *testing.T) {
	cases := []struct {
		kind Kind
		name string
	}{
		{Config, "config"},
		{Validation, "validation"},
		{Unauthorized, "unauthorized"},
		{Internal, "internal"},
	}
	for _, c := range cases {
		err := New(c.kind, "boom")
		if got := KindOf(err); got != c.kind {
			t.Fatalf("KindOf(%s) = %v, want %v", c.name, got, c.kind)
		}
		if err.Kind().String() != c.name {
			t.Fatalf("String() = %q, want %q", err.Kind().String(), c.name)
		}
	}
}

func TestKindOf_ForeignErrorIsInternal(t *testing.T) {
	if got := KindOf(io.ErrUnexpectedEOF); got != Internal {
		t.Fatalf("foreign error classified as %v, want Internal", got)
	}
}

func TestKindOf_WrappedThroughFmt(t *testing.T) {
	base := New(Unauthorized, "webhook signature verification failed")
	wrapped := fmt.Errorf("request rejected: %w", base)

	if got := KindOf(wrapped); got != Unauthorized {
		t.Fatalf("wrapped kind = %v, want Unauthorized", got)
	}
	if !IsKind(wrapped, Unauthorized) {
		t.Fatal("IsKind should see through fmt.Errorf wrapping")
	}
}

func TestWrap_MessageAndUnwrap(t *testing.T) {
	src := errors.New("open /etc/zalokit/bot.toml: no such file or directory")
	err := Wrap(Config, "configuration file not found", src)

	if !errors.Is(err, src) {
		t.Fatal("Wrap must keep the source reachable via errors.Is")
	}
	want := "configuration file not found: " + src.Error()
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestNewf_Formats(t *testing.T) {
	err := Newf(Config, "configuration file not found at %s", "/tmp/x.toml")
	if err.Error() != "configuration file not found at /tmp/x.toml" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
