// internal/miniapp/context.go
//
// Mini-app runtime context and handshake payload.
//
// Context
// -------
// A mini app embedded in the messenger container identifies itself with
// an application ID and the official-account (OA) ID it belongs to.
// Both are caller-supplied strings with exactly one invariant: non-empty
// after trimming.  Violations carry the Validation kind so the transport
// can reject the input without failing startup.
//
// The handshake payload is a pass-through JSON shape consumed by the
// host container; it has no invariants of its own beyond what Context
// construction already enforced.

package miniapp

import (
	"strings"

	"github.com/vuhn/zalokit/internal/apperr"
)

// Context captures the identifiers required by the mini-app runtime.
// Immutable after construction.
type Context struct {
	appID string
	oaID  string
}

// New validates the identifiers and builds a context.  Empty or
// whitespace-only values fail with a Validation error naming the field.
func New(appID, oaID string) (*Context, error) {
	if strings.TrimSpace(appID) == "" {
		return nil, apperr.New(apperr.Validation, "mini-app application id must not be empty")
	}
	if strings.TrimSpace(oaID) == "" {
		return nil, apperr.New(apperr.Validation, "mini-app official-account id must not be empty")
	}
	return &Context{appID: appID, oaID: oaID}, nil
}

// AppID returns the configured application identifier.
func (c *Context) AppID() string { return c.appID }

// OAID returns the configured official-account identifier.
func (c *Context) OAID() string { return c.oaID }

// HandshakePayload is the JSON document shared with the host container.
type HandshakePayload struct {
	AppID string `json:"app_id"`
	OAID  string `json:"oa_id"`
}

// Handshake produces the payload the host container expects.
func (c *Context) Handshake() HandshakePayload {
	return HandshakePayload{AppID: c.appID, OAID: c.oaID}
}
