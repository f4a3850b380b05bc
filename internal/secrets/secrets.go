// internal/secrets/secrets.go
//
// Secret-reference resolver backed by HashiCorp Vault.
//
// Context
// -------
// Operators keep the webhook secret (and anything else sensitive) out of
// flat files by writing a reference instead of a literal value:
//
//	vault:secret/data-team/zalo-bot#webhook_secret
//	        └ mount/path ──────────┘ └── key ────┘
//
// `Resolve` passes literal values through untouched and fetches
// references from Vault's KV-v2 engine.  Resolved values are cached in
// an LRU for a configurable TTL so hot paths never hammer Vault.
//
// Environment expectations (standard Vault SDK):
//   - VAULT_ADDR  – scheme and host of the Vault server.
//   - VAULT_TOKEN – token (falls back to ~/.vault-token).
//
// The Vault client is created lazily on the first reference, so
// deployments that only use literal secrets need no Vault at all.
// Resolution failures are deployment faults and carry the Config kind.

package secrets

import (
	"context"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"

	"github.com/vuhn/zalokit/internal/apperr"
	"github.com/vuhn/zalokit/internal/cache"
	"github.com/vuhn/zalokit/internal/metrics"
)

// refPrefix marks a value as a Vault reference rather than a literal.
const refPrefix = "vault:"

// Resolver is safe for concurrent use.  Create once at startup.
type Resolver struct {
	ttl time.Duration

	initOnce sync.Once
	initErr  error
	api      *vault.Client

	mu    sync.Mutex
	cache *cache.LRU[string, string]
}

// NewResolver returns a resolver that caches resolved references for
// ttl.  ttl <= 0 disables expiry (values live until evicted).
func NewResolver(ttl time.Duration) *Resolver {
	return &Resolver{
		ttl:   ttl,
		cache: cache.New[string, string](128),
	}
}

// Resolve returns the secret a value denotes: the value itself when it
// is a literal, or the referenced Vault KV-v2 entry.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	metrics.SecretResolveTotal.Inc()

	if !strings.HasPrefix(value, refPrefix) {
		return value, nil
	}

	ref := strings.TrimPrefix(value, refPrefix)
	secretPath, key, ok := strings.Cut(ref, "#")
	if !ok || secretPath == "" || key == "" {
		return "", apperr.Newf(apperr.Config, "malformed secret reference %q: want vault:mount/path#key", value)
	}
	mount, rel, hasRel := strings.Cut(secretPath, "/")
	if !hasRel || rel == "" {
		return "", apperr.Newf(apperr.Config, "malformed secret reference %q: want vault:mount/path#key", value)
	}

	r.mu.Lock()
	cached, hit := r.cache.Get(value)
	r.mu.Unlock()
	if hit {
		return cached, nil
	}

	if err := r.connect(); err != nil {
		return "", err
	}

	sec, err := r.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", apperr.Wrap(apperr.Config, "vault get "+secretPath, err)
	}

	raw, found := sec.Data[key]
	if !found {
		return "", apperr.Newf(apperr.Config, "key %q not found in secret %q", key, secretPath)
	}
	sval, isString := raw.(string)
	if !isString {
		return "", apperr.Newf(apperr.Config, "value at %s#%s is not a string", secretPath, key)
	}

	r.mu.Lock()
	r.cache.AddWithTTL(value, sval, r.ttl)
	r.mu.Unlock()

	return sval, nil
}

// connect builds the Vault API client once, from the environment.
func (r *Resolver) connect() error {
	r.initOnce.Do(func() {
		cfg := vault.DefaultConfig()
		if err := cfg.ReadEnvironment(); err != nil {
			r.initErr = apperr.Wrap(apperr.Config, "vault environment", err)
			return
		}
		api, err := vault.NewClient(cfg)
		if err != nil {
			r.initErr = apperr.Wrap(apperr.Config, "vault client", err)
			return
		}
		r.api = api
	})
	return r.initErr
}
