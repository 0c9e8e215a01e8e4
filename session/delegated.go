package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenProvider issues credentials on demand. Implementations typically wrap
// an identity provider SDK that refreshes short-lived tokens transparently.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// ProviderFunc adapts a function to the TokenProvider interface.
type ProviderFunc func(ctx context.Context) (string, error)

func (f ProviderFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// Delegated adapts a TokenProvider to the Store contract. The provider owns
// the credential lifecycle, so SetCredential and Clear are no-ops; Credential
// asks the provider for a fresh token immediately before each request.
type Delegated struct {
	p TokenProvider
}

// NewDelegated returns a delegated-session store over the given provider.
func NewDelegated(p TokenProvider) *Delegated { return &Delegated{p: p} }

func (d *Delegated) Credential(ctx context.Context) (string, error) {
	return d.p.Token(ctx)
}

func (d *Delegated) SetCredential(string) error { return nil }

func (d *Delegated) Clear() error { return nil }

// refreshLeeway is how long before a token's expiry it is considered stale.
const refreshLeeway = 30 * time.Second

// Refreshing caches the last token from an inner provider and only refreshes
// it when its JWT exp claim is near. Opaque (non-JWT) tokens are never cached,
// so every call falls through to the inner provider.
type Refreshing struct {
	inner TokenProvider
	now   func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewRefreshing wraps an inner provider with expiry-aware caching.
func NewRefreshing(inner TokenProvider) *Refreshing {
	return &Refreshing{inner: inner, now: time.Now}
}

func (r *Refreshing) Token(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.token != "" && r.now().Before(r.expires.Add(-refreshLeeway)) {
		return r.token, nil
	}
	tok, err := r.inner.Token(ctx)
	if err != nil {
		return "", err
	}
	r.token = tok
	r.expires = tokenExpiry(tok)
	return tok, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the zero
// time is returned for opaque or claimless tokens, which disables caching.
func tokenExpiry(token string) time.Time {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
