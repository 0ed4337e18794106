// Package epay implements the Connector Integration Protocol for a
// Kazakhstan-market OAuth2 card-acquiring gateway, grounded on the
// teacher's internal/provider/epay client: client-credentials token
// exchange, invoice-based card charge, status polling, and
// charge/cancel operations on a prior authorization.
package epay

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

// TokenCache holds short-lived OAuth2 access tokens keyed by client id, so
// repeated calls for the same merchant credentials don't each pay for a
// token exchange. This generalizes the teacher's
// Client.initGlobalTokenRefresher ticker-refreshed single token
// (internal/provider/epay/token.go) into an explicit, per-credential cache
// with no background token refresh (go-cache's janitor goroutine only
// evicts expired entries) — the integration itself performs no I/O
//, so the token exchange is the caller's responsibility (the
// component that builds a domain.ConnectorAuth for this connector, i.e.
// internal/app's epayAuthResolver); this cache is what that caller consults
// and populates.
type TokenCache struct {
	c *cache.Cache
}

// NewTokenCache builds a TokenCache with the given default expiration and
// cleanup interval.
func NewTokenCache(defaultExpiration, cleanupInterval time.Duration) *TokenCache {
	return &TokenCache{c: cache.New(defaultExpiration, cleanupInterval)}
}

// Get returns the cached access token for clientID, if present and not
// expired.
func (t *TokenCache) Get(clientID string) (string, bool) {
	v, ok := t.c.Get(clientID)
	if !ok {
		return "", false
	}
	tok, ok := v.(string)
	return tok, ok
}

// Set stores an access token for clientID, valid for ttl.
func (t *TokenCache) Set(clientID, accessToken string, ttl time.Duration) {
	t.c.Set(clientID, accessToken, ttl)
}
