package repository

import (
	"sync"
	"time"
)

// TokenRegistry tracks the set of currently live access tokens so that
// logout can invalidate a token before its natural expiry.  Verification
// checks expiry independently, so the stored deadline only exists to let
// the sweep loop drop dead entries and bound memory in a long-lived
// process.
type TokenRegistry struct {
	mu   sync.RWMutex
	live map[string]time.Time // token -> expiry

	stop chan struct{}
	once sync.Once
}

// NewTokenRegistry returns a registry that sweeps expired entries every
// purgeEvery.  A non-positive interval disables the background sweep,
// which tests use.
func NewTokenRegistry(purgeEvery time.Duration) *TokenRegistry {
	r := &TokenRegistry{
		live: make(map[string]time.Time),
		stop: make(chan struct{}),
	}
	if purgeEvery > 0 {
		go r.sweepLoop(purgeEvery)
	}
	return r
}

// Register marks a token as live until expiresAt.  Idempotent.
func (r *TokenRegistry) Register(token string, expiresAt time.Time) {
	r.mu.Lock()
	r.live[token] = expiresAt
	r.mu.Unlock()
}

// Revoke removes a token from the live set.  Revoking an absent token is
// not an error.
func (r *TokenRegistry) Revoke(token string) {
	r.mu.Lock()
	delete(r.live, token)
	r.mu.Unlock()
}

// IsLive reports whether a token was issued here and has been neither
// revoked nor expired.
func (r *TokenRegistry) IsLive(token string) bool {
	r.mu.RLock()
	exp, ok := r.live[token]
	r.mu.RUnlock()
	return ok && time.Now().Before(exp)
}

// Close stops the background sweep.
func (r *TokenRegistry) Close() {
	r.once.Do(func() { close(r.stop) })
}

func (r *TokenRegistry) sweepLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			r.purge(time.Now())
		case <-r.stop:
			return
		}
	}
}

func (r *TokenRegistry) purge(now time.Time) {
	r.mu.Lock()
	for tok, exp := range r.live {
		if !now.Before(exp) {
			delete(r.live, tok)
		}
	}
	r.mu.Unlock()
}
