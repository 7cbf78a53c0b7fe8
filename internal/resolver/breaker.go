package resolver

import (
	"sync"
	"time"
)

// Breaker tracks per-provider availability. A provider that times out or
// errors is disabled for a fixed cool-down and re-enables automatically on
// the next check after the cool-down elapses. Races between concurrent
// writers are tolerated: the worst case is one extra wasted attempt.
type Breaker struct {
	mu       sync.Mutex
	cooldown time.Duration
	tripped  map[string]time.Time // provider name -> earliest re-enable time
}

// NewBreaker creates a Breaker with the given cool-down.
func NewBreaker(cooldown time.Duration) *Breaker {
	return &Breaker{
		cooldown: cooldown,
		tripped:  make(map[string]time.Time),
	}
}

// Available reports whether the named provider may be attempted. An expired
// trip is cleared as a side effect.
func (b *Breaker) Available(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	reenableAt, ok := b.tripped[name]
	if !ok {
		return true
	}
	if time.Now().Before(reenableAt) {
		return false
	}
	delete(b.tripped, name)
	return true
}

// Trip disables the named provider until the cool-down elapses.
func (b *Breaker) Trip(name string) {
	b.mu.Lock()
	b.tripped[name] = time.Now().Add(b.cooldown)
	b.mu.Unlock()
}

// Reset clears a trip early, typically after a successful call.
func (b *Breaker) Reset(name string) {
	b.mu.Lock()
	delete(b.tripped, name)
	b.mu.Unlock()
}

// Snapshot returns the availability of every name in names.
func (b *Breaker) Snapshot(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = b.Available(n)
	}
	return out
}
