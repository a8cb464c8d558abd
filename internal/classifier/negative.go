package classifier

import (
	"sync"
	"time"
)

// negativeCache remembers addresses that produced no positive signal.
// Entries expire after ttl and are dropped lazily on lookup.
type negativeCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	expires map[string]time.Time
}

func newNegativeCache(ttl time.Duration, now func() time.Time) *negativeCache {
	return &negativeCache{
		ttl:     ttl,
		now:     now,
		expires: make(map[string]time.Time),
	}
}

// has reports whether ip has an unexpired negative verdict.
func (n *negativeCache) has(ip string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	exp, ok := n.expires[ip]
	if !ok {
		return false
	}
	if !n.now().Before(exp) {
		delete(n.expires, ip)
		return false
	}
	return true
}

func (n *negativeCache) add(ip string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expires[ip] = n.now().Add(n.ttl)
}
