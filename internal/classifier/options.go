package classifier

import (
	"log/slog"
	"time"
)

// Option configures a Classifier.
type Option func(*Classifier)

// WithOracle replaces the default DNS exit-list oracle.
func WithOracle(o TorOracle) Option {
	return func(c *Classifier) {
		if o != nil {
			c.oracle = o
		}
	}
}

// WithProber replaces the default TCP prober.
func WithProber(p PortProber) Option {
	return func(c *Classifier) {
		if p != nil {
			c.prober = p
		}
	}
}

// WithProbeTimeout sets the per-port connect timeout. Non-positive values are ignored.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Classifier) {
		if d > 0 {
			c.probeTimeout = d
		}
	}
}

// WithLogger sets the logger. It is also handed to the default oracle and prober.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// WithNegativeCacheTTL remembers negative verdicts in process memory for ttl.
// Zero (the default) disables negative caching, so every check of a
// non-proxy address probes again.
func WithNegativeCacheTTL(ttl time.Duration) Option {
	return func(c *Classifier) {
		if ttl > 0 {
			c.negative = newNegativeCache(ttl, time.Now)
		}
	}
}
