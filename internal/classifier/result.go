package classifier

import "time"

// Signal names the check that produced a verdict.
type Signal string

const (
	// SignalNone means no positive signal was found.
	SignalNone Signal = "none"

	// SignalCache means the address was already in the proxy list.
	SignalCache Signal = "cache"

	// SignalTor means the address is a listed Tor exit relay.
	SignalTor Signal = "tor"

	// SignalPort means one of the registered ports accepted a connection.
	SignalPort Signal = "port"
)

// Result is the verdict for one address.
type Result struct {
	// IP is the address that was checked.
	IP string `json:"ip"`

	// Proxy is the classification.
	Proxy bool `json:"proxy"`

	// Signal is the check that decided the verdict.
	Signal Signal `json:"signal"`

	// Port is the first open port. Only set when Signal is SignalPort.
	Port int `json:"port,omitempty"`

	// Error is set by batch checks when the address could not be classified.
	Error string `json:"error,omitempty"`

	// CheckedAt is when the verdict was produced.
	CheckedAt time.Time `json:"checked_at"`
}
