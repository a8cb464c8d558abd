package tor

import "errors"

// ErrNotIPv4 is returned by ReverseIPv4 for anything that is not a dotted-quad
// IPv4 address. The exit list only indexes IPv4 relays.
var ErrNotIPv4 = errors.New("not an IPv4 address")

// Verdict is the interpreted answer of one exit-list lookup.
type Verdict int

const (
	// VerdictNotListed means the lookup failed or returned a non-sentinel address.
	VerdictNotListed Verdict = iota

	// VerdictExitNode means the lookup returned a sentinel address.
	VerdictExitNode

	// VerdictSkipped means the input was not IPv4, so no lookup was made.
	VerdictSkipped
)

// String returns a human-readable description of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictNotListed:
		return "not listed"
	case VerdictExitNode:
		return "exit node"
	case VerdictSkipped:
		return "skipped (not IPv4)"
	default:
		return "unknown"
	}
}
