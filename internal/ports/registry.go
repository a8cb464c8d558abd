package ports

import (
	"errors"
	"fmt"
	"slices"
)

// MaxPort is the highest valid TCP port number.
const MaxPort = 65535

// ErrInvalidPorts is the sentinel matched by every InvalidPortsError.
var ErrInvalidPorts = errors.New("invalid ports")

// InvalidPortsError describes why a port list was rejected.
// It matches ErrInvalidPorts with errors.Is.
type InvalidPortsError struct {
	// Index is the position of the offending port, or -1 when the list itself is invalid.
	Index int

	// Port is the offending value. Only meaningful when Index >= 0.
	Port int

	// Reason is a short human-readable explanation.
	Reason string
}

// Error implements the error interface.
func (e *InvalidPortsError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid ports: %s", e.Reason)
	}
	return fmt.Sprintf("invalid ports: port %d at index %d %s", e.Port, e.Index, e.Reason)
}

// Is reports whether target is ErrInvalidPorts.
func (e *InvalidPortsError) Is(target error) bool {
	return target == ErrInvalidPorts
}

// Registry is an ordered, non-empty sequence of ports in [0, 65535].
// It is immutable after construction and safe for concurrent use.
type Registry struct {
	ports []int
}

// New validates ports and returns a Registry holding a private copy of them.
// Duplicates are kept; ordering is preserved.
func New(ports []int) (*Registry, error) {
	if len(ports) == 0 {
		return nil, &InvalidPortsError{Index: -1, Reason: "list must not be empty"}
	}

	for i, p := range ports {
		if p < 0 || p > MaxPort {
			return nil, &InvalidPortsError{Index: i, Port: p, Reason: "is out of range [0, 65535]"}
		}
	}

	return &Registry{ports: slices.Clone(ports)}, nil
}

// Get returns the ports in registration order.
// The returned slice is a copy; mutating it does not affect the Registry.
func (r *Registry) Get() []int {
	return slices.Clone(r.ports)
}

// Len returns the number of registered ports.
func (r *Registry) Len() int {
	return len(r.ports)
}
