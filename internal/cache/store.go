package cache

import "context"

// Key names shared by all backends.
const (
	// PortsKey is the set of ports the owning classifier probes.
	PortsKey = "ports"

	// ProxyIPsKey is the append-only list of confirmed proxy IPs.
	ProxyIPsKey = "ProxyIPs"
)

// Store is the capability the classifier needs from a cache backend.
// Implementations must be safe for concurrent use; the classifier adds no
// locking of its own. All failures are returned as *UnavailableError.
type Store interface {
	// ClearPorts removes every entry from the ports set.
	ClearPorts(ctx context.Context) error

	// AddPort inserts p into the ports set. Adding an existing port is a no-op.
	AddPort(ctx context.Context, p int) error

	// ListProxyIPs returns the full proxy-IP list in append order.
	ListProxyIPs(ctx context.Context) ([]string, error)

	// AppendProxyIP appends ip to the proxy-IP list. The store does not
	// deduplicate; callers check membership first.
	AppendProxyIP(ctx context.Context, ip string) error

	// Close releases the underlying connection.
	Close() error
}

// PortLister is implemented by backends that can report the advertised ports set.
type PortLister interface {
	// ListPorts returns the ports set in ascending order.
	ListPorts(ctx context.Context) ([]int, error)
}

// Contains reports whether ip appears in ips.
func Contains(ips []string, ip string) bool {
	for _, v := range ips {
		if v == ip {
			return true
		}
	}
	return false
}
