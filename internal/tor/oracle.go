package tor

import (
	"context"
	"log/slog"
	"net"
	"net/netip"
	"strconv"
	"time"
)

// DefaultExitListZone is the DNS zone of the Tor Project's exit list.
const DefaultExitListZone = "dnsel.torproject.org"

// DefaultLookupTimeout bounds one exit-list lookup.
const DefaultLookupTimeout = 5 * time.Second

// sentinelAnswers are the A records the exit list returns for listed relays.
var sentinelAnswers = map[string]bool{
	"127.0.0.1": true,
	"127.0.0.2": true,
}

// Resolver is the subset of *net.Resolver used by the Oracle.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Oracle checks exit-list membership for single IPv4 addresses.
// It is safe for concurrent use.
type Oracle struct {
	resolver Resolver
	zone     string
	timeout  time.Duration
	logger   *slog.Logger
}

// OracleOption configures an Oracle.
type OracleOption func(*Oracle)

// WithResolver replaces net.DefaultResolver.
func WithResolver(r Resolver) OracleOption {
	return func(o *Oracle) {
		if r != nil {
			o.resolver = r
		}
	}
}

// WithExitListZone overrides the DNS zone queried.
func WithExitListZone(zone string) OracleOption {
	return func(o *Oracle) {
		if zone != "" {
			o.zone = zone
		}
	}
}

// WithLookupTimeout bounds each lookup. Non-positive values are ignored.
func WithLookupTimeout(d time.Duration) OracleOption {
	return func(o *Oracle) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) OracleOption {
	return func(o *Oracle) {
		o.logger = logger
	}
}

// NewOracle creates an Oracle using net.DefaultResolver unless overridden.
func NewOracle(opts ...OracleOption) *Oracle {
	o := &Oracle{
		resolver: net.DefaultResolver,
		zone:     DefaultExitListZone,
		timeout:  DefaultLookupTimeout,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}

// CheckTorExitNode reports whether ip is a listed Tor exit relay.
// The error is always nil: lookup failures and non-IPv4 input both yield false.
func (o *Oracle) CheckTorExitNode(ctx context.Context, ip string) (bool, error) {
	return o.Lookup(ctx, ip) == VerdictExitNode, nil
}

// Lookup performs the exit-list query and returns the interpreted verdict.
func (o *Oracle) Lookup(ctx context.Context, ip string) Verdict {
	domain, err := o.QueryDomain(ip)
	if err != nil {
		o.logger.Debug("skipping exit-list lookup", "ip", ip, "error", err)
		return VerdictSkipped
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	addrs, err := o.resolver.LookupHost(ctx, domain)
	if err != nil {
		o.logger.Debug("exit-list lookup failed", "ip", ip, "domain", domain, "error", err)
		return VerdictNotListed
	}

	for _, addr := range addrs {
		if sentinelAnswers[addr] {
			o.logger.Info("tor exit node detected", "ip", ip, "domain", domain, "answer", addr)
			return VerdictExitNode
		}
	}

	o.logger.Debug("exit-list answer is not a sentinel", "ip", ip, "answers", addrs)
	return VerdictNotListed
}

// QueryDomain builds "{reversed-ip}.{zone}" for ip.
func (o *Oracle) QueryDomain(ip string) (string, error) {
	rev, err := ReverseIPv4(ip)
	if err != nil {
		return "", err
	}
	return rev + "." + o.zone, nil
}

// ReverseIPv4 returns the octets of a dotted-quad IPv4 address in reverse
// order, e.g. "109.70.100.27" becomes "27.100.70.109".
// IPv6, IPv4-mapped IPv6 and hostnames are rejected with ErrNotIPv4.
func ReverseIPv4(ip string) (string, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil || !addr.Is4() {
		return "", ErrNotIPv4
	}

	b := addr.As4()
	return strconv.Itoa(int(b[3])) + "." +
		strconv.Itoa(int(b[2])) + "." +
		strconv.Itoa(int(b[1])) + "." +
		strconv.Itoa(int(b[0])), nil
}
