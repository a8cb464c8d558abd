package probe

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/netip"
	"strconv"
	"syscall"
	"time"
)

// DefaultTimeout bounds connect plus write for one probe.
const DefaultTimeout = 2 * time.Second

// DefaultPayload is written after a successful connect. Its content is never
// interpreted; only whether the connect succeeded matters.
var DefaultPayload = []byte("Hello, server! Love, Client.")

// Dialer is the subset of *net.Dialer used by the Prober.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Prober performs bounded TCP reachability checks. It is safe for concurrent use.
type Prober struct {
	dialer  Dialer
	payload []byte
	logger  *slog.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithDialer replaces the default net.Dialer.
func WithDialer(d Dialer) Option {
	return func(p *Prober) {
		if d != nil {
			p.dialer = d
		}
	}
}

// WithPayload sets the bytes written after connecting. A nil payload
// disables the write.
func WithPayload(b []byte) Option {
	return func(p *Prober) {
		p.payload = b
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Prober) {
		p.logger = logger
	}
}

// New creates a Prober.
func New(opts ...Option) *Prober {
	p := &Prober{
		dialer:  &net.Dialer{},
		payload: DefaultPayload,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// CheckPort dials ip:port and reports whether the connection was accepted.
// A non-positive timeout falls back to DefaultTimeout. The call never blocks
// longer than the timeout, and the connection is always closed before return.
func (p *Prober) CheckPort(ctx context.Context, ip string, port int, timeout time.Duration) Outcome {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	start := time.Now()
	out := Outcome{IP: ip, Port: port}

	// A literal address keeps the dialer from consulting DNS.
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		out.Status = StatusError
		out.Reason = "not an IP literal"
		return out
	}
	target := net.JoinHostPort(addr.String(), strconv.Itoa(port))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := p.dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		out.Status = classifyDialError(err)
		out.Reason = err.Error()
		out.Elapsed = time.Since(start)
		p.logger.Debug("port probe negative", "target", target, "status", out.Status, "error", err)
		return out
	}
	defer conn.Close()

	out.Status = StatusOpen

	if len(p.payload) > 0 {
		deadline, _ := ctx.Deadline()
		if err := conn.SetWriteDeadline(deadline); err == nil {
			if _, err := conn.Write(p.payload); err != nil {
				out.Reason = "write: " + err.Error()
			}
		}
	}

	out.Elapsed = time.Since(start)
	p.logger.Debug("port open", "target", target, "elapsed", out.Elapsed)
	return out
}

// classifyDialError maps a dial failure to Closed (refused) or Error.
func classifyDialError(err error) Status {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return StatusClosed
	}
	return StatusError
}
