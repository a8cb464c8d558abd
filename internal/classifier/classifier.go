package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/proxyip/internal/cache"
	"github.com/nao1215/proxyip/internal/ports"
	"github.com/nao1215/proxyip/internal/probe"
	"github.com/nao1215/proxyip/internal/tor"
)

// ErrNilStore is returned by New when no store is supplied.
var ErrNilStore = errors.New("classifier requires a cache store")

// TorOracle reports Tor exit-relay membership for one address.
type TorOracle interface {
	CheckTorExitNode(ctx context.Context, ip string) (bool, error)
}

// PortProber checks one (ip, port) pair within timeout.
type PortProber interface {
	CheckPort(ctx context.Context, ip string, port int, timeout time.Duration) probe.Outcome
}

// Classifier combines the cached proxy list, the Tor exit list and TCP port
// probes into a single proxy verdict. It is safe for concurrent use as long
// as its store is.
type Classifier struct {
	registry     *ports.Registry
	store        cache.Store
	ownsStore    bool
	oracle       TorOracle
	prober       PortProber
	probeTimeout time.Duration
	negative     *negativeCache
	logger       *slog.Logger
	now          func() time.Time
}

// New validates portList, attaches store, and republishes the ports set in
// the store (cleared, then one AddPort per registered port).
// The caller keeps ownership of store.
func New(ctx context.Context, portList []int, store cache.Store, opts ...Option) (*Classifier, error) {
	registry, err := ports.New(portList)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if store == nil {
		return nil, ErrNilStore
	}

	c := &Classifier{
		registry:     registry,
		store:        store,
		probeTimeout: probe.DefaultTimeout,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.oracle == nil {
		c.oracle = tor.NewOracle(tor.WithLogger(c.logger))
	}
	if c.prober == nil {
		c.prober = probe.New(probe.WithLogger(c.logger))
	}

	if err := c.publishPorts(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

// NewWithConnection opens the store described by connInfo (see cache.Open)
// and returns a Classifier that owns it. Close releases the store.
func NewWithConnection(ctx context.Context, portList []int, connInfo string, opts ...Option) (*Classifier, error) {
	if _, err := ports.New(portList); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := cache.Open(ctx, connInfo)
	if err != nil {
		return nil, err
	}

	c, err := New(ctx, portList, store, opts...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	c.ownsStore = true

	return c, nil
}

// publishPorts rewrites the store's ports set to mirror the registry.
func (c *Classifier) publishPorts(ctx context.Context) error {
	if err := c.store.ClearPorts(ctx); err != nil {
		return fmt.Errorf("failed to publish ports: %w", err)
	}
	for _, p := range c.registry.Get() {
		if err := c.store.AddPort(ctx, p); err != nil {
			return fmt.Errorf("failed to publish ports: %w", err)
		}
	}
	c.logger.Debug("published ports", "count", c.registry.Len())
	return nil
}

// Ports returns the registered ports in order.
func (c *Classifier) Ports() []int {
	return c.registry.Get()
}

// Close releases the store if the Classifier opened it.
func (c *Classifier) Close() error {
	if !c.ownsStore {
		return nil
	}
	return c.store.Close()
}

// IsProxyIP reports whether ip is a proxy. Errors are only returned for
// infrastructure failures (an unreachable store, or ctx ending while waiting
// for probes), never for "not a proxy".
func (c *Classifier) IsProxyIP(ctx context.Context, ip string) (bool, error) {
	res, err := c.Check(ctx, ip)
	if err != nil {
		return false, err
	}
	return res.Proxy, nil
}

// Check classifies ip and reports which signal decided the verdict.
func (c *Classifier) Check(ctx context.Context, ip string) (Result, error) {
	// CacheCheck
	known, err := c.store.ListProxyIPs(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read proxy list: %w", err)
	}
	if cache.Contains(known, ip) {
		c.logger.Debug("proxy list hit", "ip", ip)
		return c.result(ip, true, SignalCache, 0), nil
	}
	if c.negative != nil && c.negative.has(ip) {
		c.logger.Debug("negative cache hit", "ip", ip)
		return c.result(ip, false, SignalNone, 0), nil
	}

	// OracleCheck
	isExit, err := c.oracle.CheckTorExitNode(ctx, ip)
	if err != nil {
		c.logger.Debug("tor oracle error treated as negative", "ip", ip, "error", err)
		isExit = false
	}
	if isExit {
		if err := c.record(ctx, ip); err != nil {
			return Result{}, err
		}
		return c.result(ip, true, SignalTor, 0), nil
	}

	// ConcurrentPortProbe
	port, open, err := c.probePorts(ctx, ip)
	if err != nil {
		return Result{}, err
	}
	if open {
		if err := c.record(ctx, ip); err != nil {
			return Result{}, err
		}
		return c.result(ip, true, SignalPort, port), nil
	}

	// Decide
	if c.negative != nil {
		c.negative.add(ip)
	}
	c.logger.Info("not a proxy", "ip", ip)
	return c.result(ip, false, SignalNone, 0), nil
}

// probePorts probes every registered port at once and returns as soon as one
// is open. Probes run on a context detached from ctx's cancellation so that
// abandoned probes still finish within their own timeout and close their
// connections. The result channel is buffered to len(ports) so no abandoned
// probe ever blocks on send.
func (c *Classifier) probePorts(ctx context.Context, ip string) (int, bool, error) {
	portList := c.registry.Get()
	results := make(chan probe.Outcome, len(portList))
	probeCtx := context.WithoutCancel(ctx)

	for _, p := range portList {
		go func() {
			results <- c.prober.CheckPort(probeCtx, ip, p, c.probeTimeout)
		}()
	}

	for range portList {
		select {
		case out := <-results:
			if out.Open() {
				c.logger.Info("open port found", "ip", ip, "port", out.Port)
				return out.Port, true, nil
			}
			c.logger.Debug("port negative", "ip", ip, "port", out.Port, "status", out.Status, "reason", out.Reason)
		case <-ctx.Done():
			return 0, false, ctx.Err()
		}
	}

	return 0, false, nil
}

// record appends ip to the proxy list.
func (c *Classifier) record(ctx context.Context, ip string) error {
	if err := c.store.AppendProxyIP(ctx, ip); err != nil {
		return fmt.Errorf("failed to record proxy %s: %w", ip, err)
	}
	return nil
}

func (c *Classifier) result(ip string, proxy bool, signal Signal, port int) Result {
	return Result{
		IP:        ip,
		Proxy:     proxy,
		Signal:    signal,
		Port:      port,
		CheckedAt: c.now(),
	}
}
