package classifier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nao1215/proxyip/internal/cache"
	"github.com/nao1215/proxyip/internal/probe"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockStore is an in-memory cache.Store with call counters and injectable failures.
type mockStore struct {
	mu       sync.Mutex
	ports    []int
	proxyIPs []string

	listErr   error
	appendErr error
	clearErr  error

	listCalls   atomic.Int32
	appendCalls atomic.Int32
	clearCalls  atomic.Int32
	closed      atomic.Bool
}

var _ cache.Store = (*mockStore)(nil)

func (m *mockStore) ClearPorts(_ context.Context) error {
	m.clearCalls.Add(1)
	if m.clearErr != nil {
		return &cache.UnavailableError{Op: "clear ports", Err: m.clearErr}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ports = nil
	return nil
}

func (m *mockStore) AddPort(_ context.Context, p int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.ports, p) {
		m.ports = append(m.ports, p)
	}
	return nil
}

func (m *mockStore) ListProxyIPs(_ context.Context) ([]string, error) {
	m.listCalls.Add(1)
	if m.listErr != nil {
		return nil, &cache.UnavailableError{Op: "list proxy ips", Err: m.listErr}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.proxyIPs), nil
}

func (m *mockStore) AppendProxyIP(_ context.Context, ip string) error {
	m.appendCalls.Add(1)
	if m.appendErr != nil {
		return &cache.UnavailableError{Op: "append proxy ip", Err: m.appendErr}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proxyIPs = append(m.proxyIPs, ip)
	return nil
}

func (m *mockStore) Close() error {
	m.closed.Store(true)
	return nil
}

func (m *mockStore) snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.proxyIPs)
}

func (m *mockStore) portSet() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.ports)
}

// mockOracle returns a fixed answer per IP and counts calls.
type mockOracle struct {
	exits map[string]bool
	err   error
	calls atomic.Int32
}

func (m *mockOracle) CheckTorExitNode(_ context.Context, ip string) (bool, error) {
	m.calls.Add(1)
	if m.err != nil {
		return false, m.err
	}
	return m.exits[ip], nil
}

// portBehavior scripts one port of the mockProber.
type portBehavior struct {
	status probe.Status
	delay  time.Duration

	// wait blocks the probe until the channel is closed.
	wait <-chan struct{}
}

// mockProber answers from per-port behaviors. Unknown ports are closed.
type mockProber struct {
	behaviors map[int]portBehavior
	calls     atomic.Int32
	finished  atomic.Int32
}

func (m *mockProber) CheckPort(_ context.Context, ip string, port int, _ time.Duration) probe.Outcome {
	m.calls.Add(1)
	defer m.finished.Add(1)

	b := m.behaviors[port]
	if b.delay > 0 {
		time.Sleep(b.delay)
	}
	if b.wait != nil {
		<-b.wait
	}

	out := probe.Outcome{IP: ip, Port: port, Status: b.status}
	if b.status == probe.StatusError {
		out.Reason = errors.New("i/o timeout").Error()
	}
	return out
}
