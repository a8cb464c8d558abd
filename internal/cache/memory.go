package cache

import (
	"context"
	"slices"
	"sort"
	"sync"
)

// MemoryStore is a process-local Store. It never returns errors.
type MemoryStore struct {
	mu       sync.RWMutex
	ports    map[int]struct{}
	proxyIPs []string
}

var (
	_ Store      = (*MemoryStore)(nil)
	_ PortLister = (*MemoryStore)(nil)
)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ports:    make(map[int]struct{}),
		proxyIPs: make([]string, 0),
	}
}

// ClearPorts empties the ports set.
func (m *MemoryStore) ClearPorts(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.ports)
	return nil
}

// AddPort adds p to the ports set.
func (m *MemoryStore) AddPort(_ context.Context, p int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ports[p] = struct{}{}
	return nil
}

// ListPorts returns the ports set in ascending order.
func (m *MemoryStore) ListPorts(_ context.Context) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]int, 0, len(m.ports))
	for p := range m.ports {
		out = append(out, p)
	}
	sort.Ints(out)
	return out, nil
}

// ListProxyIPs returns a copy of the proxy-IP list.
func (m *MemoryStore) ListProxyIPs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.proxyIPs), nil
}

// AppendProxyIP appends ip to the proxy-IP list.
func (m *MemoryStore) AppendProxyIP(_ context.Context, ip string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proxyIPs = append(m.proxyIPs, ip)
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
