package cache

import (
	"context"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the ports set and proxy-IP list in Redis under PortsKey
// and ProxyIPsKey. The go-redis client is safe for concurrent use.
type RedisStore struct {
	client *redis.Client
}

var (
	_ Store      = (*RedisStore)(nil)
	_ PortLister = (*RedisStore)(nil)
)

// OpenRedis parses a redis:// or rediss:// URL, connects, and verifies the
// connection with PING.
func OpenRedis(ctx context.Context, rawURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, unavailable("open", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, unavailable("ping", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStore wraps an existing client. The store takes ownership and
// closes it on Close.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// ClearPorts deletes the ports set.
func (s *RedisStore) ClearPorts(ctx context.Context) error {
	return unavailable("clear ports", s.client.Del(ctx, PortsKey).Err())
}

// AddPort adds p to the ports set.
func (s *RedisStore) AddPort(ctx context.Context, p int) error {
	return unavailable("add port", s.client.SAdd(ctx, PortsKey, p).Err())
}

// ListPorts returns the ports set in ascending order.
// Members that are not integers are skipped.
func (s *RedisStore) ListPorts(ctx context.Context) ([]int, error) {
	members, err := s.client.SMembers(ctx, PortsKey).Result()
	if err != nil {
		return nil, unavailable("list ports", err)
	}

	out := make([]int, 0, len(members))
	for _, m := range members {
		p, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	sort.Ints(out)
	return out, nil
}

// ListProxyIPs returns the full proxy-IP list (LRANGE 0 -1).
func (s *RedisStore) ListProxyIPs(ctx context.Context) ([]string, error) {
	ips, err := s.client.LRange(ctx, ProxyIPsKey, 0, -1).Result()
	if err != nil {
		return nil, unavailable("list proxy ips", err)
	}
	return ips, nil
}

// AppendProxyIP pushes ip to the tail of the proxy-IP list.
func (s *RedisStore) AppendProxyIP(ctx context.Context, ip string) error {
	return unavailable("append proxy ip", s.client.RPush(ctx, ProxyIPsKey, ip).Err())
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
