//go:build !integration

package redis

import (
	"context"
	"strconv"
	"time"
)

// memRedis is an in-memory RedisClient good enough for tag and counter logic.
type memRedis struct {
	kv   map[string]string
	sets map[string]map[string]struct{}
	ttl  map[string]time.Duration

	SMembersErr error
}

func newMemRedis() *memRedis {
	return &memRedis{
		kv:   map[string]string{},
		sets: map[string]map[string]struct{}{},
		ttl:  map[string]time.Duration{},
	}
}

var _ RedisClient = (*memRedis)(nil)

func (m *memRedis) Ping(ctx context.Context) error { return nil }
func (m *memRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	switch v := value.(type) {
	case []byte:
		m.kv[key] = string(v)
	case string:
		m.kv[key] = v
	}
	m.ttl[key] = expiration
	return nil
}
func (m *memRedis) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.kv[key]
	if !ok {
		return "", Nil
	}
	return v, nil
}
func (m *memRedis) Incr(ctx context.Context, key string) (int64, error) {
	n, _ := strconv.ParseInt(m.kv[key], 10, 64)
	n++
	m.kv[key] = strconv.FormatInt(n, 10)
	return n, nil
}
func (m *memRedis) Expire(ctx context.Context, key string, expiration time.Duration) error {
	m.ttl[key] = expiration
	return nil
}
func (m *memRedis) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.kv, k)
		delete(m.sets, k)
		delete(m.ttl, k)
	}
	return nil
}
func (m *memRedis) SAdd(ctx context.Context, key string, members ...string) error {
	s, ok := m.sets[key]
	if !ok {
		s = map[string]struct{}{}
		m.sets[key] = s
	}
	for _, mem := range members {
		s[mem] = struct{}{}
	}
	return nil
}
func (m *memRedis) SMembers(ctx context.Context, key string) ([]string, error) {
	if m.SMembersErr != nil {
		return nil, m.SMembersErr
	}
	var out []string
	for k := range m.sets[key] {
		out = append(out, k)
	}
	return out, nil
}
func (m *memRedis) Close() error { return nil }
