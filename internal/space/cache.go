package space

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"spacetime-server/internal/shared/redis"

	goredis "github.com/redis/go-redis/v9"
)

// AncestorCache stores ancestor ID chains. Chains never change once a space
// exists, so entries are only dropped when the whole tree is reset.
type AncestorCache interface {
	Get(ctx context.Context, id ID) ([]ID, bool, error)
	Set(ctx context.Context, id ID, chain []ID) error
	Flush(ctx context.Context) error
}

const ancestorKeyPrefix = "spacetime:ancestors:"

type redisAncestorCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewAncestorCache returns a redis-backed cache, or a cache that never hits
// when client is nil.
func NewAncestorCache(client *redis.Client, ttl time.Duration) AncestorCache {
	if client == nil || client.Client == nil {
		return noCache{}
	}
	return &redisAncestorCache{client: client.Client, ttl: ttl}
}

func (c *redisAncestorCache) Get(ctx context.Context, id ID) ([]ID, bool, error) {
	val, err := c.client.Get(ctx, ancestorKey(id)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read ancestor cache: %w", err)
	}

	chain, err := decodeChain(val)
	if err != nil {
		return nil, false, err
	}
	return chain, true, nil
}

func (c *redisAncestorCache) Set(ctx context.Context, id ID, chain []ID) error {
	if err := c.client.Set(ctx, ancestorKey(id), encodeChain(chain), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write ancestor cache: %w", err)
	}
	return nil
}

func (c *redisAncestorCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, ancestorKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan ancestor cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

type noCache struct{}

func (noCache) Get(context.Context, ID) ([]ID, bool, error) { return nil, false, nil }
func (noCache) Set(context.Context, ID, []ID) error         { return nil }
func (noCache) Flush(context.Context) error                 { return nil }

func ancestorKey(id ID) string {
	return ancestorKeyPrefix + strconv.Itoa(int(id))
}

func encodeChain(chain []ID) string {
	parts := make([]string, len(chain))
	for i, id := range chain {
		parts[i] = strconv.Itoa(int(id))
	}
	return strings.Join(parts, ",")
}

func decodeChain(s string) ([]ID, error) {
	if s == "" {
		return nil, fmt.Errorf("empty ancestor chain")
	}
	parts := strings.Split(s, ",")
	chain := make([]ID, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad ancestor chain %q: %w", s, err)
		}
		chain[i] = ID(v)
	}
	return chain, nil
}
