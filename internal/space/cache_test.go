package space

import (
	"context"
	"testing"
	"time"

	"spacetime-server/internal/shared/redis"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainCodec(t *testing.T) {
	chain := []ID{5, 4, 3, 2, 1, 0}
	assert.Equal(t, "5,4,3,2,1,0", encodeChain(chain))

	decoded, err := decodeChain("5,4,3,2,1,0")
	require.NoError(t, err)
	assert.Equal(t, chain, decoded)

	_, err = decodeChain("")
	assert.Error(t, err)
	_, err = decodeChain("5,x,0")
	assert.Error(t, err)

	assert.Equal(t, "spacetime:ancestors:12", ancestorKey(12))
}

func TestNewAncestorCache_NilClientNeverHits(t *testing.T) {
	cache := NewAncestorCache(nil, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 3, []ID{3, 0}))
	_, ok, err := cache.Get(ctx, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, cache.Flush(ctx))
}

func TestRedisAncestorCache_UnreachableServer(t *testing.T) {
	client := &redis.Client{Client: goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})}
	t.Cleanup(func() { client.Close() })

	cache := NewAncestorCache(client, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, 3)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, cache.Set(ctx, 3, []ID{3, 0}))
}
