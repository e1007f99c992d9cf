package redis

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kama_address_book/internal/config"
)

func TestSubmitTaskRunsEveryTask(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	rc := NewRedisCache(client, 2, 1)

	var n atomic.Int32
	for i := 0; i < 20; i++ {
		rc.SubmitTask(fmt.Sprintf("k%d", i), func() { n.Add(1) })
	}
	require.NoError(t, rc.Close())
	assert.Equal(t, int32(20), n.Load())
	// 重复关闭无副作用
	assert.NoError(t, rc.Close())
}

func TestSubmitTaskKeepsOrderPerKey(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	rc := NewRedisCache(client, 4, 8)

	var mu sync.Mutex
	got := make(map[string][]int)
	for i := 0; i < 200; i++ {
		key := fmt.Sprintf("k%d", i%3)
		i := i
		rc.SubmitTask(key, func() {
			mu.Lock()
			got[key] = append(got[key], i)
			mu.Unlock()
		})
	}
	require.NoError(t, rc.Close())

	total := 0
	for key, seq := range got {
		assert.True(t, sort.IntsAreSorted(seq), "key %s ran out of order: %v", key, seq)
		total += len(seq)
	}
	assert.Equal(t, 200, total)
}

// 需要本地 Redis，连接失败时跳过
func TestSetOps(t *testing.T) {
	rc, err := Init(&config.GetConfig().RedisConfig)
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	defer rc.Close()

	ctx := context.Background()
	key := "test:" + uuid.NewString()
	defer rc.Delete(ctx, key)

	require.NoError(t, rc.AddToSet(ctx, key, "a", "b"))
	require.NoError(t, rc.RemoveFromSet(ctx, key, "a"))
	members, err := rc.GetSetMembers(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, members)
}
