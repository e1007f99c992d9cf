package redis

import (
	"context"
	"strconv"
	"time"

	"kama_address_book/internal/config"
	"kama_address_book/pkg/errorx"

	"github.com/go-redis/redis/v8"
)

// Init 按配置创建 Redis 客户端和缓存服务，并检查连通性
func Init(conf *config.RedisConfig) (*RedisCache, error) {
	addr := conf.Host + ":" + strconv.Itoa(conf.Port)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     conf.Password,
		DB:           conf.Db,
		PoolSize:     20,
		MinIdleConns: 4,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errorx.Wrapf(err, errorx.CodeCacheError, "redis ping %s", addr)
	}

	return NewRedisCache(client, 4, 1024), nil
}
