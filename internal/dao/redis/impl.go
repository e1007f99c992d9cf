// Package redis 提供 SetCache 接口的 Redis 实现
package redis

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"kama_address_book/pkg/errorx"
)

// RedisCache Redis 缓存实现，内置一个按键分道的异步任务 Worker Pool
// 同一个键的任务总是落到同一个 Worker，按提交顺序执行
type RedisCache struct {
	client    *redis.Client
	lanes     []chan func()
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRedisCache 创建 Redis 缓存实例并启动 Worker，每个 Worker 独占一条容量为 taskChanSize 的队列
func NewRedisCache(client *redis.Client, workerNum, taskChanSize int) *RedisCache {
	if workerNum < 1 {
		workerNum = 1
	}
	rc := &RedisCache{
		client: client,
		lanes:  make([]chan func(), workerNum),
	}
	for i := range rc.lanes {
		rc.lanes[i] = make(chan func(), taskChanSize)
		rc.wg.Add(1)
		go rc.startWorker(rc.lanes[i])
	}
	zap.L().Info("Redis Cache Workers started", zap.Int("workers", workerNum), zap.Int("buffer", taskChanSize))
	return rc
}

// startWorker 单个 Worker 消费循环，panic 后重启
func (r *RedisCache) startWorker(lane chan func()) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("Redis Worker panic", zap.Any("recover", rec))
			go r.startWorker(lane)
			return
		}
		r.wg.Done()
	}()

	for task := range lane {
		if task != nil {
			task()
		}
	}
}

// ==================== Set 集合操作 ====================

// AddToSet 向集合添加成员
func (r *RedisCache) AddToSet(ctx context.Context, key string, members ...interface{}) error {
	if len(members) == 0 {
		return nil
	}
	if err := r.client.SAdd(ctx, key, members...).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis sadd key %s", key)
	}
	return nil
}

// RemoveFromSet 从集合中移除成员
func (r *RedisCache) RemoveFromSet(ctx context.Context, key string, members ...interface{}) error {
	if len(members) == 0 {
		return nil
	}
	if err := r.client.SRem(ctx, key, members...).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis srem key %s", key)
	}
	return nil
}

// GetSetMembers 获取集合中的所有成员
func (r *RedisCache) GetSetMembers(ctx context.Context, key string) ([]string, error) {
	members, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, errorx.Wrapf(err, errorx.CodeCacheError, "redis smembers key %s", key)
	}
	return members, nil
}

// ==================== Key 操作 ====================

// Delete 删除键（如果存在）
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis del key %s", key)
	}
	return nil
}

// ==================== 异步任务 ====================

// SubmitTask 提交异步缓存任务，同一个 key 的任务按提交顺序执行
func (r *RedisCache) SubmitTask(key string, action func()) {
	lane := r.lanes[r.laneOf(key)]
	select {
	case lane <- action:
	default:
		// 队列满时阻塞，保持同键顺序
		zap.L().Warn("Redis cache task channel full, waiting", zap.String("key", key))
		lane <- action
	}
}

func (r *RedisCache) laneOf(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(r.lanes)))
}

// Close 等待已提交的任务执行完毕并关闭连接
func (r *RedisCache) Close() error {
	var err error
	r.closeOnce.Do(func() {
		for _, lane := range r.lanes {
			close(lane)
		}
		r.wg.Wait()
		err = r.client.Close()
	})
	return err
}

var _ AsyncSetCache = (*RedisCache)(nil)
