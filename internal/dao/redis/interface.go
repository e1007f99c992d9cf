// Package redis 定义好友成员镜像所需的缓存接口
// 上层依赖此接口而非具体 Redis 实现
package redis

import (
	"context"
)

// SetCache 集合缓存接口
type SetCache interface {
	// AddToSet 向集合添加成员
	AddToSet(ctx context.Context, key string, members ...interface{}) error
	// RemoveFromSet 从集合中移除成员
	RemoveFromSet(ctx context.Context, key string, members ...interface{}) error
	// GetSetMembers 获取集合中的所有成员
	GetSetMembers(ctx context.Context, key string) ([]string, error)
	// Delete 删除键（如果存在）
	Delete(ctx context.Context, key string) error
}

// AsyncSetCache 带异步任务能力的集合缓存
type AsyncSetCache interface {
	SetCache
	// SubmitTask 提交异步缓存任务，同一个 key 的任务按提交顺序执行
	SubmitTask(key string, action func())
}
