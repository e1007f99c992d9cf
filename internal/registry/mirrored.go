package registry

import (
	"context"

	"go.uber.org/zap"

	myredis "kama_address_book/internal/dao/redis"
	"kama_address_book/internal/model"
	"kama_address_book/internal/vcard"
	"kama_address_book/pkg/constants"
)

// Mirrored 在 Redis 集合中镜像好友列表的成员标识
// 写入成功后异步更新镜像，同一镜像的更新按写入顺序执行；镜像失败只记录日志，不影响好友列表本身
type Mirrored struct {
	Registry
	cache myredis.AsyncSetCache
	key   string
}

// NewMirrored 包装一个好友列表
func NewMirrored(inner Registry, cache myredis.AsyncSetCache, listName string) *Mirrored {
	return &Mirrored{
		Registry: inner,
		cache:    cache,
		key:      constants.FRIEND_LIST_KEY_HEAD + listName,
	}
}

// Records 枚举后整体重建镜像
func (m *Mirrored) Records() ([]*model.Friend, error) {
	records, err := m.Registry.Records()
	if err != nil {
		return nil, err
	}
	members := refKeys(records)
	m.cache.SubmitTask(m.key, func() {
		ctx := context.Background()
		if err := m.cache.Delete(ctx, m.key); err != nil {
			zap.L().Error("reset friend mirror error", zap.Error(err))
			return
		}
		if err := m.cache.AddToSet(ctx, m.key, members...); err != nil {
			zap.L().Error("rebuild friend mirror error", zap.Error(err))
		}
	})
	return records, nil
}

func (m *Mirrored) AddRecord(profile *vcard.Vcard) (*model.Friend, error) {
	friend, err := m.Registry.AddRecord(profile)
	if err != nil {
		return nil, err
	}
	refKey := friend.RefKey
	m.cache.SubmitTask(m.key, func() {
		if err := m.cache.AddToSet(context.Background(), m.key, refKey); err != nil {
			zap.L().Error("mirror friend add error", zap.Error(err), zap.String("refKey", refKey))
		}
	})
	return friend, nil
}

func (m *Mirrored) RemoveRecord(friend *model.Friend) error {
	return m.RemoveRecords([]*model.Friend{friend})
}

func (m *Mirrored) RemoveRecords(friends []*model.Friend) error {
	if err := m.Registry.RemoveRecords(friends); err != nil {
		return err
	}
	members := refKeys(friends)
	m.cache.SubmitTask(m.key, func() {
		if err := m.cache.RemoveFromSet(context.Background(), m.key, members...); err != nil {
			zap.L().Error("mirror friend remove error", zap.Error(err))
		}
	})
	return nil
}

func refKeys(friends []*model.Friend) []interface{} {
	members := make([]interface{}, 0, len(friends))
	for _, f := range friends {
		members = append(members, f.RefKey)
	}
	return members
}
