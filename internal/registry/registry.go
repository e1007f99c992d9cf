// Package registry 定义好友列表（联系人持久化存储）接口
// 好友列表归通信引擎所有，列表模型通过该接口读写记录
package registry

import (
	"github.com/google/uuid"

	"kama_address_book/internal/model"
	"kama_address_book/internal/vcard"
)

// Registry 好友列表
type Registry interface {
	// Records 按确定顺序枚举全部记录
	Records() ([]*model.Friend, error)
	// FindRecord 按标识查找记录
	FindRecord(refKey string) (*model.Friend, error)
	// AddRecord 由名片新建一条记录
	AddRecord(profile *vcard.Vcard) (*model.Friend, error)
	// RemoveRecord 删除一条记录
	RemoveRecord(friend *model.Friend) error
	// RemoveRecords 批量删除，要么全部成功要么全部不生效
	RemoveRecords(friends []*model.Friend) error
}

// ChangeKind 引擎侧变更类型
type ChangeKind int8

const (
	ChangeAdded ChangeKind = iota + 1
	ChangeRemoved
	ChangePresence
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangePresence:
		return "presence"
	default:
		return "unknown"
	}
}

// Change 由通信引擎异步产生的好友列表变更
type Change struct {
	Kind     ChangeKind
	RefKey   string
	Presence string
}

// NewRecord 为名片分配标识并生成待写入的记录
func NewRecord(listName string, profile *vcard.Vcard) (*model.Friend, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	card := profile.Clone()
	refKey := uuid.NewString()
	card.UID = "urn:uuid:" + refKey

	text, err := card.Marshal()
	if err != nil {
		return nil, err
	}
	return &model.Friend{
		RefKey:       refKey,
		ListName:     listName,
		DisplayName:  card.Username,
		SipAddresses: card.SipAddresses,
		Avatar:       card.Avatar,
		Vcard:        text,
	}, nil
}
