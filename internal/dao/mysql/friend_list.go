package mysql

import (
	"kama_address_book/internal/dao/mysql/internal"
	"kama_address_book/internal/model"
	"kama_address_book/internal/registry"
	"kama_address_book/internal/vcard"
	"kama_address_book/pkg/errorx"

	"gorm.io/gorm"
)

// FriendList 基于 MySQL 的好友列表
type FriendList struct {
	db   *gorm.DB
	name string
}

// NewFriendList 创建名为 name 的好友列表
func NewFriendList(db *gorm.DB, name string) *FriendList {
	return &FriendList{db: db, name: name}
}

// Records 按主键顺序枚举
func (r *FriendList) Records() ([]*model.Friend, error) {
	var friends []*model.Friend
	if err := r.db.Where("list_name = ?", r.name).Order("id ASC").Find(&friends).Error; err != nil {
		return nil, internal.WrapDBErrorf(err, "查询好友列表 list_name=%s", r.name)
	}
	return friends, nil
}

// FindRecord 按标识查找
func (r *FriendList) FindRecord(refKey string) (*model.Friend, error) {
	var friend model.Friend
	if err := r.db.Where("list_name = ? AND ref_key = ?", r.name, refKey).First(&friend).Error; err != nil {
		return nil, internal.WrapDBErrorf(err, "查询好友 ref_key=%s", refKey)
	}
	return &friend, nil
}

// AddRecord 创建好友记录
func (r *FriendList) AddRecord(profile *vcard.Vcard) (*model.Friend, error) {
	friend, err := registry.NewRecord(r.name, profile)
	if err != nil {
		return nil, err
	}
	if err := r.db.Create(friend).Error; err != nil {
		return nil, internal.WrapDBError(err, "创建好友记录")
	}
	return friend, nil
}

// RemoveRecord 软删除一条好友记录
func (r *FriendList) RemoveRecord(friend *model.Friend) error {
	return r.RemoveRecords([]*model.Friend{friend})
}

// RemoveRecords 在一个事务中软删除多条记录，任何一条不存在则整体回滚
func (r *FriendList) RemoveRecords(friends []*model.Friend) error {
	if len(friends) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, f := range friends {
			if f == nil {
				return errorx.ErrRecordNotFound
			}
			res := tx.Where("list_name = ? AND ref_key = ?", r.name, f.RefKey).Delete(&model.Friend{})
			if res.Error != nil {
				return internal.WrapDBErrorf(res.Error, "删除好友 ref_key=%s", f.RefKey)
			}
			if res.RowsAffected == 0 {
				return errorx.Wrapf(errorx.ErrRecordNotFound, errorx.CodeNotFound, "删除好友 ref_key=%s", f.RefKey)
			}
		}
		return nil
	})
}

var _ registry.Registry = (*FriendList)(nil)
