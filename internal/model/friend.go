package model

import (
	"gorm.io/gorm"
)

// Friend 好友列表中的一条持久化记录
// Vcard 列保存 vCard 4.0 文本，是记录的权威数据；其余列为便于查询的冗余字段
type Friend struct {
	gorm.Model
	RefKey       string   `gorm:"column:ref_key;uniqueIndex;type:char(36);not null;comment:记录唯一标识"`
	ListName     string   `gorm:"column:list_name;index;type:varchar(64);not null;comment:所属好友列表"`
	DisplayName  string   `gorm:"column:display_name;type:varchar(128);not null;comment:显示名"`
	SipAddresses []string `gorm:"column:sip_addresses;serializer:json;type:text;comment:SIP 地址列表"`
	Avatar       string   `gorm:"column:avatar;type:varchar(512);comment:头像"`
	Vcard        string   `gorm:"column:vcard;type:text;not null;comment:vCard 文本"`
}

func (Friend) TableName() string {
	return "friend"
}
