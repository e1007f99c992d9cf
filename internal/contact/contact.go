// Package contact 定义联系人条目（ContactModel）
// 条目持有好友列表记录的句柄和解析后的名片，列表模型只管理条目的成员关系
package contact

import (
	"strings"

	"kama_address_book/internal/model"
	"kama_address_book/internal/vcard"
	"kama_address_book/pkg/errorx"
)

// Presence 在线状态，由通信引擎推送
type Presence int8

const (
	PresenceOffline Presence = iota
	PresenceOnline
	PresenceBusy
	PresenceDoNotDisturb
)

func (p Presence) String() string {
	switch p {
	case PresenceOnline:
		return "online"
	case PresenceBusy:
		return "busy"
	case PresenceDoNotDisturb:
		return "doNotDisturb"
	default:
		return "offline"
	}
}

// ParsePresence 未知取值按离线处理
func ParsePresence(s string) Presence {
	switch strings.ToLower(s) {
	case "online":
		return PresenceOnline
	case "busy":
		return PresenceBusy
	case "donotdisturb", "dnd":
		return PresenceDoNotDisturb
	default:
		return PresenceOffline
	}
}

// Contact 一个联系人条目
type Contact struct {
	friend   *model.Friend
	card     *vcard.Vcard
	presence Presence
}

// New 由好友列表记录构造条目
// 记录中的 vCard 文本优先；旧记录没有 vCard 时退回到冗余列
func New(friend *model.Friend) (*Contact, error) {
	if friend == nil || friend.RefKey == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "好友记录缺少标识")
	}
	var card *vcard.Vcard
	if friend.Vcard != "" {
		parsed, err := vcard.Parse(friend.Vcard)
		if err != nil {
			return nil, err
		}
		card = parsed
	} else {
		card = &vcard.Vcard{
			Username:     friend.DisplayName,
			SipAddresses: append([]string(nil), friend.SipAddresses...),
			Avatar:       friend.Avatar,
		}
	}
	return &Contact{friend: friend, card: card}, nil
}

// RefKey 好友记录标识，也是条目的身份
func (c *Contact) RefKey() string { return c.friend.RefKey }

// Friend 返回底层记录
func (c *Contact) Friend() *model.Friend { return c.friend }

// Vcard 返回名片副本
func (c *Contact) Vcard() *vcard.Vcard { return c.card.Clone() }

func (c *Contact) Username() string { return c.card.Username }

func (c *Contact) Avatar() string { return c.card.Avatar }

func (c *Contact) SipAddresses() []string {
	return append([]string(nil), c.card.SipAddresses...)
}

func (c *Contact) PrimarySipAddress() string { return c.card.PrimarySipAddress() }

// HasSipAddress 判断条目是否包含指定 SIP 地址
func (c *Contact) HasSipAddress(addr string) bool {
	for _, a := range c.card.SipAddresses {
		if a == addr {
			return true
		}
	}
	return false
}

func (c *Contact) Presence() Presence { return c.presence }

// SetPresence 返回状态是否发生变化
func (c *Contact) SetPresence(p Presence) bool {
	if c.presence == p {
		return false
	}
	c.presence = p
	return true
}
