package respond

import "kama_address_book/internal/contact"

// ContactRespond 一行联系人的全部字段
// 使用位置:
//   - handler/contacts_handler.go: DataHandler, RowsHandler, AddContactHandler
//   - handler/addresses_handler.go: ContactHandler
type ContactRespond struct {
	Row            int      `json:"row"`
	RefKey         string   `json:"refKey"`
	Username       string   `json:"username"`
	SipAddress     string   `json:"sipAddress"`
	SipAddresses   []string `json:"sipAddresses"`
	Avatar         string   `json:"avatar"`
	PresenceStatus string   `json:"presenceStatus"`
}

// NewContactRespond 由条目和行号构造
func NewContactRespond(row int, c *contact.Contact) ContactRespond {
	return ContactRespond{
		Row:            row,
		RefKey:         c.RefKey(),
		Username:       c.Username(),
		SipAddress:     c.PrimarySipAddress(),
		SipAddresses:   c.SipAddresses(),
		Avatar:         c.Avatar(),
		PresenceStatus: c.Presence().String(),
	}
}

// RowCountRespond 行数
type RowCountRespond struct {
	RowCount int `json:"rowCount"`
}

// RowsRespond 分页读取结果
// 使用位置:
//   - handler/contacts_handler.go: RowsHandler
type RowsRespond struct {
	Total int              `json:"total"`
	Rows  []ContactRespond `json:"rows"`
}

// RoleRespond 字段标识与名称
type RoleRespond struct {
	Role int    `json:"role"`
	Name string `json:"name"`
}
