package request

import "kama_address_book/internal/vcard"

// DataRequest 读取某行某字段
// 使用位置:
//   - handler/contacts_handler.go: DataHandler
//   - handler/addresses_handler.go: DataHandler
type DataRequest struct {
	Row  *int   `form:"row" binding:"required"`
	Role string `form:"role" binding:"required"`
}

// RowsRequest 分页读取整行
// 使用位置:
//   - handler/contacts_handler.go: RowsHandler
type RowsRequest struct {
	Offset int `form:"offset" binding:"omitempty,min=0"`
	Limit  int `form:"limit" binding:"omitempty,min=1"`
}

// AddContactRequest 由名片新增联系人
// 使用位置:
//   - handler/contacts_handler.go: AddContactHandler
type AddContactRequest struct {
	Username     string   `json:"username" binding:"required,max=128"`
	SipAddresses []string `json:"sipAddresses" binding:"required,min=1,dive,required,sipaddr"`
	Avatar       string   `json:"avatar" binding:"omitempty,max=512"`
	Organization string   `json:"organization" binding:"omitempty,max=128"`
	Emails       []string `json:"emails" binding:"omitempty,dive,email"`
}

// Vcard 转换为名片
func (r *AddContactRequest) Vcard() *vcard.Vcard {
	return &vcard.Vcard{
		Username:     r.Username,
		SipAddresses: r.SipAddresses,
		Avatar:       r.Avatar,
		Organization: r.Organization,
		Emails:       r.Emails,
	}
}

// RemoveContactRequest 按标识删除联系人
// 使用位置:
//   - handler/contacts_handler.go: RemoveContactHandler
type RemoveContactRequest struct {
	RefKey string `json:"refKey" binding:"required"`
}

// RemoveRowRequest 删除一行
// 使用位置:
//   - handler/contacts_handler.go: RemoveRowHandler
type RemoveRowRequest struct {
	Row *int `json:"row" binding:"required"`
}

// RemoveRowsRequest 删除连续多行
// 使用位置:
//   - handler/contacts_handler.go: RemoveRowsHandler
type RemoveRowsRequest struct {
	Row   *int `json:"row" binding:"required"`
	Count *int `json:"count" binding:"required"`
}

// AddressContactRequest 按 SIP 地址反查联系人
// 使用位置:
//   - handler/addresses_handler.go: ContactHandler
type AddressContactRequest struct {
	SipAddress string `form:"sipAddress" binding:"required"`
}
