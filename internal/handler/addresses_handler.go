package handler

import (
	"github.com/gin-gonic/gin"

	"kama_address_book/internal/addresses"
	"kama_address_book/internal/contact"
	"kama_address_book/internal/dto/request"
	"kama_address_book/internal/dto/respond"
	"kama_address_book/internal/listmodel"
	"kama_address_book/pkg/errorx"
)

// AddressesHandler SIP 地址列表处理器
type AddressesHandler struct {
	loop     Caller
	model    *addresses.SipAddressesModel
	contacts *listmodel.ContactsListModel
}

func NewAddressesHandler(loop Caller, model *addresses.SipAddressesModel, contacts *listmodel.ContactsListModel) *AddressesHandler {
	return &AddressesHandler{loop: loop, model: model, contacts: contacts}
}

// RowCountHandler GET /addresses/rowCount
func (h *AddressesHandler) RowCountHandler(c *gin.Context) {
	var n int
	if !onLoop(c, h.loop, func() { n = h.model.RowCount(listmodel.RootIndex()) }) {
		return
	}
	HandleSuccess(c, respond.RowCountRespond{RowCount: n})
}

// DataHandler GET /addresses/data?row=0&role=sipAddress
func (h *AddressesHandler) DataHandler(c *gin.Context) {
	var req request.DataRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	var value any
	if !onLoop(c, h.loop, func() {
		role, ok := roleByName(h.model.RoleNames(), req.Role)
		if !ok {
			return
		}
		value = h.model.Data(listmodel.Index(*req.Row), role)
		if role == listmodel.RoleContact {
			value = h.contactValue(value)
		}
	}) {
		return
	}
	HandleSuccess(c, value)
}

// ContactHandler 按 SIP 地址反查联系人
// GET /addresses/contact?sipAddress=sip:alice@example.org
// 响应: respond.ContactRespond，row 为联系人列表中的行号
func (h *AddressesHandler) ContactHandler(c *gin.Context) {
	var req request.AddressContactRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	var value any
	if !onLoop(c, h.loop, func() {
		value = h.contactValue(h.model.MapSipAddressToContact(req.SipAddress))
	}) {
		return
	}
	if value == nil {
		HandleError(c, errorx.Newf(errorx.CodeNotFound, "地址 %s 不属于任何联系人", req.SipAddress))
		return
	}
	HandleSuccess(c, value)
}

// contactValue 以联系人列表中的行号构造响应
func (h *AddressesHandler) contactValue(v any) any {
	c, ok := v.(*contact.Contact)
	if !ok || c == nil {
		return nil
	}
	row, found := h.contacts.Find(c.RefKey())
	if found == nil {
		return nil
	}
	return respond.NewContactRespond(row, found)
}
