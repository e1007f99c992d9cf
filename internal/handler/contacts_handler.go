// Package handler 提供 HTTP 请求处理器
// 本文件处理联系人列表模型的读写请求
package handler

import (
	"io"
	"sort"

	"github.com/gin-gonic/gin"

	"kama_address_book/internal/contact"
	"kama_address_book/internal/dto/request"
	"kama_address_book/internal/dto/respond"
	"kama_address_book/internal/listmodel"
	"kama_address_book/internal/vcard"
	"kama_address_book/pkg/constants"
	"kama_address_book/pkg/errorx"
)

// ContactsHandler 联系人列表处理器
type ContactsHandler struct {
	loop  Caller
	model *listmodel.ContactsListModel
}

func NewContactsHandler(loop Caller, model *listmodel.ContactsListModel) *ContactsHandler {
	return &ContactsHandler{loop: loop, model: model}
}

// RowCountHandler 行数
// GET /contacts/rowCount
// 响应: respond.RowCountRespond
func (h *ContactsHandler) RowCountHandler(c *gin.Context) {
	var n int
	if !onLoop(c, h.loop, func() { n = h.model.RowCount(listmodel.RootIndex()) }) {
		return
	}
	HandleSuccess(c, respond.RowCountRespond{RowCount: n})
}

// RoleNamesHandler 字段标识与名称，按标识升序
// GET /contacts/roleNames
// 响应: []respond.RoleRespond
func (h *ContactsHandler) RoleNamesHandler(c *gin.Context) {
	var names map[listmodel.Role]string
	if !onLoop(c, h.loop, func() { names = h.model.RoleNames() }) {
		return
	}
	HandleSuccess(c, sortedRoles(names))
}

// DataHandler 读取某行某字段，越界或未知字段返回 null
// GET /contacts/data?row=0&role=username
// 查询参数: request.DataRequest
func (h *ContactsHandler) DataHandler(c *gin.Context) {
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
		value = dataValue(*req.Row, h.model.Data(listmodel.Index(*req.Row), role))
	}) {
		return
	}
	HandleSuccess(c, value)
}

// RowsHandler 分页读取整行
// GET /contacts/rows?offset=0&limit=50
// 查询参数: request.RowsRequest
// 响应: respond.RowsRespond
func (h *ContactsHandler) RowsHandler(c *gin.Context) {
	var req request.RowsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if req.Limit == 0 {
		req.Limit = constants.DEFAULT_PAGE_LIMIT
	}
	if req.Limit > constants.MAX_PAGE_LIMIT {
		HandleError(c, errorx.Newf(errorx.CodeInvalidParam, "limit 不能超过 %d", constants.MAX_PAGE_LIMIT))
		return
	}
	var rsp respond.RowsRespond
	if !onLoop(c, h.loop, func() {
		rsp.Total = h.model.RowCount(listmodel.RootIndex())
		rsp.Rows = make([]respond.ContactRespond, 0, req.Limit)
		for row := req.Offset; row < rsp.Total && row < req.Offset+req.Limit; row++ {
			rsp.Rows = append(rsp.Rows, respond.NewContactRespond(row, h.model.At(row)))
		}
	}) {
		return
	}
	HandleSuccess(c, rsp)
}

// AddContactHandler 由名片新增联系人
// POST /contacts/addContact
// 请求体: request.AddContactRequest
// 响应: respond.ContactRespond
func (h *ContactsHandler) AddContactHandler(c *gin.Context) {
	var req request.AddContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	h.add(c, req.Vcard())
}

// ImportVcardHandler 由 vCard 文本新增联系人
// POST /contacts/importVcard
// 请求体: text/vcard
// 响应: respond.ContactRespond
func (h *ContactsHandler) ImportVcardHandler(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, constants.MAX_VCARD_SIZE))
	if err != nil {
		HandleError(c, errorx.Wrap(err, errorx.CodeInvalidParam, "读取请求体失败"))
		return
	}
	profile, err := vcard.Parse(string(body))
	if err != nil {
		HandleError(c, err)
		return
	}
	h.add(c, profile)
}

func (h *ContactsHandler) add(c *gin.Context, profile *vcard.Vcard) {
	var (
		rsp    respond.ContactRespond
		addErr error
	)
	if !onLoop(c, h.loop, func() {
		var added *contact.Contact
		added, addErr = h.model.AddContact(profile)
		if addErr != nil {
			return
		}
		row, _ := h.model.Find(added.RefKey())
		rsp = respond.NewContactRespond(row, added)
	}) {
		return
	}
	if addErr != nil {
		HandleError(c, addErr)
		return
	}
	HandleSuccess(c, rsp)
}

// RemoveContactHandler 按标识删除联系人，不存在时同样返回成功
// POST /contacts/removeContact
// 请求体: request.RemoveContactRequest
func (h *ContactsHandler) RemoveContactHandler(c *gin.Context) {
	var req request.RemoveContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	h.mutate(c, func() error {
		_, target := h.model.Find(req.RefKey)
		return h.model.RemoveContact(target)
	})
}

// RemoveRowHandler 删除一行
// POST /contacts/removeRow
// 请求体: request.RemoveRowRequest
func (h *ContactsHandler) RemoveRowHandler(c *gin.Context) {
	var req request.RemoveRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	h.mutate(c, func() error { return h.model.RemoveRowErr(*req.Row) })
}

// RemoveRowsHandler 删除从 row 开始的 count 行
// POST /contacts/removeRows
// 请求体: request.RemoveRowsRequest
func (h *ContactsHandler) RemoveRowsHandler(c *gin.Context) {
	var req request.RemoveRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	h.mutate(c, func() error { return h.model.RemoveRowsErr(*req.Row, *req.Count) })
}

func (h *ContactsHandler) mutate(c *gin.Context, fn func() error) {
	var err error
	if !onLoop(c, h.loop, func() { err = fn() }) {
		return
	}
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

func sortedRoles(names map[listmodel.Role]string) []respond.RoleRespond {
	out := make([]respond.RoleRespond, 0, len(names))
	for role, name := range names {
		out = append(out, respond.RoleRespond{Role: int(role), Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	return out
}

// dataValue 把条目本身转换为可序列化的结构
func dataValue(row int, v any) any {
	if c, ok := v.(*contact.Contact); ok && c != nil {
		return respond.NewContactRespond(row, c)
	}
	return v
}
