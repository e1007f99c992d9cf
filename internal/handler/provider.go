// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
// 模型不加锁，所有读写都经由 Caller 投递到模型所在的协程执行
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"kama_address_book/internal/addresses"
	ws "kama_address_book/internal/gateway/websocket"
	"kama_address_book/internal/listmodel"
)

// Caller 在模型所在的协程上同步执行任务
type Caller interface {
	Call(ctx context.Context, task func()) error
}

// Handlers 聚合所有 Handler 实例
// Router 层通过此结构访问各个 Handler
type Handlers struct {
	Contacts  *ContactsHandler
	Addresses *AddressesHandler
	Ws        *WsHandler
}

// NewHandlers 创建并注入所有 Handler 实例
func NewHandlers(loop Caller, contacts *listmodel.ContactsListModel, addrs *addresses.SipAddressesModel, hub *ws.Hub) *Handlers {
	return &Handlers{
		Contacts:  NewContactsHandler(loop, contacts),
		Addresses: NewAddressesHandler(loop, addrs, contacts),
		Ws:        NewWsHandler(hub),
	}
}

// onLoop 在模型协程上执行 task，失败时已写入响应并返回 false
func onLoop(c *gin.Context, loop Caller, task func()) bool {
	if err := loop.Call(c.Request.Context(), task); err != nil {
		HandleError(c, err)
		return false
	}
	return true
}

// roleByName 在字段表中由字段名反查标识
func roleByName(names map[listmodel.Role]string, name string) (listmodel.Role, bool) {
	for role, n := range names {
		if n == name {
			return role, true
		}
	}
	return 0, false
}
