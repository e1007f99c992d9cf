// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"github.com/gin-gonic/gin"

	"kama_address_book/internal/handler"
)

// Router 路由管理器
type Router struct {
	handlers *handler.Handlers
	auth     []gin.HandlerFunc // 认证中间件，未启用认证时为空
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers, auth ...gin.HandlerFunc) *Router {
	return &Router{handlers: handlers, auth: auth}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) { handler.HandleSuccess(c, "pong") })

	rt.RegisterContactsRoutes(r.Group("/contacts", rt.auth...))
	rt.RegisterAddressesRoutes(r.Group("/addresses", rt.auth...))
	rt.RegisterWebSocketRoutes(r.Group("/ws", rt.auth...))
}
