package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterContactsRoutes 注册联系人列表模型路由
func (rt *Router) RegisterContactsRoutes(rg *gin.RouterGroup) {
	h := rt.handlers.Contacts
	rg.GET("/rowCount", h.RowCountHandler)
	rg.GET("/roleNames", h.RoleNamesHandler)
	rg.GET("/data", h.DataHandler)
	rg.GET("/rows", h.RowsHandler)
	rg.POST("/addContact", h.AddContactHandler)
	rg.POST("/importVcard", h.ImportVcardHandler)
	rg.POST("/removeContact", h.RemoveContactHandler)
	rg.POST("/removeRow", h.RemoveRowHandler)
	rg.POST("/removeRows", h.RemoveRowsHandler)
}

// RegisterAddressesRoutes 注册 SIP 地址列表路由
func (rt *Router) RegisterAddressesRoutes(rg *gin.RouterGroup) {
	h := rt.handlers.Addresses
	rg.GET("/rowCount", h.RowCountHandler)
	rg.GET("/data", h.DataHandler)
	rg.GET("/contact", h.ContactHandler)
}
