package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ws "kama_address_book/internal/gateway/websocket"
)

// WsHandler 通知推送处理器
type WsHandler struct {
	hub *ws.Hub
}

func NewWsHandler(hub *ws.Hub) *WsHandler {
	return &WsHandler{hub: hub}
}

// NotificationsHandler 升级为 WebSocket 并推送模型的结构变更通知
// GET /ws/notifications
func (h *WsHandler) NotificationsHandler(c *gin.Context) {
	if err := h.hub.ServeWs(c.Writer, c.Request); err != nil {
		zap.L().Warn("ws upgrade failed", zap.Error(err))
	}
}
