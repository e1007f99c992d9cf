package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"kama_address_book/pkg/constants"
	"kama_address_book/pkg/errorx"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 2048,
	// 跨域由 cors 中间件控制
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client 一个视图端连接
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	remote string
}

// ServeWs 升级连接并阻塞到连接断开
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeInvalidParam, "websocket 升级失败")
	}
	c := &Client{
		conn:   conn,
		send:   make(chan []byte, constants.WS_SEND_BUFFER),
		remote: r.RemoteAddr,
	}
	if !h.register(c) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
		_ = conn.Close()
		return nil
	}
	zap.L().Info("ws client connected", zap.String("remote", c.remote))

	go c.write()
	c.read()
	h.unregister(c)
	zap.L().Info("ws client disconnected", zap.String("remote", c.remote))
	return nil
}

// read 视图端不发送业务消息，只用于感知断开
func (c *Client) read() {
	defer c.conn.Close()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("ws read error", zap.Error(err), zap.String("remote", c.remote))
			}
			return
		}
	}
}

func (c *Client) write() {
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			zap.L().Error("ws write error", zap.Error(err), zap.String("remote", c.remote))
			_ = c.conn.Close()
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
