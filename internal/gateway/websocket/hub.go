// Package websocket 把模型的结构变更通知推送给视图端
// 推送不会阻塞模型所在的协程：每个客户端有独立的缓冲，缓冲满时丢弃该条通知
package websocket

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"kama_address_book/internal/listmodel"
)

// Notification 推送给视图端的一条通知
type Notification struct {
	Source   string `json:"source"` // contacts / addresses
	Kind     string `json:"kind"`
	First    int    `json:"first"`
	Last     int    `json:"last"`
	RefKey   string `json:"refKey,omitempty"`
	Username string `json:"username,omitempty"`
}

// Hub 在线视图端集合
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Observer 返回可订阅到模型上的观察者，source 标明通知来自哪个模型
func (h *Hub) Observer(source string) listmodel.Observer {
	return func(ev listmodel.Event) {
		n := Notification{Source: source, Kind: ev.Kind.String(), First: ev.First, Last: ev.Last}
		if ev.Contact != nil {
			n.RefKey = ev.Contact.RefKey()
			n.Username = ev.Contact.Username()
		}
		msg, err := json.Marshal(n)
		if err != nil {
			zap.L().Error("marshal notification error", zap.Error(err))
			return
		}
		h.Broadcast(msg)
	}
}

// Broadcast 非阻塞地推送给所有客户端
func (h *Hub) Broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			zap.L().Warn("ws client too slow, drop notification", zap.String("remote", c.remote))
		}
	}
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// ClientCount 当前在线客户端数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close 断开所有客户端，之后的连接会被拒绝
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
