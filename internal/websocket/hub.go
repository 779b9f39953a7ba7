package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"pocket-assistant/internal/service"
	"pocket-assistant/internal/workflow"
)

// chatTimeout 单条消息的处理超时
const chatTimeout = 90 * time.Second

// ChatRouter 处理一句用户输入
type ChatRouter interface {
	RouteFor(ctx context.Context, text string, userID int64) (*workflow.Result, error)
}

// Hub 是 WebSocket 连接的中心管理器
// 按用户管理连接，并把回复同步给同一用户的全部连接
type Hub struct {
	// 用户ID -> 该用户的全部连接（多设备登录）
	clients map[int64][]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{} // Run 退出后关闭

	mu sync.RWMutex

	router ChatRouter
}

// NewHub 创建 Hub 实例
func NewHub(router ChatRouter) *Hub {
	return &Hub{
		clients:    make(map[int64][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		router:     router,
	}
}

// Run 启动 Hub 的主循环，ctx 结束时关闭全部连接
// 应该在单独的 goroutine 中运行
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		}
	}
}

// Register 注册客户端，Hub 已停止时直接关闭客户端
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister 注销客户端
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.userID] = append(h.clients[client.userID], client)
	log.WithFields(log.Fields{
		"user_id":     client.userID,
		"connections": len(h.clients[client.userID]),
	}).Info("chat websocket connected")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.clients[client.userID]
	for i, c := range conns {
		if c == client {
			conns = append(conns[:i], conns[i+1:]...)
			client.Close()
			break
		}
	}
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	} else {
		h.clients[client.userID] = conns
	}
	log.WithField("user_id", client.userID).Info("chat websocket disconnected")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, conns := range h.clients {
		for _, c := range conns {
			c.Close()
		}
		delete(h.clients, userID)
	}
}

// ConnectionCount 返回某用户当前的连接数
func (h *Hub) ConnectionCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// SendToUser 向某用户的全部连接发送消息
func (h *Hub) SendToUser(userID int64, msg *Message) {
	h.mu.RLock()
	conns := append([]*Client(nil), h.clients[userID]...)
	h.mu.RUnlock()

	for _, c := range conns {
		c.SendMessage(msg)
	}
}

// handleChat 处理 chat:message
// 回复发给该用户的全部连接，错误只发给发送方
func (h *Hub) handleChat(client *Client, msg *Message) {
	var payload ChatMessagePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || strings.TrimSpace(payload.Text) == "" {
		client.SendMessage(NewMessageWithID(TypeError, ErrorPayload{
			Code:    http.StatusBadRequest,
			Message: "消息内容不能为空",
		}, msg.MessageID))
		return
	}

	userID := client.userID
	if !client.authenticated && payload.UserID != nil {
		userID = service.ResolveUserID(payload.UserID, client.userID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
	defer cancel()

	result, err := h.router.RouteFor(ctx, payload.Text, userID)
	if err != nil {
		client.SendMessage(NewMessageWithID(TypeError, ErrorPayload{
			Code:    http.StatusInternalServerError,
			Message: "处理消息失败",
		}, msg.MessageID))
		return
	}

	reply := NewMessageWithID(TypeChatReply, ChatReplyPayload{
		Answer:   result.Answer,
		RemindAt: result.RemindAt,
		Input:    payload.Text,
	}, msg.MessageID)
	if userID != client.userID {
		// 指定了其他用户的匿名消息只回给发送方
		client.SendMessage(reply)
		return
	}
	h.SendToUser(userID, reply)
}
