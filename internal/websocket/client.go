package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Client 表示一个 WebSocket 客户端连接
type Client struct {
	hub           *Hub            // 所属的 Hub
	conn          *websocket.Conn // WebSocket 连接
	send          chan []byte     // 发送消息的通道
	userID        int64           // 用户ID
	authenticated bool            // 是否通过 Token 认证
	closed        bool            // send 是否已关闭
	mu            sync.Mutex      // 保护 send 的关闭
}

// 连接配置常量
const (
	// 写超时时间
	writeWait = 10 * time.Second

	// 等待 Pong 响应的超时时间
	pongWait = 60 * time.Second

	// 发送 Ping 的间隔（必须小于 pongWait）
	pingPeriod = (pongWait * 9) / 10

	// 消息最大大小（64KB）
	maxMessageSize = 64 * 1024
)

// NewClient 创建新的客户端
func NewClient(hub *Hub, conn *websocket.Conn, userID int64, authenticated bool) *Client {
	return &Client{
		hub:           hub,
		conn:          conn,
		send:          make(chan []byte, 64),
		userID:        userID,
		authenticated: authenticated,
	}
}

// ReadPump 读取 WebSocket 消息
// 每个连接一个 goroutine，消息按到达顺序逐条处理
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).WithField("user_id", c.userID).Warn("websocket read error")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.WithError(err).Debug("invalid websocket message")
			c.SendMessage(NewMessage(TypeError, ErrorPayload{Code: 400, Message: "消息格式错误"}))
			continue
		}
		c.handleMessage(&msg)
	}
}

// WritePump 把 send 通道中的消息写入连接，并定时发送 Ping
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// send 通道已关闭
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage 向客户端发送消息
// 非阻塞，缓冲区满或连接已关闭时丢弃
func (c *Client) SendMessage(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.WithError(err).Error("marshal websocket message")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		log.WithField("user_id", c.userID).Warn("client send buffer full, dropping message")
	}
}

func (c *Client) handleMessage(msg *Message) {
	switch msg.Type {
	case TypeHeartbeat:
		c.SendMessage(NewMessageWithID(TypePong, nil, msg.MessageID))
	case TypeChatMessage:
		c.hub.handleChat(c, msg)
	default:
		c.SendMessage(NewMessageWithID(TypeError, ErrorPayload{Code: 400, Message: "未知的消息类型: " + msg.Type}, msg.MessageID))
	}
}

// Close 关闭 send 通道，WritePump 随后关闭连接
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
