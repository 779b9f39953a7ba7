// Package websocket 处理与服务器的对话 WebSocket 连接
package websocket

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// 消息类型常量
const (
	TypeChatMessage = "chat:message"
	TypeChatReply   = "chat:reply"
	TypeHeartbeat   = "heartbeat"
	TypePong        = "pong"
	TypeError       = "error"
)

const (
	// heartbeatInterval 心跳间隔
	heartbeatInterval = 30 * time.Second
	// closeWait 发送关闭帧的超时
	closeWait = time.Second
)

// Message WebSocket 消息结构
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	MessageID string          `json:"message_id,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// ChatReply chat:reply 的内容
type ChatReply struct {
	Answer   string     `json:"answer"`
	RemindAt *time.Time `json:"remind_at,omitempty"`
	Input    string     `json:"input"`
}

// ErrorPayload error 的内容
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Client WebSocket 客户端
type Client struct {
	conn      *websocket.Conn
	url       string
	sendChan  chan []byte
	done      chan struct{}
	mu        sync.Mutex
	isRunning bool
	onMessage func(*Message) // 消息回调
	onClose   func()         // 连接关闭回调
}

// NewClient 创建 WebSocket 客户端
// serverURL: HTTP 服务器地址（如 http://localhost:8000）
// token: 访问令牌，为空时以默认用户身份连接
func NewClient(serverURL, token string) *Client {
	// 将 HTTP URL 转换为 WebSocket URL
	wsURL := strings.Replace(serverURL, "http://", "ws://", 1)
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	wsURL += "/ws/chat"
	if token != "" {
		wsURL += "?token=" + url.QueryEscape(token)
	}

	return &Client{
		url:      wsURL,
		sendChan: make(chan []byte, 16),
		done:     make(chan struct{}),
	}
}

// OnMessage 设置消息回调
func (c *Client) OnMessage(handler func(*Message)) {
	c.onMessage = handler
}

// OnClose 设置连接关闭回调
func (c *Client) OnClose(handler func()) {
	c.onClose = handler
}

// Connect 连接到服务器
func (c *Client) Connect() error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return fmt.Errorf("客户端已在运行")
	}
	c.mu.Unlock()

	conn, resp, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == 401 {
			return fmt.Errorf("登录已失效，请重新登录")
		}
		return fmt.Errorf("连接失败: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.isRunning = true
	c.done = make(chan struct{})
	c.mu.Unlock()

	go c.readPump()
	go c.writePump()

	return nil
}

// Disconnect 断开连接
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		return
	}

	c.isRunning = false
	close(c.done)

	if c.conn != nil {
		// WriteControl 可以与 writePump 中的写操作并发调用
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeWait))
		c.conn.Close()
	}

	if c.onClose != nil {
		c.onClose()
	}
}

// SendChat 发送一句话，返回消息ID，回复会带回同一个ID
func (c *Client) SendChat(text string) (string, error) {
	id := uuid.NewString()
	payload, _ := json.Marshal(map[string]string{"text": text})
	return id, c.send(&Message{Type: TypeChatMessage, Payload: payload, MessageID: id})
}

func (c *Client) send(msg *Message) error {
	if !c.IsRunning() {
		return fmt.Errorf("连接已关闭")
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case c.sendChan <- data:
		return nil
	case <-c.done:
		return fmt.Errorf("连接已关闭")
	default:
		return fmt.Errorf("发送缓冲区已满")
	}
}

func (c *Client) readPump() {
	defer c.Disconnect()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Debug("websocket read error")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.WithError(err).Debug("invalid websocket message")
			continue
		}

		if msg.Type == TypePong {
			continue
		}
		if c.onMessage != nil {
			c.onMessage(&msg)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(heartbeatInterval)
	defer func() {
		ticker.Stop()
		c.Disconnect()
	}()

	for {
		select {
		case <-c.done:
			return

		case data := <-c.sendChan:
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.WithError(err).Debug("websocket write error")
				return
			}

		case <-ticker.C:
			heartbeat, _ := json.Marshal(&Message{Type: TypeHeartbeat, Timestamp: time.Now().UnixMilli()})
			if err := c.conn.WriteMessage(websocket.TextMessage, heartbeat); err != nil {
				return
			}
		}
	}
}

// IsRunning 检查是否正在运行
func (c *Client) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}

// Done 返回连接关闭时关闭的通道
func (c *Client) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}
