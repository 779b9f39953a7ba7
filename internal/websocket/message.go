// Package websocket 提供对话的 WebSocket 通道
// 客户端发送 chat:message，服务端用 chat:reply 回复，同一用户的其他连接同步收到回复
package websocket

import (
	"encoding/json"
	"time"
)

// 消息类型
const (
	// 客户端 → 服务端
	TypeChatMessage = "chat:message" // 用户输入
	TypeHeartbeat   = "heartbeat"    // 心跳

	// 服务端 → 客户端
	TypeChatReply = "chat:reply" // 助手回复
	TypePong      = "pong"       // 心跳响应
	TypeError     = "error"      // 错误消息
)

// Message WebSocket 消息结构
// 所有消息都使用这个统一的结构
type Message struct {
	Type      string          `json:"type"`                 // 消息类型
	Payload   json.RawMessage `json:"payload,omitempty"`    // 消息内容
	Timestamp int64           `json:"timestamp"`            // 时间戳（毫秒）
	MessageID string          `json:"message_id,omitempty"` // 消息ID，回复时原样带回
}

// NewMessage 创建新消息
// payload 无法序列化时消息不带内容
func NewMessage(msgType string, payload interface{}) *Message {
	return NewMessageWithID(msgType, payload, "")
}

// NewMessageWithID 创建带消息ID的新消息
func NewMessageWithID(msgType string, payload interface{}, messageID string) *Message {
	msg := &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		MessageID: messageID,
	}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			msg.Payload = raw
		}
	}
	return msg
}

// ChatMessagePayload 用户输入
// 匿名连接可以在每条消息中指定 user_id，已认证连接忽略该字段
type ChatMessagePayload struct {
	Text   string      `json:"text"`
	UserID interface{} `json:"user_id,omitempty"`
}

// ChatReplyPayload 助手回复
type ChatReplyPayload struct {
	Answer   string     `json:"answer"`
	RemindAt *time.Time `json:"remind_at,omitempty"`
	Input    string     `json:"input"` // 对应的用户输入，供其他连接展示
}

// ErrorPayload 错误消息 Payload
type ErrorPayload struct {
	Code    int    `json:"code"`    // 错误码
	Message string `json:"message"` // 错误信息
}
