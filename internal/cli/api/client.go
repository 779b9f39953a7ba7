// Package api 封装与服务器的 HTTP API 交互
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Client API 客户端
// baseURL: 例如 http://localhost:8000
// accessToken: 为空时以匿名身份请求
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewClient 创建 API 客户端
func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 2 * time.Minute}, // 对话需要等待大模型
	}
}

// APIResponse 通用响应
type APIResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// APIError 服务器返回的业务错误
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API 错误(%d): %s", e.Code, e.Message)
}

// LoginResponse 登录结果
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login 使用用户名密码登录
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}
	var result LoginResponse
	if err := c.call(ctx, http.MethodPost, "/api/v1/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout 通知服务器作废当前 Token
func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
}

// ChatReply 对话回复
type ChatReply struct {
	Answer   string     `json:"answer"`
	RemindAt *time.Time `json:"remind_at,omitempty"`
}

// Chat 发送一句话并等待回复
func (c *Client) Chat(ctx context.Context, text string) (*ChatReply, error) {
	var reply ChatReply
	if err := c.call(ctx, http.MethodPost, "/api/v1/chat", map[string]string{"message": text}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Todo 待办事项
type Todo struct {
	ID        int64   `json:"id"`
	Content   string  `json:"content"`
	Time      string  `json:"time"`
	RemindAt  *string `json:"remind_at"`
	Completed bool    `json:"completed"`
}

// ListTodos 列出当前用户的待办
func (c *Client) ListTodos(ctx context.Context) ([]Todo, error) {
	var todos []Todo
	if err := c.call(ctx, http.MethodGet, "/api/v1/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// AddTodo 新建待办，remindAt 可为空
func (c *Client) AddTodo(ctx context.Context, content, remindAt string) (*Todo, error) {
	body := map[string]string{"content": content}
	if remindAt != "" {
		body["remind_at"] = remindAt
	}
	var todo Todo
	if err := c.call(ctx, http.MethodPost, "/api/v1/todos", body, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// call 发送请求并把 data 解析到 out（out 为 nil 时忽略 data）
func (c *Client) call(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "编码请求失败")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "创建请求失败")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "请求失败")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "读取响应失败")
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return errors.Wrapf(err, "解析响应失败(HTTP %d)", resp.StatusCode)
	}
	if apiResp.Code != 0 {
		return &APIError{Status: resp.StatusCode, Code: apiResp.Code, Message: apiResp.Message}
	}

	if out == nil || len(apiResp.Data) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(apiResp.Data, out), "解析数据失败")
}
