// Package llm 封装大模型网关
// 上层只依赖 Gateway 接口，具体供应商由配置决定
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pocket-assistant/internal/config"
)

// NoReply 模型返回空内容时使用的回复
const NoReply = "AI无回复"

// 供应商
const (
	ProviderOpenAI    = "openai"
	ProviderDashScope = "dashscope"
)

const defaultTimeout = 30 * time.Second

// Gateway 大模型网关
// Complete 发送单轮提示词并返回完整回复，只尝试一次
type Gateway interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GatewayFunc 让普通函数实现 Gateway
type GatewayFunc func(ctx context.Context, prompt string) (string, error)

// Complete 调用 f(ctx, prompt)
func (f GatewayFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// GatewayError 网关调用失败
// 超时、网络错误、非 2xx 响应、无法解析的响应都归为此类
type GatewayError struct {
	Provider string
	Err      error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("llm gateway %s: %v", e.Provider, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// New 根据配置创建网关
func New(cfg config.AIConfig) (Gateway, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI, "":
		return NewOpenAIGateway(cfg), nil
	case ProviderDashScope:
		return NewDashScopeGateway(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// withTimeout 为单次调用设置超时
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// normalizeReply 去除首尾空白，空回复替换为 NoReply
func normalizeReply(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return NoReply
	}
	return content
}
