package llm

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"pocket-assistant/internal/config"
)

// OpenAIGateway 兼容 OpenAI Chat Completions 协议的网关
// 智谱 GLM、DeepSeek 等均提供兼容接口，通过 base_url 切换
type OpenAIGateway struct {
	client *openai.Client
	cfg    config.AIConfig
}

// NewOpenAIGateway 创建 OpenAIGateway
func NewOpenAIGateway(cfg config.AIConfig) *OpenAIGateway {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIGateway{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}
}

// Complete 以单条 user 消息调用模型
func (g *OpenAIGateway) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		log.WithError(err).WithField("model", g.cfg.Model).Warn("chat completion failed")
		return "", &GatewayError{Provider: ProviderOpenAI, Err: errors.Wrap(err, "create chat completion")}
	}
	if len(resp.Choices) == 0 {
		return "", &GatewayError{Provider: ProviderOpenAI, Err: errors.New("response has no choices")}
	}

	return normalizeReply(resp.Choices[0].Message.Content), nil
}
