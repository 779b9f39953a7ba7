package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"pocket-assistant/internal/config"
)

const (
	// DashScopeEndpoint 阿里云 DashScope 文本生成接口
	DashScopeEndpoint = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"
	// DashScopeModel 默认模型
	DashScopeModel = "qwen-turbo"
)

// DashScopeGateway 阿里云通义千问网关
type DashScopeGateway struct {
	cfg    config.AIConfig
	client *http.Client
}

// NewDashScopeGateway 创建 DashScopeGateway
// base_url 为空时使用官方接口地址
func NewDashScopeGateway(cfg config.AIConfig) *DashScopeGateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DashScopeEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DashScopeModel
	}
	return &DashScopeGateway{
		cfg:    cfg,
		client: &http.Client{},
	}
}

type dashScopeRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []dashScopeMessage `json:"messages"`
	} `json:"input"`
	Parameters struct {
		ResultFormat string `json:"result_format"`
	} `json:"parameters"`
}

type dashScopeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type dashScopeResponse struct {
	Output struct {
		Choices []struct {
			Message dashScopeMessage `json:"message"`
		} `json:"choices"`
	} `json:"output"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Complete 调用 DashScope 文本生成接口
func (g *DashScopeGateway) Complete(ctx context.Context, prompt string) (string, error) {
	content, err := g.complete(ctx, prompt)
	if err != nil {
		log.WithError(err).WithField("model", g.cfg.Model).Warn("dashscope generation failed")
		return "", &GatewayError{Provider: ProviderDashScope, Err: err}
	}
	return normalizeReply(content), nil
}

func (g *DashScopeGateway) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	req := dashScopeRequest{Model: g.cfg.Model}
	req.Input.Messages = []dashScopeMessage{{Role: "user", Content: prompt}}
	req.Parameters.ResultFormat = "message"

	body, err := json.Marshal(req)
	if err != nil {
		return "", errors.Wrap(err, "marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, "call dashscope")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.Errorf("dashscope returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed dashScopeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", errors.Wrap(err, "parse response")
	}
	if parsed.Code != "" {
		return "", errors.Errorf("dashscope error: %s - %s", parsed.Code, parsed.Message)
	}
	if len(parsed.Output.Choices) == 0 {
		return "", errors.New("response has no choices")
	}

	return parsed.Output.Choices[0].Message.Content, nil
}
