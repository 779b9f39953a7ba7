package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"pocket-assistant/internal/llm"
	"pocket-assistant/internal/model"
)

// 模型返回的人名中，取第一段 2~4 个汉字作为候选
var namePattern = regexp.MustCompile(`[\x{4e00}-\x{9fa5}]{2,4}`)

// ProfileExtractor 画像抽取器
// 先让大模型抽取，未命中时回退到规则匹配
type ProfileExtractor struct {
	gateway llm.Gateway
}

// NewProfileExtractor 创建 ProfileExtractor
func NewProfileExtractor(gateway llm.Gateway) *ProfileExtractor {
	return &ProfileExtractor{gateway: gateway}
}

// ExtractProfile 抽取 "某人喜欢/讨厌某事"
// 模型未命中（包括调用失败）时使用 MatchStatement 兜底
func (e *ProfileExtractor) ExtractProfile(ctx context.Context, text string) (Profile, bool) {
	if p, ok := e.ExtractWithModel(ctx, text); ok {
		return p, true
	}
	return MatchStatement(text)
}

// ExtractWithModel 仅使用大模型抽取
// 以下情况都视为未命中：调用失败、回复不是 JSON 对象、人名含转述填充词、
// 人名不在原文中出现、回复是查询（查询由 MatchQuery 负责）
func (e *ProfileExtractor) ExtractWithModel(ctx context.Context, text string) (Profile, bool) {
	reply, err := e.gateway.Complete(ctx, fmt.Sprintf(profilePrompt, text))
	if err != nil {
		log.WithError(err).Debug("profile extraction by model failed")
		return Profile{}, false
	}
	return parseModelReply(reply, text)
}

func parseModelReply(reply, text string) (Profile, bool) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &data); err != nil || data == nil {
		return Profile{}, false
	}

	rawName, _ := data["name"].(string)
	if rawName == "" {
		return Profile{}, false
	}
	for _, filler := range reportedSpeechFillers {
		if strings.Contains(rawName, filler) {
			return Profile{}, false
		}
	}
	name := namePattern.FindString(rawName)
	if name == "" || !strings.Contains(text, name) {
		return Profile{}, false
	}

	if like, _ := data["like"].(string); strings.TrimSpace(like) != "" {
		return Profile{Name: name, Trait: model.NormalizeTrait(model.TraitPrefixLike, like)}, true
	}
	if dislike, _ := data["dislike"].(string); strings.TrimSpace(dislike) != "" {
		return Profile{Name: name, Trait: model.NormalizeTrait(model.TraitPrefixDislike, dislike)}, true
	}
	return Profile{}, false
}

// stripCodeFence 去掉模型可能包裹的 ```json ... ``` 标记
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
