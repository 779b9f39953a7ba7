package intent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pocket-assistant/internal/llm"
)

// countingGateway 记录调用次数，回复固定内容
type countingGateway struct {
	reply string
	err   error
	calls int
}

func (g *countingGateway) Complete(_ context.Context, prompt string) (string, error) {
	g.calls++
	return g.reply, g.err
}

func TestClassifyOrder(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		text      string
		want      Label
		wantCalls int
	}{
		{"陈总喜欢喝酒", Profile, 0},
		{"程总喜欢什么", Profile, 0},
		{"张三这人怎么样", Profile, 0},
		// 画像优先于新闻
		{"老王喜欢看新闻联播", Profile, 0},
		{"今天有什么新闻", News, 0},
		{"看看BBC头条", News, 0},
		{"记得明天交报告", Todo, 1},
	}
	for _, c := range cases {
		g := &countingGateway{reply: " YES"}
		got := NewClassifier(DefaultRules(g)...).Classify(ctx, c.text)
		assert.Equal(t, c.want, got, c.text)
		assert.Equal(t, c.wantCalls, g.calls, c.text)
	}
}

func TestClassifyChatFallback(t *testing.T) {
	ctx := context.Background()

	g := &countingGateway{reply: "no"}
	assert.Equal(t, Chat, NewClassifier(DefaultRules(g)...).Classify(ctx, "你是谁"))

	failing := &countingGateway{err: &llm.GatewayError{Provider: "stub", Err: errors.New("timeout")}}
	assert.Equal(t, Chat, NewClassifier(DefaultRules(failing)...).Classify(ctx, "记得明天交报告"))
	assert.Equal(t, 1, failing.calls)
}

func TestTodoJudgePrompt(t *testing.T) {
	var prompt string
	g := llm.GatewayFunc(func(_ context.Context, p string) (string, error) {
		prompt = p
		return "yes, 这是待办", nil
	})

	assert.True(t, TodoJudge(g)(context.Background(), "别忘了预约医生"))
	assert.True(t, strings.HasSuffix(prompt, "只需回答 yes 或 no：\n别忘了预约医生"))
}

func TestCustomRulesAppend(t *testing.T) {
	weather := Rule{Label: "weather", Match: func(_ context.Context, text string) bool {
		return strings.Contains(text, "天气")
	}}
	c := NewClassifier(append(DefaultRules(&countingGateway{reply: "no"}), weather)...)
	assert.Equal(t, Label("weather"), c.Classify(context.Background(), "明天天气"))
}
