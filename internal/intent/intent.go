// Package intent 对用户输入做意图分类
// 分类规则是有序列表，第一条命中的规则决定意图，都未命中时为闲聊
package intent

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"pocket-assistant/internal/extract"
	"pocket-assistant/internal/llm"
)

// Label 意图标签
type Label string

const (
	Profile Label = "profile" // 人脉画像记录/查询
	News    Label = "news"    // 新闻
	Todo    Label = "todo"    // 待办提醒
	Chat    Label = "chat"    // 闲聊
)

// Rule 分类规则
type Rule struct {
	Label Label
	Match func(ctx context.Context, text string) bool
}

// Classifier 意图分类器
type Classifier struct {
	rules []Rule
}

// NewClassifier 使用给定的有序规则创建分类器
func NewClassifier(rules ...Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify 返回第一条命中规则的标签，都未命中时返回 Chat
func (c *Classifier) Classify(ctx context.Context, text string) Label {
	for _, r := range c.rules {
		if r.Match(ctx, text) {
			return r.Label
		}
	}
	return Chat
}

// newsKeywords 出现任一即视为新闻请求
var newsKeywords = []string{"新闻", "news", "头条", "BBC", "网易"}

// DefaultRules 默认规则：画像 > 新闻 > 待办（大模型判断）
func DefaultRules(gateway llm.Gateway) []Rule {
	return []Rule{
		{Label: Profile, Match: MatchProfile},
		{Label: News, Match: MatchNews},
		{Label: Todo, Match: TodoJudge(gateway)},
	}
}

// MatchProfile 规则匹配到画像陈述或画像查询
func MatchProfile(_ context.Context, text string) bool {
	if _, ok := extract.MatchStatement(text); ok {
		return true
	}
	_, ok := extract.MatchQuery(text)
	return ok
}

// MatchNews 包含新闻关键词
func MatchNews(_ context.Context, text string) bool {
	for _, kw := range newsKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// TodoJudge 让大模型判断是否为待办
// 回复以 yes 开头（忽略大小写和首尾空白）视为待办，调用失败视为否
func TodoJudge(gateway llm.Gateway) func(ctx context.Context, text string) bool {
	return func(ctx context.Context, text string) bool {
		reply, err := gateway.Complete(ctx, fmt.Sprintf(todoPrompt, text))
		if err != nil {
			log.WithError(err).Warn("todo judge failed, treat as not todo")
			return false
		}
		return strings.HasPrefix(strings.ToLower(strings.TrimSpace(reply)), "yes")
	}
}

const todoPrompt = `请判断以下文本是否属于需要加入待办事项的提醒（包括但不限于以下表达）：
- 直接指令型："记得明天交报告"、"周五前完成PPT"
- 时间限定型："下周开会讨论"、"月底前提交申请"
- 任务描述型："买菜清单：鸡蛋、牛奶"、"需要维修空调"
- 自我提醒型："别忘了预约医生"、"提醒自己打电话给客户"
- 工具关联型："设置一个9点的闹钟"、"添加到购物车"
- 隐含需求型："冰箱快空了"、"打印机没墨了"
- 常见句式："要..."/"得..."/"记得..."/"别忘了..."/"提醒..."/"需要处理..."
- 其他变体："待办：整理文档"、"TODO：调试代码"、"跟进：客户反馈"

注意：仅当文本明确或隐含需要未来执行的动作时回答yes，日常闲聊或描述性内容回答no。
只需回答 yes 或 no：
%s`
