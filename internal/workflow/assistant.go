package workflow

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"pocket-assistant/internal/extract"
	"pocket-assistant/internal/intent"
	"pocket-assistant/internal/llm"
	"pocket-assistant/internal/model"
	"pocket-assistant/internal/timenlp"
)

// 节点名
const (
	NodeClassify = "classify"
	NodeTodo     = "todo"
	NodeChat     = "chat"
	NodeNews     = "news"
	NodeUsers    = "users"
)

const chatPersona = "你是别人的贴心助手，可以帮别人解决问题。\n" +
	"你的功能包括：ai对话、手动/语音添加代办事项、通知推送、存储他人喜好与厌恶、新闻搜索、查看优质文章等。"

// TraitStore 人脉画像存储
type TraitStore interface {
	// Merge 把特点合并进 (userID, name) 的画像，已存在等价特点时返回 false
	Merge(ctx context.Context, userID int64, name, trait string) (bool, error)
	// Lookup 查找画像，不存在时返回 nil
	Lookup(ctx context.Context, userID int64, name string) (*model.UserProfile, error)
}

// NewsSource 新闻摘要来源
type NewsSource interface {
	Digest(ctx context.Context) string
}

// Deps 路由图的依赖
type Deps struct {
	Classifier *intent.Classifier
	Gateway    llm.Gateway
	Extractor  *extract.ProfileExtractor
	Traits     TraitStore
	News       NewsSource
	Times      *timenlp.Normalizer
	// Now 当前时间，为空时使用 time.Now
	Now func() time.Time
}

// Assistant 助手路由图
type Assistant struct {
	deps  Deps
	graph *Graph
}

// NewAssistant 构建路由图：classify -> {todo, chat, news, users}
func NewAssistant(deps Deps) *Assistant {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	a := &Assistant{deps: deps, graph: NewGraph()}

	a.graph.AddNode(NodeClassify, a.classify)
	a.graph.AddNode(NodeTodo, a.todo)
	a.graph.AddNode(NodeChat, a.chat)
	a.graph.AddNode(NodeNews, a.news)
	a.graph.AddNode(NodeUsers, a.users)
	a.graph.AddConditionalEdges(NodeClassify,
		func(s *State) string { return string(s.Intent) },
		map[string]string{
			string(intent.Profile): NodeUsers,
			string(intent.News):    NodeNews,
			string(intent.Todo):    NodeTodo,
			string(intent.Chat):    NodeChat,
		},
	)
	a.graph.SetEntryPoint(NodeClassify)
	return a
}

// Run 执行一轮对话
// 返回的 Result 可能为 nil（人脉节点既不是陈述也不是查询）
func (a *Assistant) Run(ctx context.Context, state *State) (*Result, error) {
	if err := a.graph.Invoke(ctx, state); err != nil {
		return nil, err
	}
	return state.Result, nil
}

func (a *Assistant) classify(ctx context.Context, s *State) error {
	s.Intent = a.deps.Classifier.Classify(ctx, s.Input)
	log.WithFields(log.Fields{"user_id": s.UserID, "intent": s.Intent}).Debug("intent classified")
	return nil
}

func (a *Assistant) todo(_ context.Context, s *State) error {
	s.Result = &Result{
		Answer:   "建议添加到待办：" + s.Input,
		RemindAt: a.deps.Times.Extract(s.Input, a.deps.Now()),
	}
	return nil
}

func (a *Assistant) chat(ctx context.Context, s *State) error {
	reply, err := a.deps.Gateway.Complete(ctx, chatPersona+"\n用户: "+s.Input)
	if err != nil {
		log.WithError(err).Warn("chat completion failed")
		reply = llm.NoReply
	}
	s.Result = &Result{Answer: reply}
	return nil
}

func (a *Assistant) news(ctx context.Context, s *State) error {
	s.Result = &Result{Answer: a.deps.News.Digest(ctx)}
	return nil
}

func (a *Assistant) users(ctx context.Context, s *State) error {
	if p, ok := a.deps.Extractor.ExtractProfile(ctx, s.Input); ok {
		added, err := a.deps.Traits.Merge(ctx, s.UserID, p.Name, p.Trait)
		if err != nil {
			return fmt.Errorf("merge trait: %w", err)
		}
		if added {
			s.Result = &Result{Answer: fmt.Sprintf("已记录：%s%s", p.Name, p.Trait)}
		} else {
			s.Result = &Result{Answer: fmt.Sprintf("%s的%s信息已存在", p.Name, p.Trait)}
		}
		return nil
	}

	name, ok := extract.MatchQuery(s.Input)
	if !ok {
		return nil
	}
	profile, err := a.deps.Traits.Lookup(ctx, s.UserID, name)
	if err != nil {
		return fmt.Errorf("lookup profile: %w", err)
	}
	if profile == nil {
		s.Result = &Result{Answer: fmt.Sprintf("未找到%s的信息。", name)}
		return nil
	}
	s.Result = &Result{Answer: fmt.Sprintf("%s：%s", profile.Name, profile.Traits)}
	return nil
}
