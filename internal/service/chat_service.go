package service

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"pocket-assistant/internal/workflow"
	"pocket-assistant/pkg/util"
)

// NoActionAnswer 人脉意图下既不是陈述也不是查询时的回复
const NoActionAnswer = "未能识别到人物信息"

// ChatService 对话服务，把一句话交给助手路由图处理
type ChatService struct {
	assistant     *workflow.Assistant
	defaultUserID int64
}

// NewChatService 创建 ChatService 实例
// 参数:
//   - assistant: 路由图
//   - defaultUserID: user_id 缺失或非法时使用的用户
func NewChatService(assistant *workflow.Assistant, defaultUserID int64) *ChatService {
	return &ChatService{assistant: assistant, defaultUserID: defaultUserID}
}

// DefaultUserID 返回默认用户 ID
func (s *ChatService) DefaultUserID() int64 {
	return s.defaultUserID
}

// ResolveUserID 把请求中的 user_id 解析为正整数
// 缺失或非法时返回 fallback，并记录 WARN 日志，不拒绝请求
func ResolveUserID(raw interface{}, fallback int64) int64 {
	if id, ok := util.ParseUserID(raw); ok {
		return id
	}
	log.WithField("raw_user_id", raw).Warn("missing or invalid user_id, using default")
	return fallback
}

// Route 处理一句用户输入
// 参数:
//   - ctx: 上下文
//   - text: 用户输入
//   - rawUserID: 请求中的原始 user_id
//
// 返回:
//   - *workflow.Result: 回复和可选的提醒时间
//   - error: 持久化失败
func (s *ChatService) Route(ctx context.Context, text string, rawUserID interface{}) (*workflow.Result, error) {
	return s.RouteFor(ctx, text, ResolveUserID(rawUserID, s.defaultUserID))
}

// RouteFor 以已确定的用户身份处理一句用户输入
func (s *ChatService) RouteFor(ctx context.Context, text string, userID int64) (*workflow.Result, error) {
	state := &workflow.State{Input: strings.TrimSpace(text), UserID: userID}
	result, err := s.assistant.Run(ctx, state)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("assistant run failed")
		return nil, err
	}
	if result == nil {
		result = &workflow.Result{Answer: NoActionAnswer}
	}
	log.WithFields(log.Fields{"user_id": userID, "intent": state.Intent}).Info("chat routed")
	return result, nil
}
