package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"pocket-assistant/internal/middleware"
	"pocket-assistant/internal/service"
	"pocket-assistant/internal/workflow"
	"pocket-assistant/pkg/response"
)

// ChatHandler 对话请求处理器
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler 创建 ChatHandler 实例
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ChatRequest 对话请求
// 文本可以放在 message 或 text 字段；user_id 接受数字或数字字符串，缺失或非法时使用默认用户
type ChatRequest struct {
	Message string      `json:"message"`
	Text    string      `json:"text"`
	UserID  interface{} `json:"user_id"`
}

// Chat 处理一句用户输入
// @Summary 对话
// @Description 识别意图（待办/闲聊/新闻/人脉画像）并给出回复
// @Tags 对话
// @Accept json
// @Produce json
// @Param body body ChatRequest true "用户输入"
// @Success 200 {object} response.Response{data=workflow.Result}
// @Router /api/v1/chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	text := req.Message
	if strings.TrimSpace(text) == "" {
		text = req.Text
	}
	if strings.TrimSpace(text) == "" {
		response.BadRequest(c, "消息内容不能为空")
		return
	}

	var (
		result *workflow.Result
		err    error
	)
	if userID := middleware.GetUserID(c); userID != 0 {
		result, err = h.chatService.RouteFor(c.Request.Context(), text, userID)
	} else {
		result, err = h.chatService.Route(c.Request.Context(), text, req.UserID)
	}
	if err != nil {
		response.InternalError(c, "处理消息失败")
		return
	}

	response.Success(c, result)
}
