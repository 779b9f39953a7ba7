package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"pocket-assistant/internal/service"
	"pocket-assistant/pkg/response"
)

// SubscriptionHandler 内容分类订阅请求处理器
type SubscriptionHandler struct {
	subService    *service.SubscriptionService
	defaultUserID int64
}

// NewSubscriptionHandler 创建 SubscriptionHandler 实例
func NewSubscriptionHandler(subService *service.SubscriptionService, defaultUserID int64) *SubscriptionHandler {
	return &SubscriptionHandler{subService: subService, defaultUserID: defaultUserID}
}

// subscriptionBody 订阅/取消订阅请求体
type subscriptionBody struct {
	Category string      `json:"category" binding:"required,max=50"`
	UserID   interface{} `json:"user_id"`
}

// Subscribe 订阅分类
// @Summary 订阅内容分类
// @Tags 订阅
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/subscriptions [post]
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var body subscriptionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	msg, err := h.subService.Subscribe(c.Request.Context(), requestUserID(c, body.UserID, h.defaultUserID), body.Category)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCategory) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, "订阅失败")
		return
	}
	response.Success(c, gin.H{"msg": msg})
}

// Unsubscribe 取消订阅
// @Summary 取消订阅内容分类
// @Tags 订阅
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/subscriptions/cancel [post]
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	var body subscriptionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	msg, err := h.subService.Unsubscribe(c.Request.Context(), requestUserID(c, body.UserID, h.defaultUserID), body.Category)
	if err != nil {
		response.InternalError(c, "取消订阅失败")
		return
	}
	response.Success(c, gin.H{"msg": msg})
}

// List 获取订阅的分类
// @Summary 我的订阅
// @Tags 订阅
// @Produce json
// @Param user_id query int false "用户ID"
// @Success 200 {object} response.Response{data=[]string}
// @Router /api/v1/subscriptions [get]
func (h *SubscriptionHandler) List(c *gin.Context) {
	categories, err := h.subService.Categories(c.Request.Context(), queryUserID(c, h.defaultUserID))
	if err != nil {
		response.InternalError(c, "获取订阅失败")
		return
	}
	response.Success(c, categories)
}
