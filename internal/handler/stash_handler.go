package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"pocket-assistant/internal/service"
	"pocket-assistant/pkg/response"
)

// StashHandler 收藏内容请求处理器
type StashHandler struct {
	stashService *service.StashService
}

// NewStashHandler 创建 StashHandler 实例
func NewStashHandler(stashService *service.StashService) *StashHandler {
	return &StashHandler{stashService: stashService}
}

// Create 新增收藏
// @Summary 新增收藏内容
// @Tags 收藏
// @Accept json
// @Produce json
// @Param body body service.CreateStashRequest true "收藏内容"
// @Success 201 {object} response.Response{data=model.StashContent}
// @Router /api/v1/stash [post]
func (h *StashHandler) Create(c *gin.Context) {
	var req service.CreateStashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	item, err := h.stashService.Create(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c, "收藏失败")
		return
	}
	response.Created(c, item)
}

// List 收藏列表
// @Summary 按类型获取收藏内容，最新的在前
// @Tags 收藏
// @Produce json
// @Param type query string false "article 或 video"
// @Success 200 {object} response.Response{data=[]model.StashContent}
// @Router /api/v1/stash [get]
func (h *StashHandler) List(c *gin.Context) {
	items, err := h.stashService.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		response.InternalError(c, "获取收藏失败")
		return
	}
	response.Success(c, items)
}

// Delete 删除收藏
// @Summary 删除收藏内容
// @Tags 收藏
// @Param id path int true "收藏ID"
// @Success 200 {object} response.Response
// @Router /api/v1/stash/{id} [delete]
func (h *StashHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "无效的收藏ID")
		return
	}
	if err := h.stashService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrStashNotFound) {
			response.NotFoundWithCode(c, response.CodeStashNotFound, err.Error())
			return
		}
		response.InternalError(c, "删除收藏失败")
		return
	}
	response.SuccessWithMessage(c, "删除成功", gin.H{"ok": true})
}
