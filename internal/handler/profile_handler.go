package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"pocket-assistant/internal/service"
	"pocket-assistant/pkg/response"
)

// ProfileHandler 人脉画像请求处理器
type ProfileHandler struct {
	traitService  *service.TraitService
	defaultUserID int64
}

// NewProfileHandler 创建 ProfileHandler 实例
func NewProfileHandler(traitService *service.TraitService, defaultUserID int64) *ProfileHandler {
	return &ProfileHandler{traitService: traitService, defaultUserID: defaultUserID}
}

type createProfileBody struct {
	service.CreateProfileRequest
	UserID interface{} `json:"user_id"`
}

type updateProfileBody struct {
	service.UpdateProfileTraitsRequest
	UserID interface{} `json:"user_id"`
}

// Create 新增或合并画像
// 同名人物已存在时逐个追加特点，不会覆盖已有特点
// @Summary 新增人脉画像
// @Tags 人脉画像
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=model.UserProfile}
// @Router /api/v1/profiles [post]
func (h *ProfileHandler) Create(c *gin.Context) {
	var body createProfileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	userID := requestUserID(c, body.UserID, h.defaultUserID)
	profile, err := h.traitService.Add(c.Request.Context(), userID, &body.CreateProfileRequest)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, profile)
}

// List 获取用户的全部画像
// @Summary 人脉画像列表
// @Tags 人脉画像
// @Produce json
// @Param user_id query int false "用户ID"
// @Success 200 {object} response.Response{data=[]model.UserProfile}
// @Router /api/v1/profiles [get]
func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.traitService.List(c.Request.Context(), queryUserID(c, h.defaultUserID))
	if err != nil {
		response.InternalError(c, "获取画像失败")
		return
	}
	response.Success(c, profiles)
}

// Lookup 按人物名查询画像，返回与对话中相同的文字结果
// @Summary 查询人脉画像
// @Tags 人脉画像
// @Produce json
// @Param name query string true "人物名"
// @Param user_id query int false "用户ID"
// @Success 200 {object} response.Response
// @Router /api/v1/profiles/lookup [get]
func (h *ProfileHandler) Lookup(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		response.BadRequest(c, "缺少人物名")
		return
	}

	profile, err := h.traitService.Lookup(c.Request.Context(), queryUserID(c, h.defaultUserID), name)
	if err != nil {
		response.InternalError(c, "查询画像失败")
		return
	}
	if profile == nil {
		response.Success(c, gin.H{"result": fmt.Sprintf("未找到%s的画像信息。", name)})
		return
	}
	response.Success(c, gin.H{
		"result":  fmt.Sprintf("%s：%s", profile.Name, profile.Traits),
		"profile": profile,
	})
}

// Update 编辑画像，整体替换人物名和特点
// @Summary 编辑人脉画像
// @Tags 人脉画像
// @Accept json
// @Produce json
// @Param id path int true "画像ID"
// @Success 200 {object} response.Response{data=model.UserProfile}
// @Router /api/v1/profiles/{id} [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "无效的画像ID")
		return
	}
	var body updateProfileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	userID := requestUserID(c, body.UserID, h.defaultUserID)
	profile, err := h.traitService.Update(c.Request.Context(), userID, id, &body.UpdateProfileTraitsRequest)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, profile)
}

// Delete 删除画像
// @Summary 删除人脉画像
// @Tags 人脉画像
// @Param id path int true "画像ID"
// @Param user_id query int false "用户ID"
// @Success 200 {object} response.Response
// @Router /api/v1/profiles/{id} [delete]
func (h *ProfileHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		response.BadRequest(c, "无效的画像ID")
		return
	}
	if err := h.traitService.Delete(c.Request.Context(), queryUserID(c, h.defaultUserID), id); err != nil {
		h.fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "删除成功", gin.H{"ok": true})
}

func (h *ProfileHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		response.NotFoundWithCode(c, response.CodeProfileNotFound, err.Error())
	case errors.Is(err, service.ErrProfileExists):
		response.BadRequestWithCode(c, response.CodeProfileExists, err.Error())
	case errors.Is(err, service.ErrInvalidProfile):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, "保存画像失败")
	}
}
