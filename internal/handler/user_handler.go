package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pocket-assistant/internal/middleware"
	"pocket-assistant/internal/service"
	"pocket-assistant/pkg/response"
)

// UserHandler 账号资料
// /users/me 下的接口都要求登录
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers 用户列表
// @Summary 获取全部用户的 ID 和用户名
// @Tags 用户
// @Produce json
// @Success 200 {object} response.Response{data=[]service.UserBrief}
// @Router /api/v1/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		accountError(c, err, "获取用户列表失败")
		return
	}
	response.Success(c, users)
}

// GetProfile 当前账号
// @Summary 获取当前账号
// @Tags 用户
// @Security Bearer
// @Produce json
// @Success 200 {object} response.Response{data=model.User}
// @Router /api/v1/users/me [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		accountError(c, err, "获取用户信息失败")
		return
	}
	response.Success(c, user)
}

// UpdateProfile 修改用户名
// @Summary 修改用户名
// @Tags 用户
// @Security Bearer
// @Accept json
// @Produce json
// @Param body body service.UpdateProfileRequest true "新用户名"
// @Success 200 {object} response.Response{data=model.User}
// @Router /api/v1/users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		accountError(c, err, "更新用户信息失败")
		return
	}
	response.Success(c, user)
}

// ChangePassword 修改密码
// 原密码错误返回 400，而不是登录时的 401
// @Summary 修改密码
// @Tags 用户
// @Security Bearer
// @Accept json
// @Produce json
// @Param body body service.ChangePasswordRequest true "新旧密码"
// @Success 200 {object} response.Response
// @Router /api/v1/users/me/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	err := h.userService.ChangePassword(c.Request.Context(), middleware.GetUserID(c), &req)
	switch {
	case err == nil:
		response.SuccessWithMessage(c, "密码修改成功", nil)
	case errors.Is(err, service.ErrPasswordWrong):
		response.ErrorWithCode(c, http.StatusBadRequest, response.CodePasswordWrong, "原密码错误")
	default:
		accountError(c, err, "修改密码失败")
	}
}
