// Package handler 提供 HTTP 请求处理器
// 负责参数绑定、调用服务层、把业务错误映射为统一响应
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"pocket-assistant/internal/middleware"
	"pocket-assistant/internal/service"
	"pocket-assistant/pkg/response"
	"pocket-assistant/pkg/util"
)

// accountError 把账号相关的业务错误写成响应
// 未识别的错误记录日志并以 fallback 作为 500 的提示
func accountError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrUserExists):
		response.UserExists(c)
	case errors.Is(err, service.ErrUserNotFound):
		response.UserNotFound(c)
	case errors.Is(err, service.ErrPasswordWrong):
		response.PasswordWrong(c)
	case errors.Is(err, service.ErrUserDisabled):
		response.Forbidden(c, err.Error())
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error(fallback)
		response.InternalError(c, fallback)
	}
}

// AuthHandler 注册、登录与令牌
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register 注册账号
// @Summary 注册账号
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body service.RegisterRequest true "用户名和密码"
// @Success 200 {object} response.Response{data=service.RegisterResponse}
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		accountError(c, err, "注册失败")
		return
	}
	response.SuccessWithMessage(c, "注册成功", result)
}

// Login 登录并获取令牌
// @Summary 登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body service.LoginRequest true "用户名和密码"
// @Success 200 {object} response.Response{data=service.LoginResponse}
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		accountError(c, err, "登录失败")
		return
	}
	response.SuccessWithMessage(c, "登录成功", result)
}

// Logout 作废当前 Access Token
// @Summary 登出
// @Tags 认证
// @Security Bearer
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token, expireAt := middleware.GetToken(c)
	if token == "" {
		response.Unauthorized(c, "请先登录")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), util.HashToken(token), expireAt); err != nil {
		accountError(c, err, "登出失败")
		return
	}
	response.SuccessWithMessage(c, "登出成功", nil)
}

// RefreshTokenRequest 刷新令牌请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshToken 用 Refresh Token 换取新的 Access Token
// @Summary 刷新令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body RefreshTokenRequest true "Refresh Token"
// @Success 200 {object} response.Response{data=service.RefreshTokenResponse}
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误")
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	switch {
	case err == nil:
		response.Success(c, result)
	case errors.Is(err, service.ErrUserDisabled):
		response.Forbidden(c, err.Error())
	default:
		response.ErrorWithCode(c, http.StatusUnauthorized, response.CodeUnauthorized, "Refresh Token 无效或已过期")
	}
}
