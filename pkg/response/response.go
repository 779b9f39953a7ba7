// Package response 定义接口的统一返回信封 {code, message, data}
// code 为 0 表示成功，其余为业务错误码
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一返回结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// 业务错误码，按模块分段
const (
	CodeSuccess = 0

	// 通用
	CodeBadRequest    = 1000
	CodeUnauthorized  = 1001
	CodeForbidden     = 1002
	CodeNotFound      = 1003
	CodeInternalError = 1004

	// 账号
	CodeUserExists    = 1101
	CodeUserNotFound  = 1102
	CodePasswordWrong = 1103

	// 待办
	CodeTodoNotFound = 1201
	CodeRemindInPast = 1202

	// 人脉画像
	CodeProfileNotFound = 1301
	CodeProfileExists   = 1302

	// 收藏内容
	CodeStashNotFound = 1401
)

func write(c *gin.Context, status, code int, message string, data interface{}) {
	c.JSON(status, Response{Code: code, Message: message, Data: data})
}

// Success 200，message 固定为 success
func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, CodeSuccess, "success", data)
}

// SuccessWithMessage 200，带自定义提示
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	write(c, http.StatusOK, CodeSuccess, message, data)
}

// Created 201
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, CodeSuccess, "创建成功", data)
}

// ErrorWithCode 任意 HTTP 状态码与业务错误码
func ErrorWithCode(c *gin.Context, httpCode, bizCode int, message string) {
	write(c, httpCode, bizCode, message, nil)
}

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	BadRequestWithCode(c, CodeBadRequest, message)
}

// BadRequestWithCode 400，带业务错误码
func BadRequestWithCode(c *gin.Context, bizCode int, message string) {
	write(c, http.StatusBadRequest, bizCode, message, nil)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	write(c, http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	write(c, http.StatusForbidden, CodeForbidden, message, nil)
}

// NotFoundWithCode 404，带业务错误码
func NotFoundWithCode(c *gin.Context, bizCode int, message string) {
	write(c, http.StatusNotFound, bizCode, message, nil)
}

// InternalError 500
// message 直接返回给调用方，不要放入内部错误详情
func InternalError(c *gin.Context, message string) {
	write(c, http.StatusInternalServerError, CodeInternalError, message, nil)
}

// UserExists 用户名已被占用
func UserExists(c *gin.Context) {
	BadRequestWithCode(c, CodeUserExists, "用户名已存在")
}

// UserNotFound 账号不存在
func UserNotFound(c *gin.Context) {
	NotFoundWithCode(c, CodeUserNotFound, "用户不存在")
}

// PasswordWrong 密码错误
func PasswordWrong(c *gin.Context) {
	write(c, http.StatusUnauthorized, CodePasswordWrong, "密码错误", nil)
}
