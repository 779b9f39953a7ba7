package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"pocket-assistant/pkg/response"
)

// RequestIDHeader 请求 ID 所在的请求/响应头
const RequestIDHeader = "X-Request-ID"

// ContextRequestID 上下文中保存请求 ID 的键
const ContextRequestID = "request_id"

// LoggerMiddleware 创建请求日志中间件
// 每个请求写一条 logrus 日志，带上状态码、耗时、IP、方法、路径和请求 ID
// 请求头没有 X-Request-ID 时生成一个，并在响应头中返回
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestID, requestID)
		c.Header(RequestIDHeader, requestID)

		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		entry := log.WithFields(log.Fields{
			"status":     status,
			"latency":    time.Since(start).String(),
			"ip":         c.ClientIP(),
			"method":     c.Request.Method,
			"path":       path,
			"request_id": requestID,
		})
		if userID := GetUserID(c); userID != 0 {
			entry = entry.WithField("user_id", userID)
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			entry = entry.WithField("error", errs)
		}

		switch {
		case status >= 500:
			entry.Error("request completed")
		case status >= 400:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}

// RecoveryMiddleware 创建 panic 恢复中间件
// 捕获处理器中的 panic，记录日志后返回 500
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.WithFields(log.Fields{
					"panic":      err,
					"path":       c.Request.URL.Path,
					"request_id": c.GetString(ContextRequestID),
				}).Error("panic recovered")
				response.InternalError(c, "服务器内部错误")
				c.Abort()
			}
		}()

		c.Next()
	}
}
