// Package middleware 提供 gin 中间件：认证、请求日志、panic 恢复和跨域
package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins     []string // 允许的来源，"*" 表示任意来源
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int // 预检结果缓存秒数
}

// DefaultCORSConfig 默认跨域配置
// origins 为空时允许任意来源
func DefaultCORSConfig(origins ...string) CORSConfig {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}
}

// allowedOrigin 返回应写入 Access-Control-Allow-Origin 的值，不允许时返回空串
// 携带凭据时浏览器不接受 "*"，此时回显请求来源
func (cfg CORSConfig) allowedOrigin(origin string) string {
	for _, o := range cfg.AllowOrigins {
		switch {
		case o == "*" && cfg.AllowCredentials && origin != "":
			return origin
		case o == "*":
			return "*"
		case o == origin:
			return origin
		}
	}
	return ""
}

// CORSMiddleware 跨域中间件，不传配置时使用 DefaultCORSConfig
// OPTIONS 预检请求直接以 204 结束
func CORSMiddleware(config ...CORSConfig) gin.HandlerFunc {
	cfg := DefaultCORSConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")
	expose := strings.Join(cfg.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(c *gin.Context) {
		if origin := cfg.allowedOrigin(c.GetHeader("Origin")); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			if cfg.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
			if expose != "" {
				c.Header("Access-Control-Expose-Headers", expose)
			}
		}

		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Access-Control-Allow-Headers", headers)
		if cfg.MaxAge > 0 {
			c.Header("Access-Control-Max-Age", maxAge)
		}
		c.AbortWithStatus(http.StatusNoContent)
	}
}
