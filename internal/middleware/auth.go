package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"

	"pocket-assistant/internal/cache"
	"pocket-assistant/pkg/jwt"
	"pocket-assistant/pkg/response"
	"pocket-assistant/pkg/util"
)

// 上下文中保存认证信息的键
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextToken    = "token"
	ContextTokenExp = "token_exp"
)

// authenticate 解析并校验 Bearer Token
// 返回:
//   - *jwt.UserClaims: 校验通过时的声明
//   - string: 校验失败时给用户的提示
func authenticate(c *gin.Context, jwtService *jwt.JWTService, tokenCache cache.Cache) (*jwt.UserClaims, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, "请先登录"
	}

	// 格式: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, "认证格式错误"
	}
	tokenString := parts[1]

	claims, err := jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil, "Token 无效或已过期"
	}

	// 用户登出后 Token 会进入黑名单
	if tokenCache.IsTokenBlacklisted(c.Request.Context(), util.HashToken(tokenString)) {
		return nil, "Token 已失效，请重新登录"
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextToken, tokenString)
	c.Set(ContextTokenExp, claims.ExpiresAt)
	return claims, ""
}

// AuthMiddleware 创建 JWT 认证中间件
// 验证请求头中的 Bearer Token，并将用户信息存入上下文
// 参数:
//   - jwtService: JWT 服务实例，用于解析和验证 Token
//   - tokenCache: 缓存实例，用于检查 Token 黑名单
//
// 返回:
//   - gin.HandlerFunc: Gin 中间件函数
func AuthMiddleware(jwtService *jwt.JWTService, tokenCache cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, msg := authenticate(c, jwtService, tokenCache); msg != "" {
			response.Unauthorized(c, msg)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware 创建可选的 JWT 认证中间件
// 提供了有效 Token 时将用户信息存入上下文，否则按匿名请求继续处理
func OptionalAuthMiddleware(jwtService *jwt.JWTService, tokenCache cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, jwtService, tokenCache)
		c.Next()
	}
}

// GetUserID 从上下文获取用户 ID
// 返回:
//   - int64: 用户 ID，如果未认证返回 0
func GetUserID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}

// GetUsername 从上下文获取用户名
func GetUsername(c *gin.Context) string {
	return c.GetString(ContextUsername)
}

// GetToken 从上下文获取原始 Token 及其过期时间
// 未认证时 Token 为空
func GetToken(c *gin.Context) (string, time.Time) {
	token := c.GetString(ContextToken)
	expireAt := time.Now()
	if exp, ok := c.Get(ContextTokenExp); ok {
		if numeric, ok := exp.(*gojwt.NumericDate); ok && numeric != nil {
			expireAt = numeric.Time
		}
	}
	return token, expireAt
}
