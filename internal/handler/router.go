package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pocket-assistant/internal/cache"
	"pocket-assistant/internal/middleware"
	"pocket-assistant/pkg/jwt"
)

// Handlers 全部 HTTP 处理器
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Chat         *ChatHandler
	Todo         *TodoHandler
	Stash        *StashHandler
	Profile      *ProfileHandler
	Subscription *SubscriptionHandler
}

// RegisterRoutes 注册所有 HTTP 路由
// 业务接口使用可选认证：带有效 Token 时以 Token 中的用户为准，否则使用请求中的 user_id
func RegisterRoutes(router *gin.Engine, h Handlers, jwtService *jwt.JWTService, tokenCache cache.Cache) {
	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		if err := tokenCache.Ping(c.Request.Context()); err != nil {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{"status": status})
	})

	requireAuth := middleware.AuthMiddleware(jwtService, tokenCache)
	optionalAuth := middleware.OptionalAuthMiddleware(jwtService, tokenCache)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/logout", requireAuth, h.Auth.Logout)
	}

	users := v1.Group("/users")
	{
		users.GET("", h.User.ListUsers)
		me := users.Group("/me", requireAuth)
		me.GET("", h.User.GetProfile)
		me.PUT("", h.User.UpdateProfile)
		me.PUT("/password", h.User.ChangePassword)
	}

	api := v1.Group("", optionalAuth)
	{
		api.POST("/chat", h.Chat.Chat)

		api.POST("/todos", h.Todo.Create)
		api.GET("/todos", h.Todo.List)
		api.PATCH("/todos/:id", h.Todo.SetCompleted)
		api.DELETE("/todos/:id", h.Todo.Delete)

		api.POST("/stash", h.Stash.Create)
		api.GET("/stash", h.Stash.List)
		api.DELETE("/stash/:id", h.Stash.Delete)

		api.POST("/profiles", h.Profile.Create)
		api.GET("/profiles", h.Profile.List)
		api.GET("/profiles/lookup", h.Profile.Lookup)
		api.PUT("/profiles/:id", h.Profile.Update)
		api.DELETE("/profiles/:id", h.Profile.Delete)

		api.POST("/subscriptions", h.Subscription.Subscribe)
		api.POST("/subscriptions/cancel", h.Subscription.Unsubscribe)
		api.GET("/subscriptions", h.Subscription.List)
	}
}
