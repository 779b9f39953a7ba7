package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"pocket-assistant/internal/service"
	pkgJwt "pocket-assistant/pkg/jwt"
	"pocket-assistant/pkg/response"
)

// WebSocket 升级器配置
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 跨域限制由 HTTP 层的 CORS 配置负责
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler 处理 WebSocket 连接
type Handler struct {
	hub           *Hub
	jwtService    *pkgJwt.JWTService
	defaultUserID int64
}

// NewHandler 创建 WebSocket Handler
func NewHandler(hub *Hub, jwtService *pkgJwt.JWTService, defaultUserID int64) *Handler {
	return &Handler{
		hub:           hub,
		jwtService:    jwtService,
		defaultUserID: defaultUserID,
	}
}

// HandleChatWS 处理对话 WebSocket 连接
// 路由: GET /ws/chat
// 参数:
//   - token (query): 可选，JWT Access Token，提供时必须有效
//   - user_id (query): 未提供 token 时使用，缺失或非法时使用默认用户
func (h *Handler) HandleChatWS(c *gin.Context) {
	userID := h.defaultUserID
	authenticated := false

	if token := c.Query("token"); token != "" {
		claims, err := h.jwtService.ValidateToken(token)
		if err != nil {
			response.Unauthorized(c, "无效的 token")
			return
		}
		userID = claims.UserID
		authenticated = true
	} else {
		var raw interface{}
		if v := c.Query("user_id"); v != "" {
			raw = v
		}
		userID = service.ResolveUserID(raw, h.defaultUserID)
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("failed to upgrade websocket")
		return
	}

	client := NewClient(h.hub, conn, userID, authenticated)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// RegisterRoutes 注册 WebSocket 路由
// 认证通过 query 中的 token 完成，不使用 HTTP 认证中间件
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	ws := r.Group("/ws")
	{
		ws.GET("/chat", h.HandleChatWS)
	}
}
