package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"pocket-assistant/internal/middleware"
	"pocket-assistant/internal/service"
)

// requestUserID 确定请求代表的用户
// 携带有效 Token 时以 Token 为准，否则解析请求中的 user_id，缺失或非法时使用默认用户
func requestUserID(c *gin.Context, raw interface{}, fallback int64) int64 {
	if id := middleware.GetUserID(c); id != 0 {
		return id
	}
	return service.ResolveUserID(raw, fallback)
}

// queryUserID 与 requestUserID 相同，user_id 取自查询参数
func queryUserID(c *gin.Context, fallback int64) int64 {
	if raw, ok := c.GetQuery("user_id"); ok {
		return requestUserID(c, raw, fallback)
	}
	return requestUserID(c, nil, fallback)
}

// pathID 解析路径参数 :id
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
