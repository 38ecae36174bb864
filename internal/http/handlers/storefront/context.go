package storefront

import (
	"github.com/marketplace-next/internal/http/response"
	"github.com/marketplace-next/internal/service"

	"github.com/gin-gonic/gin"
)

// getSession 从请求上下文取出购物车会话
// 会话ID由 CartSession 中间件写入；用户令牌由可选的 JWT 中间件写入
func getSession(c *gin.Context) (service.Session, bool) {
	session := service.Session{}
	if value, ok := c.Get("cart_session_id"); ok {
		if id, ok := value.(string); ok {
			session.ID = id
		}
	}
	if value, ok := c.Get("user_token"); ok {
		if token, ok := value.(string); ok {
			session.Token = token
		}
	}
	if session.ID == "" {
		respondError(c, response.CodeBadRequest, "cart session missing", nil)
		return session, false
	}
	return session, true
}
