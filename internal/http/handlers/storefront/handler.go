package storefront

import "github.com/marketplace-next/internal/provider"

// Handler 商城前台接口处理器入口
// 说明：该处理器服务购物车、结算与下单 API，游客与已登录用户共用。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
