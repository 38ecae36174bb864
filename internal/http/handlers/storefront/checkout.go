package storefront

import (
	"github.com/marketplace-next/internal/http/response"
	"github.com/marketplace-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutPreview 结算预览：当前购物车 + 定价明细
func (h *Handler) CheckoutPreview(c *gin.Context) {
	session, ok := getSession(c)
	if !ok {
		return
	}
	cart, pricing, err := h.CheckoutService.Preview(c.Request.Context(), session)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{
		"cart":      cart,
		"itemCount": cart.ItemCount(),
		"pricing":   pricing,
	})
}

// SubmitOrder 提交订单
func (h *Handler) SubmitOrder(c *gin.Context) {
	session, ok := getSession(c)
	if !ok {
		return
	}
	var form service.CheckoutForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	result, err := h.CheckoutService.Submit(c.Request.Context(), session, form)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.SuccessWithMsg(c, "order placed", result)
}
