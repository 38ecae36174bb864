package storefront

import (
	"github.com/marketplace-next/internal/http/response"
	"github.com/marketplace-next/internal/models"
	"github.com/marketplace-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 添加购物车行请求
type AddCartItemRequest struct {
	ProductID string         `json:"productId" binding:"required"`
	Name      string         `json:"name"`
	Price     models.Money   `json:"price"`
	Quantity  int            `json:"quantity" binding:"required"`
	Image     string         `json:"image"`
	Variant   models.Variant `json:"variant"`
}

// UpdateCartItemRequest 更新购物车行请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse 购物车响应
type CartResponse struct {
	Cart      *models.Cart            `json:"cart"`
	ItemCount int                     `json:"itemCount"`
	Pricing   models.PricingBreakdown `json:"pricing"`
}

func (h *Handler) cartResponse(cart *models.Cart) CartResponse {
	return CartResponse{
		Cart:      cart,
		ItemCount: cart.ItemCount(),
		Pricing:   h.PricingService.Calculate(cart),
	}
}

// GetCart 获取当前购物车及定价明细
func (h *Handler) GetCart(c *gin.Context) {
	session, ok := getSession(c)
	if !ok {
		return
	}
	cart, err := h.CartService.Get(c.Request.Context(), session)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, h.cartResponse(cart))
}

// AddCartItem 添加商品到购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	session, ok := getSession(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	cart, err := h.CartService.AddItem(c.Request.Context(), session, service.AddItemInput{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Quantity:  req.Quantity,
		Image:     req.Image,
		Variant:   req.Variant,
	})
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, h.cartResponse(cart))
}

// UpdateCartItem 更新购物车行数量（数量 <= 0 视为删除）
func (h *Handler) UpdateCartItem(c *gin.Context) {
	session, ok := getSession(c)
	if !ok {
		return
	}
	lineID := c.Param("id")
	if lineID == "" {
		respondError(c, response.CodeBadRequest, "line id required", nil)
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	cart, err := h.CartService.UpdateQuantity(c.Request.Context(), session, lineID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, h.cartResponse(cart))
}

// RemoveCartItem 删除购物车行
func (h *Handler) RemoveCartItem(c *gin.Context) {
	session, ok := getSession(c)
	if !ok {
		return
	}
	lineID := c.Param("id")
	if lineID == "" {
		respondError(c, response.CodeBadRequest, "line id required", nil)
		return
	}
	cart, err := h.CartService.RemoveItem(c.Request.Context(), session, lineID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, h.cartResponse(cart))
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	session, ok := getSession(c)
	if !ok {
		return
	}
	cart, err := h.CartService.Clear(c.Request.Context(), session)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, h.cartResponse(cart))
}
