package gateway

import (
	"context"
	"net/http"

	"github.com/marketplace-next/internal/models"
)

// AddItemInput 添加行项目的入参
type AddItemInput struct {
	ProductID string         `json:"productId"`
	Name      string         `json:"name"`
	Price     models.Money   `json:"price"`
	Quantity  int            `json:"quantity"`
	Image     string         `json:"image,omitempty"`
	Variant   models.Variant `json:"variant,omitempty"`
}

// CartGateway 上游购物车网关
type CartGateway interface {
	Fetch(ctx context.Context, token string) (*models.Cart, error)
	AddItem(ctx context.Context, token string, input AddItemInput) (*models.Cart, error)
	UpdateItem(ctx context.Context, token, lineID string, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, token, lineID string) (*models.Cart, error)
	Clear(ctx context.Context, token string) error
}

// HTTPCartGateway 基于上游 REST API 的实现
type HTTPCartGateway struct {
	client *Client
}

// NewHTTPCartGateway 创建上游购物车网关
func NewHTTPCartGateway(client *Client) *HTTPCartGateway {
	return &HTTPCartGateway{client: client}
}

// Fetch 拉取远端购物车
func (g *HTTPCartGateway) Fetch(ctx context.Context, token string) (*models.Cart, error) {
	var cart models.Cart
	if err := g.client.doJSON(ctx, http.MethodGet, "/api/cart", token, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem 向远端购物车添加行项目
func (g *HTTPCartGateway) AddItem(ctx context.Context, token string, input AddItemInput) (*models.Cart, error) {
	var cart models.Cart
	if err := g.client.doJSON(ctx, http.MethodPost, "/api/cart/items", token, input, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateItem 更新远端行项目数量
func (g *HTTPCartGateway) UpdateItem(ctx context.Context, token, lineID string, quantity int) (*models.Cart, error) {
	var cart models.Cart
	payload := map[string]interface{}{"quantity": quantity}
	if err := g.client.doJSON(ctx, http.MethodPut, "/api/cart/items/"+lineID, token, payload, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveItem 删除远端行项目
func (g *HTTPCartGateway) RemoveItem(ctx context.Context, token, lineID string) (*models.Cart, error) {
	var cart models.Cart
	if err := g.client.doJSON(ctx, http.MethodDelete, "/api/cart/items/"+lineID, token, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Clear 清空远端购物车
func (g *HTTPCartGateway) Clear(ctx context.Context, token string) error {
	return g.client.doJSON(ctx, http.MethodDelete, "/api/cart", token, nil, nil)
}
