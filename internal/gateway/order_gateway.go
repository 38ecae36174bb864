package gateway

import (
	"context"
	"net/http"

	"github.com/marketplace-next/internal/models"
)

// Address 收货/账单地址
type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Line1     string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

// OrderSubmission 订单提交载荷
type OrderSubmission struct {
	CartID          string                  `json:"cartId"`
	Items           []models.CartLine       `json:"items"`
	Pricing         models.PricingBreakdown `json:"pricing"`
	Email           string                  `json:"email"`
	Phone           string                  `json:"phone,omitempty"`
	ShippingAddress Address                 `json:"shippingAddress"`
	BillingAddress  Address                 `json:"billingAddress"`
	ShippingMethod  string                  `json:"shippingMethod"`
	PaymentMethodID string                  `json:"paymentMethodId"`
	CreateAccount   bool                    `json:"createAccount,omitempty"`
	Password        string                  `json:"password,omitempty"`
}

// OrderResult 订单提交结果
type OrderResult struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
}

// OrderGateway 上游订单网关
type OrderGateway interface {
	Submit(ctx context.Context, token string, order OrderSubmission) (*OrderResult, error)
}

// HTTPOrderGateway 基于上游 REST API 的实现
type HTTPOrderGateway struct {
	client *Client
}

// NewHTTPOrderGateway 创建上游订单网关
func NewHTTPOrderGateway(client *Client) *HTTPOrderGateway {
	return &HTTPOrderGateway{client: client}
}

// Submit 提交订单
func (g *HTTPOrderGateway) Submit(ctx context.Context, token string, order OrderSubmission) (*OrderResult, error) {
	var result OrderResult
	if err := g.client.doJSON(ctx, http.MethodPost, "/api/orders", token, order, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
