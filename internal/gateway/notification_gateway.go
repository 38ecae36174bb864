package gateway

import (
	"context"
	"net/http"
)

// OrderPlacedNotification 下单通知载荷
type OrderPlacedNotification struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Email       string `json:"email"`
	GrandTotal  string `json:"grandTotal"`
}

// NotificationGateway 上游通知网关
type NotificationGateway interface {
	NotifyOrderPlaced(ctx context.Context, notification OrderPlacedNotification) error
}

// HTTPNotificationGateway 基于上游 REST API 的实现
type HTTPNotificationGateway struct {
	client *Client
}

// NewHTTPNotificationGateway 创建上游通知网关
func NewHTTPNotificationGateway(client *Client) *HTTPNotificationGateway {
	return &HTTPNotificationGateway{client: client}
}

// NotifyOrderPlaced 推送下单通知
func (g *HTTPNotificationGateway) NotifyOrderPlaced(ctx context.Context, notification OrderPlacedNotification) error {
	return g.client.doJSON(ctx, http.MethodPost, "/api/notifications/order-placed", "", notification, nil)
}
