package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/marketplace-next/internal/gateway"
	"github.com/marketplace-next/internal/logger"
	"github.com/marketplace-next/internal/provider"
	"github.com/marketplace-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPlacedNotify, c.handleOrderPlacedNotify)
}

func (c *Consumer) handleOrderPlacedNotify(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_placed_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderPlacedNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_placed_notify_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.OrderID) == "" {
		logger.Debugw("worker_order_placed_notify_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.NotificationGateway == nil {
		logger.Warnw("worker_order_placed_notify_skip_gateway_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.NotificationGateway.NotifyOrderPlaced(ctx, gateway.OrderPlacedNotification{
		OrderID:     payload.OrderID,
		OrderNumber: payload.OrderNumber,
		Email:       payload.Email,
		GrandTotal:  payload.GrandTotal,
	}); err != nil {
		logger.Warnw("worker_order_placed_notify_failed",
			"order_id", payload.OrderID,
			"order_number", payload.OrderNumber,
			"error", err,
		)
		return err
	}
	return nil
}
