package queue

import (
	"encoding/json"

	"github.com/marketplace-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderPlacedNotify 下单通知任务
	TaskOrderPlacedNotify = constants.TaskOrderPlacedNotify
)

// OrderPlacedNotifyPayload 下单通知任务载荷
type OrderPlacedNotifyPayload struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Email       string `json:"email"`
	GrandTotal  string `json:"grand_total"`
}

// NewOrderPlacedNotifyTask 创建下单通知任务
func NewOrderPlacedNotifyTask(payload OrderPlacedNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPlacedNotify, body), nil
}
