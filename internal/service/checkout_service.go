package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/marketplace-next/internal/gateway"
	"github.com/marketplace-next/internal/logger"
	"github.com/marketplace-next/internal/models"
	"github.com/marketplace-next/internal/queue"
)

// CheckoutForm 结算表单
type CheckoutForm struct {
	Email                 string          `json:"email"`
	Phone                 string          `json:"phone"`
	ShippingAddress       gateway.Address `json:"shippingAddress"`
	BillingSameAsShipping bool            `json:"billingSameAsShipping"`
	BillingAddress        gateway.Address `json:"billingAddress"`
	ShippingMethod        string          `json:"shippingMethod"`
	PaymentMethodID       string          `json:"paymentMethodId"`
	CreateAccount         bool            `json:"createAccount"`
	Password              string          `json:"password"`
	ConfirmPassword       string          `json:"confirmPassword"`
}

// CheckoutService 结算编排：先校验后提交，成功后清空购物车并推送通知任务
type CheckoutService struct {
	carts   *CartService
	pricing *PricingService
	orders  gateway.OrderGateway
	queue   *queue.Client
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(carts *CartService, pricing *PricingService, orders gateway.OrderGateway, queueClient *queue.Client) *CheckoutService {
	return &CheckoutService{
		carts:   carts,
		pricing: pricing,
		orders:  orders,
		queue:   queueClient,
	}
}

// Preview 结算预览：当前购物车 + 定价明细
func (s *CheckoutService) Preview(ctx context.Context, session Session) (*models.Cart, models.PricingBreakdown, error) {
	cart, err := s.carts.Get(ctx, session)
	if err != nil {
		return nil, models.PricingBreakdown{}, err
	}
	return cart, s.pricing.Calculate(cart), nil
}

// Submit 提交订单
// 购物车与表单校验全部通过后才发起网络调用；提交失败时购物车保持不变
func (s *CheckoutService) Submit(ctx context.Context, session Session, form CheckoutForm) (*gateway.OrderResult, error) {
	cart, err := s.carts.Get(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}
	if err := validateCheckoutForm(form); err != nil {
		return nil, err
	}

	pricing := s.pricing.Calculate(cart)
	billing := form.ShippingAddress
	if !form.BillingSameAsShipping {
		billing = form.BillingAddress
	}
	submission := gateway.OrderSubmission{
		CartID:          cart.ID,
		Items:           cart.Items,
		Pricing:         pricing,
		Email:           strings.TrimSpace(form.Email),
		Phone:           strings.TrimSpace(form.Phone),
		ShippingAddress: form.ShippingAddress,
		BillingAddress:  billing,
		ShippingMethod:  form.ShippingMethod,
		PaymentMethodID: form.PaymentMethodID,
		CreateAccount:   form.CreateAccount,
	}
	if form.CreateAccount {
		submission.Password = form.Password
	}

	result, err := s.orders.Submit(ctx, session.Token, submission)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderSubmitFailed, err)
	}

	if _, err := s.carts.Clear(ctx, session); err != nil {
		logger.Warnw("checkout_clear_cart_failed",
			"session_id", session.ID,
			"order_id", result.OrderID,
			"error", err,
		)
	}
	if err := s.queue.EnqueueOrderPlacedNotify(queue.OrderPlacedNotifyPayload{
		OrderID:     result.OrderID,
		OrderNumber: result.OrderNumber,
		Email:       strings.TrimSpace(form.Email),
		GrandTotal:  pricing.GrandTotal.String(),
	}); err != nil {
		logger.Warnw("checkout_enqueue_notify_failed",
			"order_id", result.OrderID,
			"error", err,
		)
	}
	return result, nil
}

func validateCheckoutForm(form CheckoutForm) error {
	required := []struct {
		name  string
		value string
	}{
		{"email", form.Email},
		{"firstName", form.ShippingAddress.FirstName},
		{"lastName", form.ShippingAddress.LastName},
		{"address", form.ShippingAddress.Line1},
		{"city", form.ShippingAddress.City},
		{"zipCode", form.ShippingAddress.ZipCode},
		{"country", form.ShippingAddress.Country},
		{"paymentMethodId", form.PaymentMethodID},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s", ErrCheckoutFieldRequired, field.name)
		}
	}
	if !form.BillingSameAsShipping {
		billingRequired := []struct {
			name  string
			value string
		}{
			{"billing.firstName", form.BillingAddress.FirstName},
			{"billing.lastName", form.BillingAddress.LastName},
			{"billing.address", form.BillingAddress.Line1},
			{"billing.city", form.BillingAddress.City},
			{"billing.zipCode", form.BillingAddress.ZipCode},
			{"billing.country", form.BillingAddress.Country},
		}
		for _, field := range billingRequired {
			if strings.TrimSpace(field.value) == "" {
				return fmt.Errorf("%w: %s", ErrCheckoutFieldRequired, field.name)
			}
		}
	}
	if form.CreateAccount {
		if strings.TrimSpace(form.Password) == "" {
			return fmt.Errorf("%w: password", ErrCheckoutFieldRequired)
		}
		if form.Password != form.ConfirmPassword {
			return ErrPasswordMismatch
		}
	}
	return nil
}
