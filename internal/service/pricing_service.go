package service

import (
	"github.com/marketplace-next/internal/config"
	"github.com/marketplace-next/internal/constants"
	"github.com/marketplace-next/internal/models"

	"github.com/shopspring/decimal"
)

// PricingService 定价计算器（纯函数，无缓存）
type PricingService struct {
	freeShippingThreshold decimal.Decimal
	flatShippingFee       decimal.Decimal
	taxRate               decimal.Decimal
}

// NewPricingService 创建定价计算器
func NewPricingService(cfg config.PricingConfig) *PricingService {
	threshold := decimal.NewFromFloat(cfg.FreeShippingThreshold)
	if threshold.LessThanOrEqual(decimal.Zero) {
		threshold = decimal.NewFromFloat(constants.DefaultFreeShippingThreshold)
	}
	fee := decimal.NewFromFloat(cfg.FlatShippingFee)
	if fee.LessThan(decimal.Zero) {
		fee = decimal.NewFromFloat(constants.DefaultFlatShippingFee)
	}
	rate := decimal.NewFromFloat(cfg.TaxRate)
	if rate.LessThan(decimal.Zero) {
		rate = decimal.NewFromFloat(constants.DefaultTaxRate)
	}
	return &PricingService{
		freeShippingThreshold: threshold,
		flatShippingFee:       fee,
		taxRate:               rate,
	}
}

// Calculate 计算定价明细
// 小计为各行单价 × 数量之和；小计严格大于免邮门槛才免运费
func (s *PricingService) Calculate(cart *models.Cart) models.PricingBreakdown {
	subtotal := decimal.Zero
	if cart != nil {
		for _, line := range cart.Items {
			subtotal = subtotal.Add(line.LineTotal())
		}
	}

	shipping := s.flatShippingFee
	if subtotal.GreaterThan(s.freeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(s.taxRate).Round(2)
	grand := subtotal.Add(shipping).Add(tax)

	return models.PricingBreakdown{
		Subtotal:    models.NewMoneyFromDecimal(subtotal),
		ShippingFee: models.NewMoneyFromDecimal(shipping),
		Tax:         models.NewMoneyFromDecimal(tax),
		GrandTotal:  models.NewMoneyFromDecimal(grand),
	}
}
