package service

import (
	"testing"

	"github.com/marketplace-next/internal/config"
	"github.com/marketplace-next/internal/models"
)

func newTestPricingService() *PricingService {
	return NewPricingService(config.PricingConfig{
		FreeShippingThreshold: 50,
		FlatShippingFee:       9.99,
		TaxRate:               0.08,
	})
}

func cartWithSubtotal(price float64, quantity int) *models.Cart {
	cart := models.NewGuestCart()
	cart.MergeLine("p1", "Item", money(price), quantity, "", nil)
	return cart
}

func TestPricingCalculateBelowThresholdChargesFlatFee(t *testing.T) {
	svc := newTestPricingService()

	// 小计 40.00：收取固定运费，税率 8%
	breakdown := svc.Calculate(cartWithSubtotal(20, 2))
	if breakdown.Subtotal.String() != "40.00" {
		t.Fatalf("subtotal want 40.00 got %s", breakdown.Subtotal.String())
	}
	if breakdown.ShippingFee.String() != "9.99" {
		t.Fatalf("shipping want 9.99 got %s", breakdown.ShippingFee.String())
	}
	if breakdown.Tax.String() != "3.20" {
		t.Fatalf("tax want 3.20 got %s", breakdown.Tax.String())
	}
	if breakdown.GrandTotal.String() != "53.19" {
		t.Fatalf("grand total want 53.19 got %s", breakdown.GrandTotal.String())
	}
}

func TestPricingCalculateAboveThresholdShipsFree(t *testing.T) {
	svc := newTestPricingService()

	breakdown := svc.Calculate(cartWithSubtotal(30, 2))
	if breakdown.ShippingFee.String() != "0.00" {
		t.Fatalf("shipping want 0.00 got %s", breakdown.ShippingFee.String())
	}
	if breakdown.Tax.String() != "4.80" {
		t.Fatalf("tax want 4.80 got %s", breakdown.Tax.String())
	}
	if breakdown.GrandTotal.String() != "64.80" {
		t.Fatalf("grand total want 64.80 got %s", breakdown.GrandTotal.String())
	}
}

func TestPricingCalculateExactThresholdStillChargesShipping(t *testing.T) {
	svc := newTestPricingService()

	// 恰好等于门槛不免邮
	breakdown := svc.Calculate(cartWithSubtotal(50, 1))
	if breakdown.ShippingFee.String() != "9.99" {
		t.Fatalf("subtotal equal to threshold should still ship at 9.99, got %s", breakdown.ShippingFee.String())
	}
}

func TestPricingCalculateEmptyCart(t *testing.T) {
	svc := newTestPricingService()

	breakdown := svc.Calculate(models.NewGuestCart())
	if breakdown.Subtotal.String() != "0.00" {
		t.Fatalf("subtotal want 0.00 got %s", breakdown.Subtotal.String())
	}
	if breakdown.ShippingFee.String() != "9.99" {
		t.Fatalf("shipping want 9.99 got %s", breakdown.ShippingFee.String())
	}
	if breakdown.GrandTotal.String() != "9.99" {
		t.Fatalf("grand total want 9.99 got %s", breakdown.GrandTotal.String())
	}
}

func TestPricingCalculateIsIdempotent(t *testing.T) {
	svc := newTestPricingService()
	cart := cartWithSubtotal(19.99, 3)

	first := svc.Calculate(cart)
	second := svc.Calculate(cart)

	if first.Subtotal.String() != second.Subtotal.String() ||
		first.ShippingFee.String() != second.ShippingFee.String() ||
		first.Tax.String() != second.Tax.String() ||
		first.GrandTotal.String() != second.GrandTotal.String() {
		t.Fatalf("repeated calculation diverged: %+v vs %+v", first, second)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 3 {
		t.Fatalf("calculation must not mutate the cart: %+v", cart.Items)
	}
}

func TestPricingCalculateNilCart(t *testing.T) {
	svc := newTestPricingService()

	breakdown := svc.Calculate(nil)
	if breakdown.Subtotal.String() != "0.00" {
		t.Fatalf("nil cart subtotal want 0.00 got %s", breakdown.Subtotal.String())
	}
}
