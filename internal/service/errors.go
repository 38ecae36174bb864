package service

import "errors"

var (
	ErrCartItemInvalid       = errors.New("cart item invalid")
	ErrCartSyncFailed        = errors.New("cart sync failed")
	ErrCartEmpty             = errors.New("cart is empty")
	ErrCheckoutFieldRequired = errors.New("checkout field required")
	ErrPasswordMismatch      = errors.New("passwords do not match")
	ErrOrderSubmitFailed     = errors.New("order submit failed")
)
