package storefront

import (
	"errors"

	"github.com/marketplace-next/internal/http/handlers/shared"
	"github.com/marketplace-next/internal/http/response"
	"github.com/marketplace-next/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	shared.RespondError(c, code, msg, err)
}

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrCartItemInvalid, code: response.CodeBadRequest, msg: "cart item invalid"},
	{target: service.ErrCartSyncFailed, code: response.CodeUpstreamFailed, msg: "cart sync failed, please retry"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrCheckoutFieldRequired, code: response.CodeBadRequest, msg: "checkout field required"},
	{target: service.ErrPasswordMismatch, code: response.CodeBadRequest, msg: "passwords do not match"},
	{target: service.ErrCartSyncFailed, code: response.CodeUpstreamFailed, msg: "cart sync failed, please retry"},
	{target: service.ErrOrderSubmitFailed, code: response.CodeUpstreamFailed, msg: "order submit failed, please retry"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart operation failed")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "checkout failed")
}
