package shared

import (
	"errors"

	"github.com/vendora/internal/http/response"
	"github.com/vendora/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 业务错误到接口错误的映射
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// ServiceErrorRules 各服务共用的错误映射，按顺序匹配
var ServiceErrorRules = []MappedError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.login_invalid"},
	{Target: service.ErrAccountDisabled, Code: response.CodeForbidden, Key: "error.account_disabled"},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
	{Target: service.ErrPasswordTooShort, Code: response.CodeBadRequest, Key: "error.password_too_short"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},

	{Target: service.ErrRateInvalid, Code: response.CodeBadRequest, Key: "error.commission_rate_invalid"},
	{Target: service.ErrVendorNotFound, Code: response.CodeNotFound, Key: "error.vendor_not_found"},
	{Target: service.ErrCategoryNotFound, Code: response.CodeNotFound, Key: "error.category_not_found"},

	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeConflict, Key: "error.order_status_invalid"},
	{Target: service.ErrOrderTotalLocked, Code: response.CodeConflict, Key: "error.order_total_locked"},
	{Target: service.ErrOrderTotalInvalid, Code: response.CodeBadRequest, Key: "error.order_total_invalid"},
	{Target: service.ErrOrderItemsInvalid, Code: response.CodeBadRequest, Key: "error.order_items_invalid"},
	{Target: service.ErrProductNotFound, Code: response.CodeBadRequest, Key: "error.product_not_found"},

	{Target: service.ErrInsufficientBalance, Code: response.CodeConflict, Key: "error.payout_insufficient_balance"},
	{Target: service.ErrInvalidStateTransition, Code: response.CodeConflict, Key: "error.payout_invalid_transition"},
	{Target: service.ErrPayoutNotFound, Code: response.CodeNotFound, Key: "error.payout_not_found"},
	{Target: service.ErrPayoutStatusInvalid, Code: response.CodeBadRequest, Key: "error.payout_status_invalid"},
	{Target: service.ErrPayoutAmountInvalid, Code: response.CodeBadRequest, Key: "error.payout_amount_invalid"},
	{Target: service.ErrPayoutFeeInvalid, Code: response.CodeBadRequest, Key: "error.payout_fee_invalid"},
	{Target: service.ErrPayoutBelowMinimum, Code: response.CodeBadRequest, Key: "error.payout_below_minimum"},
	{Target: service.ErrPayoutDestinationInvalid, Code: response.CodeBadRequest, Key: "error.payout_destination_invalid"},
	{Target: service.ErrPayoutTransferCodeEmpty, Code: response.CodeBadRequest, Key: "error.payout_transfer_code_required"},
	{Target: service.ErrPayoutReasonRequired, Code: response.CodeBadRequest, Key: "error.payout_reason_required"},
	{Target: service.ErrPayoutBusy, Code: response.CodeTooManyRequests, Key: "error.payout_busy"},
	{Target: service.ErrAdjustmentInvalid, Code: response.CodeBadRequest, Key: "error.adjustment_invalid"},
}

// RespondServiceError 按映射返回业务错误，未命中时记录原始错误并返回 500
func RespondServiceError(c *gin.Context, err error) {
	for _, rule := range ServiceErrorRules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, response.CodeInternal, "error.internal", err)
}
