package service

import (
	"errors"
	"fmt"
)

// 通用错误
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrForbidden          = errors.New("forbidden")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
)

// 佣金相关错误
var (
	ErrRateInvalid = errors.New("commission rate must be within [0, 1]")
	// ErrRateResolutionAmbiguous 正常情况下不会出现：解析总会落到平台默认费率，
	// 只有平台默认费率本身非法时才返回
	ErrRateResolutionAmbiguous = errors.New("commission rate resolution produced no rate")
	ErrVendorNotFound          = errors.New("vendor not found")
	ErrCategoryNotFound        = errors.New("category not found")
)

// 订单相关错误
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderStatusInvalid = errors.New("order status transition not allowed")
	ErrOrderTotalLocked   = errors.New("order total is immutable once delivered")
	ErrOrderTotalInvalid  = errors.New("order total must not be negative")
	ErrOrderItemsInvalid  = errors.New("order items invalid")
	ErrProductNotFound    = errors.New("product not found")
)

// 提现相关错误
var (
	ErrInsufficientBalance      = errors.New("insufficient withdrawable balance")
	ErrInvalidStateTransition   = errors.New("invalid payout state transition")
	ErrPayoutNotFound           = errors.New("payout not found")
	ErrPayoutStatusInvalid      = errors.New("unknown payout status")
	ErrPayoutAmountInvalid      = errors.New("payout amount invalid")
	ErrPayoutFeeInvalid         = errors.New("payout fee must be within [0, amount)")
	ErrPayoutBelowMinimum       = errors.New("payout amount below minimum")
	ErrPayoutDestinationInvalid = errors.New("payout destination invalid")
	ErrPayoutTransferCodeEmpty  = errors.New("transfer code required")
	ErrPayoutReasonRequired     = errors.New("reason required")
	ErrPayoutBusy               = errors.New("another payout operation for this vendor is in progress")
	ErrAdjustmentInvalid        = errors.New("balance adjustment invalid")
)

// 低库存与通知相关错误
var (
	ErrAlertDispatchFailed       = errors.New("low stock alert dispatch failed")
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)

// TransitionError 非法状态迁移，携带当前状态与动作
// errors.Is(err, ErrInvalidStateTransition) 成立
type TransitionError struct {
	From   string
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s a %s payout", ErrInvalidStateTransition.Error(), e.Action, e.From)
}

// Is 支持 errors.Is 匹配哨兵错误
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}

// InsufficientBalanceError 余额不足，携带申请金额与可提现余额
type InsufficientBalanceError struct {
	Requested    string
	Withdrawable string
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s: requested %s, withdrawable %s", ErrInsufficientBalance.Error(), e.Requested, e.Withdrawable)
}

// Is 支持 errors.Is 匹配哨兵错误
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}
