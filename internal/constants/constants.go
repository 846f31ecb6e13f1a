package constants

// 订单状态常量（delivered / cancelled 为终态）
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// IsOrderStatus 是否为已定义的订单状态
func IsOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled:
		return true
	}
	return false
}

// 提现状态常量
const (
	PayoutStatusPending    = "pending"
	PayoutStatusProcessing = "processing"
	PayoutStatusCompleted  = "completed"
	PayoutStatusFailed     = "failed"
	PayoutStatusReversed   = "reversed"
	PayoutStatusCancelled  = "cancelled"
)

// 提现动作常量（request 仅用于审计记录，不在状态机内）
const (
	PayoutActionRequest  = "request"
	PayoutActionSubmit   = "submit"
	PayoutActionComplete = "complete"
	PayoutActionFail     = "fail"
	PayoutActionRetry    = "retry"
	PayoutActionCancel   = "cancel"
	PayoutActionReverse  = "reverse"
)

// 提现到账方式
const (
	PayoutMethodBank        = "bank"
	PayoutMethodMobileMoney = "mobile_money"
)

// 操作者类型
const (
	ActorTypeVendor    = "vendor"
	ActorTypeAdmin     = "admin"
	ActorTypeProcessor = "processor"
	ActorTypeSystem    = "system"
)

// 设置键常量
const (
	SettingKeyCommissionConfig = "commission_config"
	SettingKeyLowStockConfig   = "low_stock_config"
)

// 商户状态
const (
	VendorStatusActive    = "active"
	VendorStatusSuspended = "suspended"
)

// 低库存告警抑制原因
const (
	AlertReasonFirst          = "first_alert"
	AlertReasonElapsed        = "cooldown_elapsed"
	AlertReasonBypassed       = "cooldown_bypassed"
	AlertReasonCooldownActive = "cooldown_active"
)

// 异步任务类型与队列
const (
	TaskPayoutStatusEmail = "payout:status_email"
	TaskLowStockScan      = "low_stock:scan"

	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 后台审计动作与对象类型
const (
	AuditActionAdminRolesSet        = "admin_roles_set"
	AuditActionDefaultRateUpdated   = "commission_default_rate_updated"
	AuditActionVendorRateSet        = "vendor_commission_rate_set"
	AuditActionVendorRateCleared    = "vendor_commission_rate_cleared"
	AuditActionCategoryRateSet      = "category_commission_rate_set"
	AuditActionCategoryRateCleared  = "category_commission_rate_cleared"
	AuditActionBalanceAdjusted      = "balance_adjusted"
	AuditActionLowStockSettingSaved = "low_stock_setting_updated"

	AuditTargetAdmin    = "admin"
	AuditTargetVendor   = "vendor"
	AuditTargetCategory = "category"
	AuditTargetSetting  = "setting"
)
