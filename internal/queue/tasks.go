package queue

import (
	"encoding/json"

	"github.com/vendora/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPayoutStatusEmail 提现状态变更邮件
	TaskPayoutStatusEmail = constants.TaskPayoutStatusEmail
	// TaskLowStockScan 低库存扫描
	TaskLowStockScan = constants.TaskLowStockScan
)

// PayoutStatusEmailPayload 提现状态邮件任务载荷
type PayoutStatusEmailPayload struct {
	PayoutID uint   `json:"payout_id"`
	Status   string `json:"status"`
}

// LowStockScanPayload 低库存扫描任务载荷，VendorID 为 0 表示全部商户
type LowStockScanPayload struct {
	VendorID     uint `json:"vendor_id"`
	SkipCooldown bool `json:"skip_cooldown"`
	RequestedBy  uint `json:"requested_by"`
}

// NewPayoutStatusEmailTask 创建提现状态邮件任务
func NewPayoutStatusEmailTask(payload PayoutStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPayoutStatusEmail, body), nil
}

// NewLowStockScanTask 创建低库存扫描任务
func NewLowStockScanTask(payload LowStockScanPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, body), nil
}
