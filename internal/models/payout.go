package models

import (
	"time"
)

// Payout 商户提现单，只追加不删除
type Payout struct {
	ID                  uint       `gorm:"primarykey" json:"id"`                                              // 主键
	Reference           string     `gorm:"uniqueIndex;type:varchar(64);not null" json:"reference"`            // 对外单号
	VendorID            uint       `gorm:"index;not null" json:"vendor_id"`                                   // 商户ID
	Amount              Money      `gorm:"type:decimal(20,2);not null" json:"amount"`                         // 申请金额（占用余额）
	Fee                 Money      `gorm:"type:decimal(20,2);not null;default:0" json:"fee"`                  // 手续费
	NetAmount           Money      `gorm:"type:decimal(20,2);not null" json:"net_amount"`                     // 实际到账 = amount - fee
	Status              string     `gorm:"type:varchar(20);index;not null" json:"status"`                     // 状态
	Method              string     `gorm:"type:varchar(20);not null" json:"method"`                           // 到账方式 bank / mobile_money
	BankAccountName     string     `gorm:"type:varchar(120);not null" json:"bank_account_name"`               // 收款人
	BankName            string     `gorm:"type:varchar(120)" json:"bank_name,omitempty"`                      // 银行名称
	MobileMoneyProvider string     `gorm:"type:varchar(60)" json:"mobile_money_provider,omitempty"`           // 移动钱包服务商
	AccountNumber       string     `gorm:"type:varchar(64);not null" json:"account_number"`                   // 账号
	TransferCode        string     `gorm:"type:varchar(120);index" json:"transfer_code,omitempty"`            // 处理方受理编码
	FailureReason       *string    `gorm:"type:varchar(500)" json:"failure_reason"`                           // 失败原因，仅 failed 时有值
	Note                string     `gorm:"type:varchar(500)" json:"note,omitempty"`                           // 取消/冲正备注
	Attempts            int        `gorm:"not null;default:1" json:"attempts"`                                // 提交轮次
	SubmittedAt         *time.Time `json:"submitted_at,omitempty"`                                            // 提交处理方时间
	ProcessedAt         *time.Time `gorm:"index" json:"processed_at"`                                         // 完成时间
	CreatedAt           time.Time  `gorm:"index" json:"created_at"`                                           // 创建时间
	UpdatedAt           time.Time  `json:"updated_at"`                                                        // 更新时间
}

// TableName 指定表名
func (Payout) TableName() string {
	return "payouts"
}

// PayoutEvent 提现状态变更审计
type PayoutEvent struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	PayoutID   uint      `gorm:"index;not null" json:"payout_id"`
	Action     string    `gorm:"type:varchar(20);not null" json:"action"`
	FromStatus string    `gorm:"type:varchar(20)" json:"from_status"`
	ToStatus   string    `gorm:"type:varchar(20);not null" json:"to_status"`
	ActorType  string    `gorm:"type:varchar(20);not null" json:"actor_type"`
	ActorID    uint      `gorm:"not null;default:0" json:"actor_id"`
	Note       string    `gorm:"type:varchar(500)" json:"note,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (PayoutEvent) TableName() string {
	return "payout_events"
}
