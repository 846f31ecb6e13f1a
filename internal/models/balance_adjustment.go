package models

import "time"

// BalanceAdjustment 商户余额人工调整（正数入账，负数扣减）
type BalanceAdjustment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	VendorID  uint      `gorm:"index;not null" json:"vendor_id"`
	Amount    Money     `gorm:"type:decimal(20,2);not null" json:"amount"`
	Reason    string    `gorm:"type:varchar(500);not null" json:"reason"`
	PayoutID  *uint     `gorm:"index" json:"payout_id,omitempty"` // 冲正等关联的提现单
	AdminID   uint      `gorm:"not null;default:0" json:"admin_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (BalanceAdjustment) TableName() string {
	return "balance_adjustments"
}
