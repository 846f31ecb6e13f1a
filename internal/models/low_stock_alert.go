package models

import "time"

// LowStockAlert 低库存告警发送记录，按 (商户, 商品) 唯一
type LowStockAlert struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	VendorID      uint      `gorm:"not null;uniqueIndex:idx_low_stock_vendor_product" json:"vendor_id"`
	ProductID     uint      `gorm:"not null;uniqueIndex:idx_low_stock_vendor_product" json:"product_id"`
	LastAlertedAt time.Time `gorm:"not null" json:"last_alerted_at"`
	AlertCount    int       `gorm:"not null;default:0" json:"alert_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName 指定表名
func (LowStockAlert) TableName() string {
	return "low_stock_alerts"
}
