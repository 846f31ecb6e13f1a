package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                   // 主键
	VendorID          uint           `gorm:"not null;index" json:"vendor_id"`                        // 商户ID
	CategoryID        uint           `gorm:"not null;index" json:"category_id"`                      // 分类ID
	SKU               string         `gorm:"type:varchar(80);index" json:"sku"`                      // 商户侧编码
	Name              string         `gorm:"type:varchar(200);not null" json:"name"`                 // 名称
	Price             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`     // 售价
	Stock             int            `gorm:"not null;default:0" json:"stock"`                        // 当前库存
	LowStockThreshold *int           `json:"low_stock_threshold,omitempty"`                          // 低库存阈值，空则使用全局默认
	IsActive          bool           `gorm:"default:true;index" json:"is_active"`                    // 是否上架
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt         time.Time      `json:"updated_at"`                                             // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                         // 软删除时间

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// IsLowStock 按阈值判断是否低库存
func (p Product) IsLowStock(defaultThreshold int) bool {
	threshold := defaultThreshold
	if p.LowStockThreshold != nil {
		threshold = *p.LowStockThreshold
	}
	return p.Stock <= threshold
}
