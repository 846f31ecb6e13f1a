package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/vendora/internal/constants"

	"gorm.io/gorm"
)

// ErrUnknownOrderStatus 订单状态不在已定义集合内
var ErrUnknownOrderStatus = errors.New("unknown order status")

// Order 商户订单（一个订单只属于一个商户）
type Order struct {
	ID                uint       `gorm:"primarykey" json:"id"`                                    // 主键
	OrderNo           string     `gorm:"uniqueIndex;type:varchar(64);not null" json:"order_no"`   // 订单编号
	VendorID          uint       `gorm:"index;not null" json:"vendor_id"`                         // 商户ID
	BuyerID           uint       `gorm:"index;not null" json:"buyer_id"`                          // 买家ID
	Status            string     `gorm:"type:varchar(20);index;not null" json:"status"`           // 订单状态
	Total             Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total"`      // 订单金额
	PrimaryCategoryID *uint      `gorm:"index" json:"primary_category_id,omitempty"`              // 主商品分类（无订单项时用于佣金解析）
	CommissionRate    Rate       `gorm:"type:decimal(7,4)" json:"commission_rate"`                // 签收时锁定的佣金率，NULL 表示未锁定
	CommissionSource  string     `gorm:"type:varchar(20)" json:"commission_source,omitempty"`     // 签收时锁定的费率来源
	DeliveredAt       *time.Time `gorm:"index" json:"delivered_at,omitempty"`                     // 签收时间
	CancelledAt       *time.Time `gorm:"index" json:"cancelled_at,omitempty"`                     // 取消时间
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt         time.Time  `json:"updated_at"`                                              // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// BeforeSave 拒绝未定义的订单状态
func (o *Order) BeforeSave(_ *gorm.DB) error {
	if !constants.IsOrderStatus(o.Status) {
		return fmt.Errorf("%w: %q", ErrUnknownOrderStatus, o.Status)
	}
	return nil
}

// OrderItem 订单项
type OrderItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID    uint      `gorm:"index;not null" json:"order_id"`                          // 订单ID
	ProductID  uint      `gorm:"index;not null" json:"product_id"`                        // 商品ID
	CategoryID uint      `gorm:"index;not null" json:"category_id"`                       // 下单时的商品分类快照
	Quantity   int       `gorm:"not null" json:"quantity"`                                // 数量
	UnitPrice  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 单价
	LineTotal  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"line_total"` // 小计
	CreatedAt  time.Time `json:"created_at"`                                              // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
