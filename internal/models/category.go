package models

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Category 商品分类表
type Category struct {
	ID             uint           `gorm:"primarykey" json:"id"`                               // 主键
	ParentID       uint           `gorm:"not null;default:0;index" json:"parent_id"`          // 父分类
	Slug           string         `gorm:"uniqueIndex;type:varchar(160);not null" json:"slug"` // 唯一标识
	Name           string         `gorm:"type:varchar(120);not null" json:"name"`             // 名称
	CommissionRate Rate           `gorm:"type:decimal(7,4)" json:"commission_rate"`           // 分类佣金率，NULL 回落到平台默认
	SortOrder      int            `gorm:"default:0;index" json:"sort_order"`                  // 排序
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}

// BeforeCreate 未指定 slug 时按名称生成
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(c.Slug) == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}
