package models

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Vendor 商户表
type Vendor struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                     // 主键
	Name           string         `gorm:"type:varchar(120);not null" json:"name"`                   // 店铺名称
	Slug           string         `gorm:"uniqueIndex;type:varchar(160);not null" json:"slug"`       // 店铺标识
	Email          string         `gorm:"uniqueIndex;type:varchar(255);not null" json:"email"`      // 登录邮箱（同时接收通知）
	Phone          string         `gorm:"type:varchar(40)" json:"phone,omitempty"`                  // 联系电话
	PasswordHash   string         `gorm:"not null" json:"-"`                                        // 密码哈希
	Status         string         `gorm:"type:varchar(20);not null;default:'active'" json:"status"` // 状态
	CommissionRate Rate           `gorm:"type:decimal(7,4)" json:"commission_rate"`                 // 协议佣金率，NULL 表示沿用分类/平台
	TokenVersion   uint64         `gorm:"not null;default:0" json:"-"`                              // Token 版本
	LastLoginAt    *time.Time     `json:"last_login_at,omitempty"`                                  // 最后登录时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                               // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (Vendor) TableName() string {
	return "vendors"
}

// BeforeCreate 未指定 slug 时按店铺名生成
func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(v.Slug) == "" {
		v.Slug = slug.Make(v.Name)
	}
	v.Email = strings.ToLower(strings.TrimSpace(v.Email))
	return nil
}
