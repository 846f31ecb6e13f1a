package models

import "time"

// Setting 系统设置（键值对，值为 JSON）
type Setting struct {
	Key       string    `gorm:"primarykey;type:varchar(100)" json:"key"`
	ValueJSON JSON      `gorm:"type:json" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Setting) TableName() string {
	return "settings"
}
