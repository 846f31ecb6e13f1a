package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Rate 可空的佣金费率（0~1 的小数）
// Valid=false 表示未设置；Valid=true 且值为 0 表示零佣金，两者不可混用
type Rate struct {
	Decimal decimal.Decimal
	Valid   bool
}

// NewRate 创建已设置的费率
func NewRate(value decimal.Decimal) Rate {
	return Rate{Decimal: value, Valid: true}
}

// NullRate 未设置的费率
func NullRate() Rate {
	return Rate{}
}

// IsSet 是否显式设置（零值也算设置）
func (r Rate) IsSet() bool {
	return r.Valid
}

// Value 写库，未设置写 NULL
func (r Rate) Value() (driver.Value, error) {
	if !r.Valid {
		return nil, nil
	}
	return r.Decimal.String(), nil
}

// Scan 读库，NULL 读为未设置
func (r *Rate) Scan(value interface{}) error {
	if value == nil {
		r.Decimal, r.Valid = decimal.Zero, false
		return nil
	}
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("scan rate: %w", err)
	}
	r.Decimal, r.Valid = d, true
	return nil
}

// MarshalJSON 未设置输出 null，否则输出字符串
func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Decimal.String())
}

// UnmarshalJSON 接受 null、字符串或数字
func (r *Rate) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*r = NullRate()
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	*r = NewRate(d)
	return nil
}

func (r Rate) String() string {
	if !r.Valid {
		return "<unset>"
	}
	return r.Decimal.String()
}
