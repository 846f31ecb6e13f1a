package service

import (
	"encoding/json"
	"fmt"

	"github.com/vendora/internal/models"

	"github.com/shopspring/decimal"
)

// CommissionSource 佣金率来源，封闭枚举
type CommissionSource uint8

const (
	// CommissionSourceDefault 平台默认费率
	CommissionSourceDefault CommissionSource = iota + 1
	// CommissionSourceCategory 分类费率
	CommissionSourceCategory
	// CommissionSourceVendor 商户协议费率（最高优先级）
	CommissionSourceVendor
)

var commissionSourceNames = map[CommissionSource]string{
	CommissionSourceDefault:  "default",
	CommissionSourceCategory: "category",
	CommissionSourceVendor:   "vendor",
}

// Valid 是否为已定义的来源
func (s CommissionSource) Valid() bool {
	_, ok := commissionSourceNames[s]
	return ok
}

func (s CommissionSource) String() string {
	if name, ok := commissionSourceNames[s]; ok {
		return name
	}
	return fmt.Sprintf("CommissionSource(%d)", uint8(s))
}

// Precedence 数值越大优先级越高
func (s CommissionSource) Precedence() int {
	return int(s)
}

// MarshalJSON 输出 vendor / category / default
func (s CommissionSource) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid commission source %d", uint8(s))
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON 只接受三个已定义的名称
func (s *CommissionSource) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	parsed, err := ParseCommissionSource(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseCommissionSource 解析来源名称
func ParseCommissionSource(name string) (CommissionSource, error) {
	for source, candidate := range commissionSourceNames {
		if candidate == name {
			return source, nil
		}
	}
	return 0, fmt.Errorf("unknown commission source %q", name)
}

// RateResolution 解析结果
type RateResolution struct {
	Rate   decimal.Decimal  `json:"rate"`
	Source CommissionSource `json:"source"`
}

// CommissionResolver 三级佣金率解析：商户协议 > 分类 > 平台默认
// 无状态，可并发使用
type CommissionResolver struct {
	defaultRate decimal.Decimal
}

// NewCommissionResolver 创建解析器，平台默认费率必须在 [0,1]
func NewCommissionResolver(defaultRate decimal.Decimal) (*CommissionResolver, error) {
	if !IsValidRate(defaultRate) {
		return nil, fmt.Errorf("%w: default rate %s", ErrRateResolutionAmbiguous, defaultRate)
	}
	return &CommissionResolver{defaultRate: defaultRate}, nil
}

// DefaultRate 平台默认费率
func (r *CommissionResolver) DefaultRate() decimal.Decimal {
	return r.defaultRate
}

// ResolveRate 解析费率；vendor / category 可为 nil
// 使用显式的 IsSet 判断，0 是有效的协议费率
func (r *CommissionResolver) ResolveRate(vendor *models.Vendor, category *models.Category) RateResolution {
	if vendor != nil && vendor.CommissionRate.IsSet() && IsValidRate(vendor.CommissionRate.Decimal) {
		return RateResolution{Rate: vendor.CommissionRate.Decimal, Source: CommissionSourceVendor}
	}
	if category != nil && category.CommissionRate.IsSet() && IsValidRate(category.CommissionRate.Decimal) {
		return RateResolution{Rate: category.CommissionRate.Decimal, Source: CommissionSourceCategory}
	}
	return RateResolution{Rate: r.defaultRate, Source: CommissionSourceDefault}
}

// IsValidRate 费率需在 [0,1]
func IsValidRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(decimal.NewFromInt(1))
}

// RateFromPercent 将百分比字符串（如 "8.5"）转为小数费率
func RateFromPercent(percent string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(percent)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrRateInvalid, err)
	}
	rate := value.Div(decimal.NewFromInt(100))
	if !IsValidRate(rate) {
		return decimal.Zero, ErrRateInvalid
	}
	return rate, nil
}
