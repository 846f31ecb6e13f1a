package service

import (
	"github.com/vendora/internal/constants"
	"github.com/vendora/internal/models"

	"github.com/shopspring/decimal"
)

// EarningsBucket 订单收益归属
type EarningsBucket string

const (
	// BucketPending 未完成订单，暂不可提现
	BucketPending EarningsBucket = "pending"
	// BucketCompleted 已签收订单，可提现
	BucketCompleted EarningsBucket = "completed"
	// BucketExcluded 已取消订单，不计入任何金额
	BucketExcluded EarningsBucket = "excluded"
)

// ClassifyOrderStatus 按订单状态划分收益归属
func ClassifyOrderStatus(status string) EarningsBucket {
	switch status {
	case constants.OrderStatusDelivered:
		return BucketCompleted
	case constants.OrderStatusCancelled:
		return BucketExcluded
	case constants.OrderStatusPending,
		constants.OrderStatusConfirmed,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped:
		return BucketPending
	default:
		// 未知状态不可提现，也不能凭空消失
		return BucketPending
	}
}

// LockedRate 已签收订单在签收时锁定的费率；未锁定或数据不合法时 ok=false
func LockedRate(order models.Order) (RateResolution, bool) {
	if order.Status != constants.OrderStatusDelivered || !order.CommissionRate.IsSet() {
		return RateResolution{}, false
	}
	if !IsValidRate(order.CommissionRate.Decimal) {
		return RateResolution{}, false
	}
	source, err := ParseCommissionSource(order.CommissionSource)
	if err != nil {
		return RateResolution{}, false
	}
	return RateResolution{Rate: order.CommissionRate.Decimal, Source: source}, true
}

// RateResolveFunc 按订单主分类解析费率，categoryID 为 0 表示无分类
type RateResolveFunc func(categoryID uint) RateResolution

// OrderEarnings 单笔订单收益明细（未舍入）
type OrderEarnings struct {
	OrderID    uint             `json:"order_id"`
	OrderNo    string           `json:"order_no"`
	Status     string           `json:"status"`
	Bucket     EarningsBucket   `json:"bucket"`
	CategoryID uint             `json:"category_id"`
	Rate       decimal.Decimal  `json:"rate"`
	Source     CommissionSource `json:"source"`
	Gross      decimal.Decimal  `json:"gross"`
	Commission decimal.Decimal  `json:"commission"`
	Net        decimal.Decimal  `json:"net"`
}

// EarningsSummary 商户收益汇总，所有金额均为未舍入的精确值
type EarningsSummary struct {
	VendorID         uint
	GrossSales       decimal.Decimal
	CommissionRate   decimal.Decimal
	CommissionSource CommissionSource
	Commission       decimal.Decimal
	Total            decimal.Decimal
	Pending          decimal.Decimal
	Completed        decimal.Decimal
	OrderCount       int
	Orders           []OrderEarnings
}

// EarningsView 展示层视图，金额在此处统一舍入到 2 位
type EarningsView struct {
	VendorID         uint             `json:"vendor_id"`
	GrossSales       models.Money     `json:"gross_sales"`
	CommissionRate   string           `json:"commission_rate"`
	CommissionSource CommissionSource `json:"commission_source"`
	Commission       models.Money     `json:"commission"`
	Total            models.Money     `json:"total"`
	Pending          models.Money     `json:"pending"`
	Completed        models.Money     `json:"completed"`
	OrderCount       int              `json:"order_count"`
	Orders           []OrderEarnings  `json:"orders,omitempty"`
}

// Rounded 转换为展示视图，金额保留两位
func (s EarningsSummary) Rounded(withOrders bool) EarningsView {
	view := EarningsView{
		VendorID:         s.VendorID,
		GrossSales:       models.NewMoneyFromDecimal(s.GrossSales),
		CommissionRate:   s.CommissionRate.String(),
		CommissionSource: s.CommissionSource,
		Commission:       models.NewMoneyFromDecimal(s.Commission),
		Total:            models.NewMoneyFromDecimal(s.Total),
		Pending:          models.NewMoneyFromDecimal(s.Pending),
		Completed:        models.NewMoneyFromDecimal(s.Completed),
		OrderCount:       s.OrderCount,
	}
	if withOrders {
		view.Orders = s.Orders
	}
	return view
}

// DominantCategoryID 订单的主分类：小计最大的订单项所在分类，
// 小计相同取 ID 较小的订单项；无订单项时使用订单上的主分类
func DominantCategoryID(order models.Order) uint {
	var (
		best      *models.OrderItem
		bestTotal decimal.Decimal
	)
	for i := range order.Items {
		item := &order.Items[i]
		total := item.LineTotal.Decimal
		if best == nil || total.GreaterThan(bestTotal) || (total.Equal(bestTotal) && item.ID < best.ID) {
			best, bestTotal = item, total
		}
	}
	if best != nil {
		return best.CategoryID
	}
	if order.PrimaryCategoryID != nil {
		return *order.PrimaryCategoryID
	}
	return 0
}

// ComputeEarnings 汇总商户收益
// 纯函数：只依赖入参，不做 I/O；已签收订单使用签收时锁定的费率，
// 其余订单按主分类解析一次当前费率，全程 decimal 运算，不在中途舍入
func ComputeEarnings(vendorID uint, orders []models.Order, resolve RateResolveFunc, fallback RateResolution) EarningsSummary {
	summary := EarningsSummary{
		VendorID:         vendorID,
		GrossSales:       decimal.Zero,
		Commission:       decimal.Zero,
		Total:            decimal.Zero,
		Pending:          decimal.Zero,
		Completed:        decimal.Zero,
		CommissionRate:   fallback.Rate,
		CommissionSource: fallback.Source,
		Orders:           make([]OrderEarnings, 0, len(orders)),
	}

	type tierKey struct {
		source CommissionSource
		rate   string
	}
	grossByTier := make(map[tierKey]decimal.Decimal)
	tierOrder := make([]tierKey, 0, 3)

	for _, order := range orders {
		if order.VendorID != vendorID {
			continue
		}
		bucket := ClassifyOrderStatus(order.Status)
		if bucket == BucketExcluded {
			continue
		}

		categoryID := DominantCategoryID(order)
		resolution, ok := LockedRate(order)
		if !ok {
			resolution = resolve(categoryID)
		}
		gross := order.Total.Decimal
		commission := gross.Mul(resolution.Rate)
		net := gross.Sub(commission)

		summary.GrossSales = summary.GrossSales.Add(gross)
		summary.Commission = summary.Commission.Add(commission)
		if bucket == BucketCompleted {
			summary.Completed = summary.Completed.Add(net)
		} else {
			summary.Pending = summary.Pending.Add(net)
		}
		summary.OrderCount++
		summary.Orders = append(summary.Orders, OrderEarnings{
			OrderID:    order.ID,
			OrderNo:    order.OrderNo,
			Status:     order.Status,
			Bucket:     bucket,
			CategoryID: categoryID,
			Rate:       resolution.Rate,
			Source:     resolution.Source,
			Gross:      gross,
			Commission: commission,
			Net:        net,
		})

		key := tierKey{source: resolution.Source, rate: resolution.Rate.String()}
		if _, seen := grossByTier[key]; !seen {
			tierOrder = append(tierOrder, key)
			grossByTier[key] = decimal.Zero
		}
		grossByTier[key] = grossByTier[key].Add(gross)
	}

	summary.Total = summary.GrossSales.Sub(summary.Commission)

	// 汇总展示的费率：毛销售额占比最大的档位，持平时取优先级高的来源
	var (
		bestKey   tierKey
		bestGross decimal.Decimal
		found     bool
	)
	for _, key := range tierOrder {
		gross := grossByTier[key]
		if !found ||
			gross.GreaterThan(bestGross) ||
			(gross.Equal(bestGross) && key.source.Precedence() > bestKey.source.Precedence()) {
			bestKey, bestGross, found = key, gross, true
		}
	}
	if found {
		summary.CommissionSource = bestKey.source
		summary.CommissionRate = decimal.RequireFromString(bestKey.rate)
	}
	return summary
}
