package service

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/vendora/internal/constants"
	"github.com/vendora/internal/models"

	"github.com/shopspring/decimal"
)

func pureOrder(id, vendorID, categoryID uint, status, total string) models.Order {
	amount := models.MustMoney(total)
	return models.Order{
		ID:       id,
		VendorID: vendorID,
		Status:   status,
		Total:    amount,
		Items: []models.OrderItem{{
			ID:         id * 10,
			CategoryID: categoryID,
			LineTotal:  amount,
		}},
	}
}

func fixedResolver(rates map[uint]RateResolution, fallback RateResolution) RateResolveFunc {
	return func(categoryID uint) RateResolution {
		if r, ok := rates[categoryID]; ok {
			return r
		}
		return fallback
	}
}

func TestComputeEarningsScenarioCategoryRate(t *testing.T) {
	resolver, _ := NewCommissionResolver(dec("0.08"))
	vendor := &models.Vendor{ID: 1}
	category := &models.Category{ID: 7, CommissionRate: rateOf("0.05")}
	resolve := func(categoryID uint) RateResolution {
		if categoryID == category.ID {
			return resolver.ResolveRate(vendor, category)
		}
		return resolver.ResolveRate(vendor, nil)
	}

	orders := []models.Order{pureOrder(1, 1, 7, constants.OrderStatusDelivered, "1000")}
	summary := ComputeEarnings(1, orders, resolve, resolver.ResolveRate(vendor, nil))

	assertDecimal(t, "gross", summary.GrossSales, "1000")
	assertDecimal(t, "commission", summary.Commission, "50")
	assertDecimal(t, "total", summary.Total, "950")
	assertDecimal(t, "completed", summary.Completed, "950")
	assertDecimal(t, "pending", summary.Pending, "0")
	if summary.CommissionSource != CommissionSourceCategory {
		t.Fatalf("expected category source, got %s", summary.CommissionSource)
	}
}

func TestComputeEarningsScenarioVendorOverride(t *testing.T) {
	resolver, _ := NewCommissionResolver(dec("0.08"))
	vendor := &models.Vendor{ID: 2, CommissionRate: rateOf("0.03")}
	category := &models.Category{ID: 9, CommissionRate: rateOf("0.10")}
	resolve := func(uint) RateResolution { return resolver.ResolveRate(vendor, category) }

	orders := []models.Order{
		pureOrder(1, 2, 9, constants.OrderStatusDelivered, "500"),
		pureOrder(2, 2, 9, constants.OrderStatusPending, "300"),
	}
	summary := ComputeEarnings(2, orders, resolve, resolver.ResolveRate(vendor, nil))

	assertDecimal(t, "gross", summary.GrossSales, "800")
	assertDecimal(t, "commission", summary.Commission, "24")
	assertDecimal(t, "total", summary.Total, "776")
	assertDecimal(t, "completed", summary.Completed, "485")
	assertDecimal(t, "pending", summary.Pending, "291")
	if summary.CommissionSource != CommissionSourceVendor || !summary.CommissionRate.Equal(dec("0.03")) {
		t.Fatalf("unexpected summary rate %s/%s", summary.CommissionRate, summary.CommissionSource)
	}
}

func TestComputeEarningsZeroVendorRate(t *testing.T) {
	resolver, _ := NewCommissionResolver(dec("0.08"))
	vendor := &models.Vendor{ID: 3, CommissionRate: rateOf("0")}
	resolve := func(uint) RateResolution { return resolver.ResolveRate(vendor, &models.Category{CommissionRate: rateOf("0.2")}) }

	orders := []models.Order{pureOrder(1, 3, 1, constants.OrderStatusDelivered, "250.75")}
	summary := ComputeEarnings(3, orders, resolve, resolver.ResolveRate(vendor, nil))

	assertDecimal(t, "commission", summary.Commission, "0")
	assertDecimal(t, "completed", summary.Completed, "250.75")
	if summary.CommissionSource != CommissionSourceVendor {
		t.Fatalf("zero override must keep vendor source, got %s", summary.CommissionSource)
	}
}

func TestComputeEarningsExcludesCancelledAndForeignOrders(t *testing.T) {
	fallback := RateResolution{Rate: dec("0.1"), Source: CommissionSourceDefault}
	resolve := fixedResolver(nil, fallback)

	orders := []models.Order{
		pureOrder(1, 4, 1, constants.OrderStatusCancelled, "999"),
		pureOrder(2, 5, 1, constants.OrderStatusDelivered, "100"),
		pureOrder(3, 4, 1, constants.OrderStatusShipped, "10"),
	}
	summary := ComputeEarnings(4, orders, resolve, fallback)

	assertDecimal(t, "gross", summary.GrossSales, "10")
	assertDecimal(t, "completed", summary.Completed, "0")
	assertDecimal(t, "pending", summary.Pending, "9")
	if summary.OrderCount != 1 || len(summary.Orders) != 1 || summary.Orders[0].OrderID != 3 {
		t.Fatalf("unexpected counted orders: %+v", summary.Orders)
	}
}

func TestComputeEarningsPartitionInvariant(t *testing.T) {
	statuses := []string{
		constants.OrderStatusPending,
		constants.OrderStatusConfirmed,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled,
	}
	rates := map[uint]RateResolution{
		1: {Rate: dec("0.075"), Source: CommissionSourceCategory},
		2: {Rate: dec("0.125"), Source: CommissionSourceCategory},
		3: {Rate: dec("0"), Source: CommissionSourceCategory},
	}
	fallback := RateResolution{Rate: dec("0.0833"), Source: CommissionSourceDefault}
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		orders := make([]models.Order, 0, 40)
		for i := 0; i < 40; i++ {
			cents := rng.Int63n(10_000_000)
			total := decimal.New(cents, -2).String()
			orders = append(orders, pureOrder(uint(i+1), 1, uint(rng.Intn(4)), statuses[rng.Intn(len(statuses))], total))
		}
		summary := ComputeEarnings(1, orders, fixedResolver(rates, fallback), fallback)

		if !summary.Pending.Add(summary.Completed).Equal(summary.Total) {
			t.Fatalf("round %d: pending+completed %s != total %s", round,
				summary.Pending.Add(summary.Completed), summary.Total)
		}
		if !summary.GrossSales.Sub(summary.Commission).Equal(summary.Total) {
			t.Fatalf("round %d: gross-commission != total", round)
		}
		rounded := summary.Rounded(false)
		diff := rounded.Pending.Decimal.Add(rounded.Completed.Decimal).Sub(rounded.Total.Decimal).Abs()
		if diff.GreaterThan(dec("0.01")) {
			t.Fatalf("round %d: rounded partition off by %s", round, diff)
		}
	}
}

func TestComputeEarningsDecimalAccumulation(t *testing.T) {
	fallback := RateResolution{Rate: dec("0.1"), Source: CommissionSourceDefault}
	orders := make([]models.Order, 0, 1000)
	for i := 0; i < 1000; i++ {
		orders = append(orders, pureOrder(uint(i+1), 1, 0, constants.OrderStatusDelivered, "0.10"))
	}
	summary := ComputeEarnings(1, orders, fixedResolver(nil, fallback), fallback)
	assertDecimal(t, "gross", summary.GrossSales, "100")
	assertDecimal(t, "commission", summary.Commission, "10")
	assertDecimal(t, "completed", summary.Completed, "90")
}

func TestDominantCategoryID(t *testing.T) {
	primary := uint(99)
	order := models.Order{
		PrimaryCategoryID: &primary,
		Items: []models.OrderItem{
			{ID: 3, CategoryID: 30, LineTotal: models.MustMoney("40")},
			{ID: 2, CategoryID: 20, LineTotal: models.MustMoney("60")},
			{ID: 1, CategoryID: 10, LineTotal: models.MustMoney("60")},
		},
	}
	if got := DominantCategoryID(order); got != 10 {
		t.Fatalf("tie must go to lowest line id, got %d", got)
	}
	order.Items = nil
	if got := DominantCategoryID(order); got != 99 {
		t.Fatalf("no lines must use primary category, got %d", got)
	}
	order.PrimaryCategoryID = nil
	if got := DominantCategoryID(order); got != 0 {
		t.Fatalf("expected no category, got %d", got)
	}
}

func TestComputeEarningsMixedTiersReportsLargestShare(t *testing.T) {
	rates := map[uint]RateResolution{
		1: {Rate: dec("0.05"), Source: CommissionSourceCategory},
	}
	fallback := RateResolution{Rate: dec("0.08"), Source: CommissionSourceDefault}
	orders := []models.Order{
		pureOrder(1, 1, 1, constants.OrderStatusDelivered, "100"),
		pureOrder(2, 1, 2, constants.OrderStatusDelivered, "300"),
	}
	summary := ComputeEarnings(1, orders, fixedResolver(rates, fallback), fallback)
	if summary.CommissionSource != CommissionSourceDefault || !summary.CommissionRate.Equal(dec("0.08")) {
		t.Fatalf("expected default tier to dominate, got %s/%s", summary.CommissionRate, summary.CommissionSource)
	}
	assertDecimal(t, "commission", summary.Commission, "29")

	// 毛销售额持平时取优先级更高的来源
	orders[1] = pureOrder(2, 1, 2, constants.OrderStatusDelivered, "100")
	summary = ComputeEarnings(1, orders, fixedResolver(rates, fallback), fallback)
	if summary.CommissionSource != CommissionSourceCategory {
		t.Fatalf("tie must go to higher precedence, got %s", summary.CommissionSource)
	}
	for _, order := range summary.Orders {
		if order.Source == 0 {
			t.Fatalf("order %d missing source", order.OrderID)
		}
	}
}

func TestComputeEarningsEmptyReportsFallback(t *testing.T) {
	fallback := RateResolution{Rate: dec("0.03"), Source: CommissionSourceVendor}
	summary := ComputeEarnings(1, nil, fixedResolver(nil, fallback), fallback)
	if summary.CommissionSource != CommissionSourceVendor || summary.OrderCount != 0 {
		t.Fatalf("unexpected empty summary: %+v", summary)
	}
	view := summary.Rounded(true)
	if view.Total.String() != "0.00" || fmt.Sprint(view.Orders) != "[]" {
		t.Fatalf("unexpected rounded view: %+v", view)
	}
}

func TestComputeEarningsUsesLockedRateForDelivered(t *testing.T) {
	live := RateResolution{Rate: decimal.RequireFromString("0.5"), Source: CommissionSourceVendor}
	resolve := fixedResolver(nil, live)

	delivered := pureOrder(1, 7, 3, constants.OrderStatusDelivered, "1000")
	delivered.CommissionRate = models.NewRate(decimal.RequireFromString("0.08"))
	delivered.CommissionSource = CommissionSourceDefault.String()

	// 未签收订单即使带有费率字段也按当前费率计算
	shipped := pureOrder(2, 7, 3, constants.OrderStatusShipped, "100")
	shipped.CommissionRate = models.NewRate(decimal.RequireFromString("0.08"))
	shipped.CommissionSource = CommissionSourceDefault.String()

	// 来源不合法的快照视为未锁定
	broken := pureOrder(3, 7, 3, constants.OrderStatusDelivered, "10")
	broken.CommissionRate = models.NewRate(decimal.RequireFromString("0.08"))
	broken.CommissionSource = "legacy"

	summary := ComputeEarnings(7, []models.Order{delivered, shipped, broken}, resolve, live)
	assertDecimal(t, "completed", summary.Completed, "925")
	assertDecimal(t, "pending", summary.Pending, "50")
	if summary.Orders[0].Source != CommissionSourceDefault || summary.Orders[2].Source != CommissionSourceVendor {
		t.Fatalf("unexpected per-order sources: %+v", summary.Orders)
	}
}
