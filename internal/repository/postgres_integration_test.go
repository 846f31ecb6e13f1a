//go:build integration
// +build integration

package repository

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/vendora/internal/constants"
	"github.com/vendora/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	_ = db.Migrator().DropTable(models.AllModels()...)
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(models.AllModels()...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresVendorKeywordIsCaseInsensitive(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewVendorRepository(db)

	for _, name := range []string{"Accra Textiles", "Kumasi Crafts"} {
		vendor := &models.Vendor{Name: name, Email: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com", PasswordHash: "x", Status: constants.VendorStatusActive}
		if err := repo.Create(vendor); err != nil {
			t.Fatalf("create vendor failed: %v", err)
		}
	}

	items, total, err := repo.List(VendorListFilter{Page: 1, PageSize: 10, Keyword: "accra"})
	if err != nil {
		t.Fatalf("list vendors failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Name != "Accra Textiles" {
		t.Fatalf("keyword search should use ILIKE on postgres, got total=%d items=%+v", total, items)
	}
}

func TestPostgresPayoutAggregates(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewPayoutRepository(db)

	amounts := map[string]string{
		constants.PayoutStatusPending:    "10.10",
		constants.PayoutStatusProcessing: "0.20",
		constants.PayoutStatusCompleted:  "33.33",
		constants.PayoutStatusFailed:     "99.99",
	}
	i := 0
	for status, amount := range amounts {
		payout := &models.Payout{
			Reference:           fmt.Sprintf("PO-PG-%d", i),
			VendorID:            1,
			Amount:              models.MustMoney(amount),
			NetAmount:           models.MustMoney(amount),
			Status:              status,
			Method:              constants.PayoutMethodMobileMoney,
			BankAccountName:     "Kofi",
			MobileMoneyProvider: "MTN",
			AccountNumber:       "0240000000",
		}
		if err := repo.Create(payout); err != nil {
			t.Fatalf("create payout failed: %v", err)
		}
		i++
	}

	reserved, err := repo.SumAmountByStatuses(1, []string{constants.PayoutStatusPending, constants.PayoutStatusProcessing})
	if err != nil {
		t.Fatalf("sum reserved failed: %v", err)
	}
	if !reserved.Equal(decimal.RequireFromString("10.30")) {
		t.Fatalf("reserved want 10.30 got %s", reserved)
	}

	for _, amount := range []string{"5.00", "-2.25"} {
		if err := repo.CreateAdjustment(&models.BalanceAdjustment{VendorID: 1, Amount: models.MustMoney(amount), Reason: "pg", AdminID: 1}); err != nil {
			t.Fatalf("create adjustment failed: %v", err)
		}
	}
	adjustments, err := repo.SumAdjustments(1)
	if err != nil {
		t.Fatalf("sum adjustments failed: %v", err)
	}
	if !adjustments.Equal(decimal.RequireFromString("2.75")) {
		t.Fatalf("adjustments want 2.75 got %s", adjustments)
	}
}

func TestPostgresOrderWindowAndLowStock(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	orderRepo := NewOrderRepository(db)
	productRepo := NewProductRepository(db)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for idx, createdAt := range []time.Time{base.Add(-time.Second), base, base.Add(24 * time.Hour)} {
		order := &models.Order{
			OrderNo:   fmt.Sprintf("VO-PG-%d", idx),
			VendorID:  1,
			BuyerID:   1,
			Status:    constants.OrderStatusDelivered,
			Total:     models.MustMoney("10.00"),
			CreatedAt: createdAt,
		}
		if err := orderRepo.Create(order); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}
	to := base.Add(24 * time.Hour)
	orders, err := orderRepo.ListAll(OrderListFilter{VendorID: 1, From: &base, To: &to})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderNo != "VO-PG-1" {
		t.Fatalf("window must be [from, to), got %+v", orders)
	}

	threshold := 1
	for _, product := range []*models.Product{
		{VendorID: 1, CategoryID: 1, SKU: "A", Name: "A", Price: models.MustMoney("1.00"), Stock: 4, IsActive: true},
		{VendorID: 1, CategoryID: 1, SKU: "B", Name: "B", Price: models.MustMoney("1.00"), Stock: 2, LowStockThreshold: &threshold, IsActive: true},
		{VendorID: 1, CategoryID: 1, SKU: "C", Name: "C", Price: models.MustMoney("1.00"), Stock: 9, IsActive: true},
	} {
		if err := productRepo.Create(product); err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}
	low, err := productRepo.ListLowStock(ProductLowStockFilter{VendorID: 1, DefaultThreshold: 5})
	if err != nil {
		t.Fatalf("list low stock failed: %v", err)
	}
	if len(low) != 1 || low[0].SKU != "A" {
		t.Fatalf("per-product threshold must override default, got %+v", low)
	}
}
