package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/vendora/internal/constants"
	"github.com/vendora/internal/models"
	"github.com/vendora/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// testEnv 服务层测试环境，每个测试独立的内存库
type testEnv struct {
	db           *gorm.DB
	vendorRepo   *repository.GormVendorRepository
	categoryRepo *repository.GormCategoryRepository
	productRepo  *repository.GormProductRepository
	orderRepo    *repository.GormOrderRepository
	payoutRepo   *repository.GormPayoutRepository
	settingRepo  *repository.GormSettingRepository
	settings     *SettingService
	commission   *CommissionService
	earnings     *EarningsService
	payouts      *PayoutService
	orders       *OrderService
}

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	// 与 sqlite 生产配置一致，单连接
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()
	db := openTestDB(t, "service_test")
	models.DB = db

	env := &testEnv{
		db:           db,
		vendorRepo:   repository.NewVendorRepository(db),
		categoryRepo: repository.NewCategoryRepository(db),
		productRepo:  repository.NewProductRepository(db),
		orderRepo:    repository.NewOrderRepository(db),
		payoutRepo:   repository.NewPayoutRepository(db),
		settingRepo:  repository.NewSettingRepository(db),
	}
	env.settings = NewSettingService(env.settingRepo)
	env.commission = NewCommissionService(env.vendorRepo, env.categoryRepo, env.settings, decimal.RequireFromString("0.08"))
	env.earnings = NewEarningsService(env.vendorRepo, env.categoryRepo, env.orderRepo, env.commission)
	env.payouts = NewPayoutService(env.payoutRepo, env.vendorRepo, env.earnings, NewLocalVendorLocker(), nil, PayoutFeePolicy{})
	env.orders = NewOrderService(env.orderRepo, env.productRepo, env.commission)
	return env
}

func rateOf(value string) models.Rate {
	if value == "" {
		return models.NullRate()
	}
	return models.NewRate(decimal.RequireFromString(value))
}

func (e *testEnv) createVendor(t *testing.T, name, rate string) *models.Vendor {
	t.Helper()
	vendor := &models.Vendor{
		Name:           name,
		Slug:           fmt.Sprintf("vendor-%d", time.Now().UnixNano()),
		Email:          fmt.Sprintf("%s_%d@example.com", name, time.Now().UnixNano()),
		PasswordHash:   "hash",
		Status:         constants.VendorStatusActive,
		CommissionRate: rateOf(rate),
	}
	if err := e.db.Create(vendor).Error; err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	return vendor
}

func (e *testEnv) createCategory(t *testing.T, name, rate string) *models.Category {
	t.Helper()
	category := &models.Category{
		Name:           name,
		Slug:           fmt.Sprintf("category-%d", time.Now().UnixNano()),
		CommissionRate: rateOf(rate),
	}
	if err := e.db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	return category
}

// createOrder 创建单订单项订单，categoryID 为 0 时不带订单项
func (e *testEnv) createOrder(t *testing.T, vendorID, categoryID uint, status, total string) *models.Order {
	t.Helper()
	amount := models.MustMoney(total)
	order := &models.Order{
		OrderNo:  fmt.Sprintf("T%d", time.Now().UnixNano()),
		VendorID: vendorID,
		BuyerID:  1,
		Status:   status,
		Total:    amount,
	}
	if categoryID != 0 {
		order.Items = []models.OrderItem{{
			ProductID:  1,
			CategoryID: categoryID,
			Quantity:   1,
			UnitPrice:  amount,
			LineTotal:  amount,
		}}
	}
	if err := e.db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func bankDestination() PayoutDestination {
	return PayoutDestination{
		BankAccountName: "Ama Mensah",
		BankName:        "GCB Bank",
		AccountNumber:   "0123456789",
	}
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s: want %s, got %s", name, want, got.String())
	}
}
