package main

import (
	"github.com/vendora/internal/config"
	"github.com/vendora/internal/constants"
	"github.com/vendora/internal/logger"
	"github.com/vendora/internal/models"
	"github.com/vendora/internal/repository"
	"github.com/vendora/internal/service"

	"github.com/shopspring/decimal"
)

const demoVendorPassword = "vendor-demo-pass"

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类，电子产品单独设置 8% 佣金
	categories := []models.Category{
		{Name: "Electronics", Slug: "electronics", CommissionRate: models.NewRate(decimal.RequireFromString("0.08"))},
		{Name: "Lifestyle", Slug: "lifestyle"},
		{Name: "Accessories", Slug: "accessories"},
	}
	categoryIDs := map[string]uint{}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err == nil {
			stdLog.Printf("Category already exists: %s", cat.Slug)
			categoryIDs[cat.Slug] = existing.ID
			continue
		}
		if err := models.DB.Create(&cat).Error; err != nil {
			stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			continue
		}
		stdLog.Printf("Created category: %s", cat.Slug)
		categoryIDs[cat.Slug] = cat.ID
	}

	// 添加商户，第二个商户签了 5% 协议费率
	hash, err := service.HashPassword(demoVendorPassword)
	if err != nil {
		stdLog.Fatalf("Failed to hash password: %v", err)
	}
	vendors := []models.Vendor{
		{Name: "Gadget Corner", Email: "gadgets@example.com", PasswordHash: hash, Status: constants.VendorStatusActive},
		{Name: "Home & Co", Email: "home@example.com", PasswordHash: hash, Status: constants.VendorStatusActive, CommissionRate: models.NewRate(decimal.RequireFromString("0.05"))},
	}
	vendorIDs := make([]uint, 0, len(vendors))
	for _, vendor := range vendors {
		var existing models.Vendor
		if err := models.DB.Where("email = ?", vendor.Email).First(&existing).Error; err == nil {
			stdLog.Printf("Vendor already exists: %s", vendor.Email)
			vendorIDs = append(vendorIDs, existing.ID)
			continue
		}
		if err := models.DB.Create(&vendor).Error; err != nil {
			stdLog.Printf("Failed to create vendor %s: %v", vendor.Email, err)
			continue
		}
		stdLog.Printf("Created vendor: %s", vendor.Email)
		vendorIDs = append(vendorIDs, vendor.ID)
	}
	if len(vendorIDs) < 2 {
		stdLog.Fatalf("Demo vendors missing, abort")
	}

	// 添加商品，部分库存低于默认阈值
	threshold := 3
	products := []models.Product{
		{VendorID: vendorIDs[0], CategoryID: categoryIDs["electronics"], SKU: "GC-EAR-01", Name: "Wireless Earphones", Price: models.MustMoney("99.99"), Stock: 40, IsActive: true},
		{VendorID: vendorIDs[0], CategoryID: categoryIDs["accessories"], SKU: "GC-PB-01", Name: "Power Bank", Price: models.MustMoney("49.99"), Stock: 2, IsActive: true},
		{VendorID: vendorIDs[1], CategoryID: categoryIDs["lifestyle"], SKU: "HC-BAG-01", Name: "Travel Backpack", Price: models.MustMoney("79.99"), Stock: 12, IsActive: true},
		{VendorID: vendorIDs[1], CategoryID: categoryIDs["lifestyle"], SKU: "HC-MUG-01", Name: "Ceramic Mug", Price: models.MustMoney("12.50"), Stock: 3, LowStockThreshold: &threshold, IsActive: true},
	}
	productRepo := repository.NewProductRepository(models.DB)
	for i := range products {
		product := &products[i]
		var existing models.Product
		if err := models.DB.Where("vendor_id = ? AND sku = ?", product.VendorID, product.SKU).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", product.SKU)
			*product = existing
			continue
		}
		if err := productRepo.Create(product); err != nil {
			stdLog.Printf("Failed to create product %s: %v", product.SKU, err)
			continue
		}
		stdLog.Printf("Created product: %s", product.SKU)
	}

	// 每个商户一笔已签收订单，保证有可提现余额
	var orderCount int64
	if err := models.DB.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		stdLog.Fatalf("Failed to count orders: %v", err)
	}
	if orderCount > 0 {
		stdLog.Printf("Orders already seeded, skip")
		stdLog.Printf("Seed finished, vendor password: %s", demoVendorPassword)
		return
	}
	defaultRate, err := decimal.NewFromString(cfg.Commission.DefaultRate)
	if err != nil {
		stdLog.Fatalf("Invalid commission default rate %q: %v", cfg.Commission.DefaultRate, err)
	}
	commissionService := service.NewCommissionService(
		repository.NewVendorRepository(models.DB),
		repository.NewCategoryRepository(models.DB),
		service.NewSettingService(repository.NewSettingRepository(models.DB)),
		defaultRate,
	)
	orderService := service.NewOrderService(repository.NewOrderRepository(models.DB), productRepo, commissionService)
	seedOrders := []service.CreateOrderInput{
		{VendorID: vendorIDs[0], BuyerID: 1001, Items: []service.CreateOrderItem{{ProductID: products[0].ID, Quantity: 2}, {ProductID: products[1].ID, Quantity: 1}}},
		{VendorID: vendorIDs[1], BuyerID: 1002, Items: []service.CreateOrderItem{{ProductID: products[2].ID, Quantity: 1}}},
	}
	deliverPath := []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
	}
	for _, input := range seedOrders {
		order, err := orderService.CreateOrder(input)
		if err != nil {
			stdLog.Printf("Failed to create order for vendor %d: %v", input.VendorID, err)
			continue
		}
		for _, status := range deliverPath {
			if _, err := orderService.UpdateStatus(order.ID, status); err != nil {
				stdLog.Printf("Failed to move order %s to %s: %v", order.OrderNo, status, err)
				break
			}
		}
		stdLog.Printf("Created order: %s", order.OrderNo)
	}

	stdLog.Printf("Seed finished, vendor password: %s", demoVendorPassword)
}
