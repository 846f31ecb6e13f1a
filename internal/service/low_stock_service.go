package service

import (
	"context"
	"time"

	"github.com/vendora/internal/constants"
	"github.com/vendora/internal/logger"
	"github.com/vendora/internal/metrics"
	"github.com/vendora/internal/models"
	"github.com/vendora/internal/repository"
)

// AlertNotifier 低库存提醒的发送通道
type AlertNotifier interface {
	NotifyLowStock(ctx context.Context, vendor *models.Vendor, product models.Product, threshold int) error
}

// EmailAlertNotifier 通过邮件提醒商户
type EmailAlertNotifier struct {
	email  *EmailService
	locale string
}

// NewEmailAlertNotifier 创建邮件通道
func NewEmailAlertNotifier(email *EmailService, locale string) *EmailAlertNotifier {
	return &EmailAlertNotifier{email: email, locale: locale}
}

// NotifyLowStock 发送邮件
func (n *EmailAlertNotifier) NotifyLowStock(ctx context.Context, vendor *models.Vendor, product models.Product, threshold int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.email.SendLowStockAlert(vendor.Email, LowStockEmailInput{
		VendorName:  vendor.Name,
		ProductName: product.Name,
		SKU:         product.SKU,
		Stock:       product.Stock,
		Threshold:   threshold,
	}, n.locale)
}

// LowStockScanInput 扫描参数；VendorID 为 0 表示全部商户
// SkipCooldown 只允许管理端传入
type LowStockScanInput struct {
	VendorID     uint
	SkipCooldown bool
	Now          time.Time
}

// ScanResult 扫描统计
type ScanResult struct {
	Checked    int `json:"checked"`
	Alerted    int `json:"alerted"`
	Suppressed int `json:"suppressed"`
	Failed     int `json:"failed"`
}

// LowStockService 低库存扫描与告警
type LowStockService struct {
	productRepo      repository.ProductRepository
	vendorRepo       repository.VendorRepository
	cooldown         *LowStockCooldown
	notifier         AlertNotifier
	settings         *SettingService
	defaultThreshold int
}

// NewLowStockService 创建低库存服务
func NewLowStockService(
	productRepo repository.ProductRepository,
	vendorRepo repository.VendorRepository,
	cooldown *LowStockCooldown,
	notifier AlertNotifier,
	settings *SettingService,
	defaultThreshold int,
) *LowStockService {
	return &LowStockService{
		productRepo:      productRepo,
		vendorRepo:       vendorRepo,
		cooldown:         cooldown,
		notifier:         notifier,
		settings:         settings,
		defaultThreshold: defaultThreshold,
	}
}

// resolveSetting 读取本次扫描生效的阈值与冷却窗口，读取失败时回退到启动配置
func (s *LowStockService) resolveSetting() (int, time.Duration) {
	defaults := LowStockSetting{
		DefaultThreshold: s.defaultThreshold,
		CooldownHours:    int(s.cooldown.Window() / time.Hour),
	}
	setting, err := s.settings.GetLowStockSetting(defaults)
	if err != nil {
		logger.Warnw("low_stock_setting_load_failed", "error", err)
		return s.defaultThreshold, s.cooldown.Window()
	}
	if setting.CooldownHours <= 0 {
		return setting.DefaultThreshold, s.cooldown.Window()
	}
	return setting.DefaultThreshold, time.Duration(setting.CooldownHours) * time.Hour
}

// Scan 扫描低库存商品并发送告警
// 单个商品发送失败不影响其他商品，且不会推进该商品的冷却时间
func (s *LowStockService) Scan(ctx context.Context, input LowStockScanInput) (ScanResult, error) {
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}
	threshold, window := s.resolveSetting()

	products, err := s.productRepo.ListLowStock(repository.ProductLowStockFilter{
		VendorID:         input.VendorID,
		DefaultThreshold: threshold,
	})
	if err != nil {
		return ScanResult{}, err
	}

	var result ScanResult
	vendors := make(map[uint]*models.Vendor)
	for _, product := range products {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		vendor, ok := vendors[product.VendorID]
		if !ok {
			vendor, err = s.vendorRepo.GetByID(product.VendorID)
			if err != nil {
				return result, err
			}
			vendors[product.VendorID] = vendor
		}
		if vendor == nil || vendor.Status != constants.VendorStatusActive {
			continue
		}
		result.Checked++

		productThreshold := threshold
		if product.LowStockThreshold != nil {
			productThreshold = *product.LowStockThreshold
		}

		decision, err := s.cooldown.DecideWithin(ctx, vendor.ID, product.ID, now, input.SkipCooldown, window)
		if err != nil {
			result.Failed++
			metrics.ObserveLowStockAlert("failed")
			logger.Errorw("low_stock_cooldown_check_failed",
				"vendor_id", vendor.ID,
				"product_id", product.ID,
				"error", err,
			)
			continue
		}
		if !decision.Fire {
			result.Suppressed++
			metrics.ObserveLowStockAlert("suppressed")
			logger.Debugw("low_stock_alert_suppressed",
				"vendor_id", vendor.ID,
				"product_id", product.ID,
				"reason", decision.Reason,
			)
			continue
		}

		if err := s.notifier.NotifyLowStock(ctx, vendor, product, productThreshold); err != nil {
			result.Failed++
			metrics.ObserveLowStockAlert("failed")
			logger.Warnw("low_stock_alert_dispatch_failed",
				"vendor_id", vendor.ID,
				"product_id", product.ID,
				"stock", product.Stock,
				"error", err,
			)
			continue
		}

		result.Alerted++
		metrics.ObserveLowStockAlert("alerted")
		if err := s.cooldown.RecordAlertWithin(ctx, vendor.ID, product.ID, now, window); err != nil {
			logger.Errorw("low_stock_alert_record_failed",
				"vendor_id", vendor.ID,
				"product_id", product.ID,
				"error", err,
			)
			continue
		}
		logger.Infow("low_stock_alert_sent",
			"vendor_id", vendor.ID,
			"product_id", product.ID,
			"stock", product.Stock,
			"threshold", productThreshold,
			"reason", decision.Reason,
		)
	}

	logger.Infow("low_stock_scan_finished",
		"vendor_id", input.VendorID,
		"skip_cooldown", input.SkipCooldown,
		"cooldown", window.String(),
		"checked", result.Checked,
		"alerted", result.Alerted,
		"suppressed", result.Suppressed,
		"failed", result.Failed,
	)
	return result, nil
}
