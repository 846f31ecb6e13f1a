package provider

import (
	"errors"
	"fmt"
	"time"

	"github.com/vendora/internal/authz"
	"github.com/vendora/internal/cache"
	"github.com/vendora/internal/config"
	"github.com/vendora/internal/i18n"
	"github.com/vendora/internal/logger"
	"github.com/vendora/internal/models"
	"github.com/vendora/internal/queue"
	"github.com/vendora/internal/repository"
	"github.com/vendora/internal/service"

	"github.com/shopspring/decimal"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo         repository.AdminRepository
	VendorRepo        repository.VendorRepository
	CategoryRepo      repository.CategoryRepository
	ProductRepo       repository.ProductRepository
	OrderRepo         repository.OrderRepository
	PayoutRepo        repository.PayoutRepository
	SettingRepo       repository.SettingRepository
	LowStockAlertRepo repository.LowStockAlertRepository
	AuditLogRepo      repository.AdminAuditLogRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	EmailService        *service.EmailService
	SettingService      *service.SettingService
	CommissionService   *service.CommissionService
	EarningsService     *service.EarningsService
	OrderService        *service.OrderService
	PayoutService       *service.PayoutService
	LowStockService     *service.LowStockService
	NotificationService *service.NotificationService
	AuditService        *service.AuditService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.VendorRepo = repository.NewVendorRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PayoutRepo = repository.NewPayoutRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.LowStockAlertRepo = repository.NewLowStockAlertRepository(db)
	c.AuditLogRepo = repository.NewAdminAuditLogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	fallbackRate, err := decimal.NewFromString(c.Config.Commission.DefaultRate)
	if err != nil || !service.IsValidRate(fallbackRate) {
		logger.Errorw("provider_invalid_commission_default_rate", "value", c.Config.Commission.DefaultRate, "error", err)
		panic(service.ErrRateInvalid)
	}
	fees, err := service.NewPayoutFeePolicy(c.Config.Payout.FeeRate, c.Config.Payout.FeeFixed, c.Config.Payout.MinAmount)
	if err != nil {
		logger.Errorw("provider_invalid_payout_fee_policy", "error", err)
		panic(err)
	}

	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.AuditService = service.NewAuditService(c.AuditLogRepo)
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo, c.VendorRepo)
	c.CommissionService = service.NewCommissionService(c.VendorRepo, c.CategoryRepo, c.SettingService, fallbackRate)
	c.EarningsService = service.NewEarningsService(c.VendorRepo, c.CategoryRepo, c.OrderRepo, c.CommissionService)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.CommissionService)
	c.PayoutService = service.NewPayoutService(c.PayoutRepo, c.VendorRepo, c.EarningsService, c.vendorLocker(), c.QueueClient, fees)
	c.NotificationService = service.NewNotificationService(c.PayoutRepo, c.VendorRepo, c.EmailService, i18n.DefaultLocale)

	window := time.Duration(c.Config.LowStock.CooldownHours) * time.Hour
	c.LowStockService = service.NewLowStockService(
		c.ProductRepo,
		c.VendorRepo,
		service.NewLowStockCooldown(c.cooldownStore(), window),
		service.NewEmailAlertNotifier(c.EmailService, i18n.DefaultLocale),
		c.SettingService,
		c.Config.LowStock.DefaultThreshold,
	)
}

// vendorLocker 启用 Redis 时使用分布式锁，否则使用进程内锁
func (c *Container) vendorLocker() service.VendorLocker {
	if !cache.Enabled() {
		return service.NewLocalVendorLocker()
	}
	ttl := time.Duration(c.Config.Payout.LockTTLSeconds) * time.Second
	return service.NewRedisVendorLocker(cache.Client(), ttl, ttl)
}

// cooldownStore 冷却记录默认落库，启用 Redis 时多实例共享
func (c *Container) cooldownStore() service.CooldownStore {
	if cache.Enabled() {
		return service.NewRedisCooldownStore(cache.Client())
	}
	return service.NewGormCooldownStore(c.LowStockAlertRepo)
}

// Close 释放队列客户端、Redis 与数据库连接
func (c *Container) Close() error {
	var errs []error
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close queue client: %w", err))
		}
	}
	if err := cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close redis: %w", err))
	}
	if models.DB != nil {
		if sqlDB, err := models.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close database: %w", err))
			}
		}
	}
	return errors.Join(errs...)
}
