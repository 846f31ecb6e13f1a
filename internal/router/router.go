package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vendora/internal/authz"
	"github.com/vendora/internal/cache"
	"github.com/vendora/internal/config"
	adminhandlers "github.com/vendora/internal/http/handlers/admin"
	portalhandlers "github.com/vendora/internal/http/handlers/portal"
	"github.com/vendora/internal/http/response"
	"github.com/vendora/internal/logger"
	"github.com/vendora/internal/metrics"
	"github.com/vendora/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按商户端/后台分组）
	vendorHandler := portalhandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "vendora"
	}
	redisClient := cache.Client()
	vendorLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:vendor_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxRequests,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.rate_limited",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxRequests,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.rate_limited",
	}
	payoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:payout_request", redisPrefix),
		WindowSeconds: cfg.Payout.RequestRateLimit.WindowSeconds,
		MaxRequests:   cfg.Payout.RequestRateLimit.MaxRequests,
		BlockSeconds:  cfg.Payout.RequestRateLimit.BlockSeconds,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware())
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, metrics.Handler())
	}

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 商户端
		vendor := apiV1.Group("/vendor")
		{
			vendor.POST("/auth/login", RateLimitMiddleware(redisClient, vendorLoginRule, KeyByIPAndJSONField("email")), vendorHandler.Login)

			authed := vendor.Group("")
			authed.Use(VendorJWTAuthMiddleware(cfg.VendorJWT.SecretKey, c.AuthService))
			{
				authed.GET("/me", vendorHandler.GetCurrentVendor)
				authed.PUT("/me/password", vendorHandler.ChangePassword)

				// 收益与余额
				authed.GET("/earnings", vendorHandler.GetEarnings)
				authed.GET("/balance", vendorHandler.GetBalance)
				authed.GET("/commission/rate", vendorHandler.GetCommissionRate)
				authed.GET("/adjustments", vendorHandler.ListAdjustments)

				// 提现
				authed.POST("/payouts", RateLimitMiddleware(redisClient, payoutRule, KeyByVendor), vendorHandler.RequestPayout)
				authed.GET("/payouts", vendorHandler.ListPayouts)
				authed.GET("/payouts/fee-quote", vendorHandler.QuoteFee)
				authed.GET("/payouts/:id", vendorHandler.GetPayout)
				authed.POST("/payouts/:id/cancel", vendorHandler.CancelPayout)

				// 低库存
				authed.POST("/low-stock/scan", vendorHandler.ScanLowStock)
			}
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(AdminJWTAuthMiddleware(cfg.JWT.SecretKey, c.AuthService), AdminRBACMiddleware(c.AuthzService))
			{
				// 权限
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.GET("/authz/admins", adminHandler.ListAuthzAdmins)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAdminRoles)
				authorized.GET("/audit-logs", adminHandler.ListAuditLogs)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})

				// 佣金
				authorized.GET("/commission/default-rate", adminHandler.GetDefaultCommissionRate)
				authorized.PUT("/commission/default-rate", adminHandler.UpdateDefaultCommissionRate)
				authorized.PUT("/vendors/:id/commission-rate", adminHandler.SetVendorCommissionRate)
				authorized.DELETE("/vendors/:id/commission-rate", adminHandler.ClearVendorCommissionRate)
				authorized.GET("/vendors/:id/commission-preview", adminHandler.PreviewCommissionRate)
				authorized.PUT("/categories/:id/commission-rate", adminHandler.SetCategoryCommissionRate)
				authorized.DELETE("/categories/:id/commission-rate", adminHandler.ClearCategoryCommissionRate)

				// 商户收益与余额
				authorized.GET("/vendors", adminHandler.ListVendors)
				authorized.GET("/vendors/:id/earnings", adminHandler.GetVendorEarnings)
				authorized.GET("/vendors/:id/balance", adminHandler.GetVendorBalance)
				authorized.GET("/vendors/:id/balance-adjustments", adminHandler.ListBalanceAdjustments)
				authorized.POST("/vendors/:id/balance-adjustments", adminHandler.CreateBalanceAdjustment)

				// 订单
				authorized.GET("/orders", adminHandler.AdminListOrders)
				authorized.POST("/orders", adminHandler.AdminCreateOrder)
				authorized.GET("/orders/:id", adminHandler.AdminGetOrder)
				authorized.PATCH("/orders/:id/status", adminHandler.AdminUpdateOrderStatus)
				authorized.PATCH("/orders/:id/total", adminHandler.AdminAdjustOrderTotal)

				// 提现
				authorized.GET("/payouts", adminHandler.AdminListPayouts)
				authorized.GET("/payouts/:id", adminHandler.AdminGetPayout)
				authorized.GET("/payouts/:id/events", adminHandler.AdminListPayoutEvents)
				authorized.POST("/payouts/:id/submit", adminHandler.AdminSubmitPayout)
				authorized.POST("/payouts/:id/complete", adminHandler.AdminCompletePayout)
				authorized.POST("/payouts/:id/fail", adminHandler.AdminFailPayout)
				authorized.POST("/payouts/:id/retry", adminHandler.AdminRetryPayout)
				authorized.POST("/payouts/:id/cancel", adminHandler.AdminCancelPayout)
				authorized.POST("/payouts/:id/reverse", adminHandler.AdminReversePayout)

				// 低库存
				authorized.POST("/low-stock/scan", adminHandler.AdminScanLowStock)
				authorized.GET("/settings/low-stock", adminHandler.GetLowStockSetting)
				authorized.PUT("/settings/low-stock", adminHandler.UpdateLowStockSetting)
				authorized.POST("/settings/email/test", adminHandler.TestEmailSettings)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
