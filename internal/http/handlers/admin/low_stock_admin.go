package admin

import (
	"github.com/vendora/internal/constants"
	"github.com/vendora/internal/http/response"
	"github.com/vendora/internal/models"
	"github.com/vendora/internal/queue"
	"github.com/vendora/internal/service"

	"github.com/gin-gonic/gin"
)

// LowStockScanRequest 管理端触发扫描，vendor_id 为 0 表示全部商户
type LowStockScanRequest struct {
	VendorID     uint `json:"vendor_id"`
	SkipCooldown bool `json:"skip_cooldown"`
}

// LowStockSettingRequest 低库存设置
type LowStockSettingRequest struct {
	DefaultThreshold int `json:"default_threshold"`
	CooldownHours    int `json:"cooldown_hours"`
}

// AdminScanLowStock 触发低库存扫描，队列可用时异步执行
func (h *Handler) AdminScanLowStock(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req LowStockScanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
	}

	if h.QueueClient != nil && h.QueueClient.Enabled() {
		err := h.QueueClient.EnqueueLowStockScan(queue.LowStockScanPayload{
			VendorID:     req.VendorID,
			SkipCooldown: req.SkipCooldown,
			RequestedBy:  adminID,
		})
		if err != nil {
			respondError(c, response.CodeUnavailable, "error.queue_unavailable", err)
			return
		}
		requestLog(c).Infow("admin_low_stock_scan_enqueued",
			"admin_id", adminID,
			"vendor_id", req.VendorID,
			"skip_cooldown", req.SkipCooldown,
		)
		response.Success(c, gin.H{"queued": true})
		return
	}

	result, err := h.LowStockService.Scan(c.Request.Context(), service.LowStockScanInput{
		VendorID:     req.VendorID,
		SkipCooldown: req.SkipCooldown,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_low_stock_scan_finished",
		"admin_id", adminID,
		"vendor_id", req.VendorID,
		"checked", result.Checked,
		"alerted", result.Alerted,
	)
	response.Success(c, gin.H{"queued": false, "result": result})
}

func (h *Handler) lowStockDefaults() service.LowStockSetting {
	return service.LowStockSetting{
		DefaultThreshold: h.Config.LowStock.DefaultThreshold,
		CooldownHours:    h.Config.LowStock.CooldownHours,
	}
}

// GetLowStockSetting 读取低库存设置
func (h *Handler) GetLowStockSetting(c *gin.Context) {
	setting, err := h.SettingService.GetLowStockSetting(h.lowStockDefaults())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, setting)
}

// UpdateLowStockSetting 更新低库存设置
func (h *Handler) UpdateLowStockSetting(c *gin.Context) {
	var req LowStockSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if req.DefaultThreshold < 0 || req.CooldownHours <= 0 {
		respondError(c, response.CodeBadRequest, "error.low_stock_setting_invalid", nil)
		return
	}
	setting, err := h.SettingService.UpdateLowStockSetting(service.LowStockSetting{
		DefaultThreshold: req.DefaultThreshold,
		CooldownHours:    req.CooldownHours,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	h.recordAudit(c, constants.AuditActionLowStockSettingSaved, constants.AuditTargetSetting, 0, models.JSON{
		"default_threshold": setting.DefaultThreshold,
		"cooldown_hours":    setting.CooldownHours,
	})
	response.Success(c, setting)
}
