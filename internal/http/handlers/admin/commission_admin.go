package admin

import (
	"github.com/vendora/internal/constants"
	handlershared "github.com/vendora/internal/http/handlers/shared"
	"github.com/vendora/internal/http/response"
	"github.com/vendora/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CommissionRateRequest 佣金率请求，rate 取值 [0,1]
type CommissionRateRequest struct {
	Rate string `json:"rate" binding:"required"`
}

func bindCommissionRate(c *gin.Context) (decimal.Decimal, bool) {
	var req CommissionRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return decimal.Zero, false
	}
	rate, err := handlershared.ParseDecimal(req.Rate)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.commission_rate_invalid", nil)
		return decimal.Zero, false
	}
	return rate, true
}

// GetDefaultCommissionRate 平台默认佣金率
func (h *Handler) GetDefaultCommissionRate(c *gin.Context) {
	rate, err := h.CommissionService.GetDefaultRate()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"rate": rate.String()})
}

// UpdateDefaultCommissionRate 修改平台默认佣金率
func (h *Handler) UpdateDefaultCommissionRate(c *gin.Context) {
	rate, ok := bindCommissionRate(c)
	if !ok {
		return
	}
	if err := h.CommissionService.UpdateDefaultRate(rate); err != nil {
		respondServiceError(c, err)
		return
	}
	h.recordAudit(c, constants.AuditActionDefaultRateUpdated, constants.AuditTargetSetting, 0, models.JSON{"rate": rate.String()})
	response.Success(c, gin.H{"rate": rate.String()})
}

// SetVendorCommissionRate 设置商户协议费率
func (h *Handler) SetVendorCommissionRate(c *gin.Context) {
	vendorID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		return
	}
	rate, ok := bindCommissionRate(c)
	if !ok {
		return
	}
	if err := h.CommissionService.SetVendorRate(vendorID, rate); err != nil {
		respondServiceError(c, err)
		return
	}
	h.recordAudit(c, constants.AuditActionVendorRateSet, constants.AuditTargetVendor, vendorID, models.JSON{"rate": rate.String()})
	response.Success(c, gin.H{"vendor_id": vendorID, "rate": rate.String()})
}

// ClearVendorCommissionRate 清除商户协议费率，回落到分类或平台费率
func (h *Handler) ClearVendorCommissionRate(c *gin.Context) {
	vendorID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		return
	}
	if err := h.CommissionService.ClearVendorRate(vendorID); err != nil {
		respondServiceError(c, err)
		return
	}
	h.recordAudit(c, constants.AuditActionVendorRateCleared, constants.AuditTargetVendor, vendorID, nil)
	response.Success(c, gin.H{"vendor_id": vendorID, "rate": nil})
}

// SetCategoryCommissionRate 设置分类费率
func (h *Handler) SetCategoryCommissionRate(c *gin.Context) {
	categoryID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		return
	}
	rate, ok := bindCommissionRate(c)
	if !ok {
		return
	}
	if err := h.CommissionService.SetCategoryRate(categoryID, rate); err != nil {
		respondServiceError(c, err)
		return
	}
	h.recordAudit(c, constants.AuditActionCategoryRateSet, constants.AuditTargetCategory, categoryID, models.JSON{"rate": rate.String()})
	response.Success(c, gin.H{"category_id": categoryID, "rate": rate.String()})
}

// ClearCategoryCommissionRate 清除分类费率
func (h *Handler) ClearCategoryCommissionRate(c *gin.Context) {
	categoryID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		return
	}
	if err := h.CommissionService.ClearCategoryRate(categoryID); err != nil {
		respondServiceError(c, err)
		return
	}
	h.recordAudit(c, constants.AuditActionCategoryRateCleared, constants.AuditTargetCategory, categoryID, nil)
	response.Success(c, gin.H{"category_id": categoryID, "rate": nil})
}

// PreviewCommissionRate 查看商户在分类下适用的费率
func (h *Handler) PreviewCommissionRate(c *gin.Context) {
	vendorID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		return
	}
	categoryID, err := handlershared.ParseQueryUint(c, "category_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	resolution, err := h.CommissionService.PreviewRate(vendorID, categoryID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"vendor_id":   vendorID,
		"category_id": categoryID,
		"rate":        resolution.Rate.String(),
		"source":      resolution.Source,
	})
}
