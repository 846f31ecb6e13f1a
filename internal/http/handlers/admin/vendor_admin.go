package admin

import (
	"strconv"
	"strings"

	"github.com/vendora/internal/constants"
	handlershared "github.com/vendora/internal/http/handlers/shared"
	"github.com/vendora/internal/http/response"
	"github.com/vendora/internal/models"
	"github.com/vendora/internal/repository"
	"github.com/vendora/internal/service"

	"github.com/gin-gonic/gin"
)

// BalanceAdjustmentRequest 人工余额调整，amount 带符号
type BalanceAdjustmentRequest struct {
	Amount   string `json:"amount" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
	PayoutID *uint  `json:"payout_id"`
}

// ListVendors 商户列表
func (h *Handler) ListVendors(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	vendors, total, err := h.VendorRepo.List(repository.VendorListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, vendors, handlershared.BuildPagination(page, pageSize, total))
}

// GetVendorEarnings 商户收益汇总
func (h *Handler) GetVendorEarnings(c *gin.Context) {
	vendorID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		return
	}
	window, ok := handlershared.ParseEarningsWindow(c)
	if !ok {
		return
	}
	withOrders, _ := strconv.ParseBool(c.DefaultQuery("with_orders", "false"))
	summary, err := h.EarningsService.GetSummary(c.Request.Context(), vendorID, window)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, summary.Rounded(withOrders))
}

// GetVendorBalance 商户余额概览
func (h *Handler) GetVendorBalance(c *gin.Context) {
	vendorID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		return
	}
	balance, err := h.PayoutService.GetBalance(c.Request.Context(), vendorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, balance)
}

// ListBalanceAdjustments 商户余额调整记录
func (h *Handler) ListBalanceAdjustments(c *gin.Context) {
	vendorID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		return
	}
	items, err := h.PayoutService.ListAdjustments(vendorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, items)
}

// CreateBalanceAdjustment 记录人工余额调整（冲正后补记、对账差异等）
func (h *Handler) CreateBalanceAdjustment(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	vendorID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		return
	}
	var req BalanceAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	amount, err := handlershared.ParseDecimal(req.Amount)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.adjustment_invalid", nil)
		return
	}
	adjustment, err := h.PayoutService.AdjustBalance(c.Request.Context(), service.AdjustBalanceInput{
		VendorID: vendorID,
		Amount:   amount,
		Reason:   req.Reason,
		PayoutID: req.PayoutID,
		AdminID:  adminID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.recordAudit(c, constants.AuditActionBalanceAdjusted, constants.AuditTargetVendor, vendorID, models.JSON{
		"adjustment_id": adjustment.ID,
		"amount":        adjustment.Amount.String(),
		"reason":        adjustment.Reason,
	})
	response.Success(c, adjustment)
}
