package portal

import (
	"strconv"

	handlershared "github.com/vendora/internal/http/handlers/shared"
	"github.com/vendora/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetEarnings 收益汇总，from/to 为左闭右开的创建时间窗口
func (h *Handler) GetEarnings(c *gin.Context) {
	vendorID, ok := handlershared.GetVendorID(c)
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

// GetBalance 余额概览
func (h *Handler) GetBalance(c *gin.Context) {
	vendorID, ok := handlershared.GetVendorID(c)
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

// GetCommissionRate 查看在某分类下适用的佣金率
func (h *Handler) GetCommissionRate(c *gin.Context) {
	vendorID, ok := handlershared.GetVendorID(c)
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
		"category_id": categoryID,
		"rate":        resolution.Rate.String(),
		"source":      resolution.Source,
	})
}
