package portal

import (
	handlershared "github.com/vendora/internal/http/handlers/shared"
	"github.com/vendora/internal/http/response"
	"github.com/vendora/internal/service"

	"github.com/gin-gonic/gin"
)

// ScanLowStock 扫描本商户的低库存商品，冷却期内的商品不会重复提醒
func (h *Handler) ScanLowStock(c *gin.Context) {
	vendorID, ok := handlershared.GetVendorID(c)
	if !ok {
		return
	}
	result, err := h.LowStockService.Scan(c.Request.Context(), service.LowStockScanInput{VendorID: vendorID})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}
