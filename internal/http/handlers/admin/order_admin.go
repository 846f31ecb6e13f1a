package admin

import (
	"strings"

	handlershared "github.com/vendora/internal/http/handlers/shared"
	"github.com/vendora/internal/http/response"
	"github.com/vendora/internal/repository"
	"github.com/vendora/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 录入订单（上游下单系统回传）
type CreateOrderRequest struct {
	VendorID uint                     `json:"vendor_id" binding:"required"`
	BuyerID  uint                     `json:"buyer_id"`
	Items    []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderItemRequest 订单项
type CreateOrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// UpdateOrderStatusRequest 更新订单状态
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdjustOrderTotalRequest 调整订单金额
type AdjustOrderTotalRequest struct {
	Total string `json:"total" binding:"required"`
}

// AdminListOrders 订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	vendorID, err := handlershared.ParseQueryUint(c, "vendor_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	window, ok := handlershared.ParseEarningsWindow(c)
	if !ok {
		return
	}
	var statuses []string
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		for _, status := range strings.Split(raw, ",") {
			if trimmed := strings.ToLower(strings.TrimSpace(status)); trimmed != "" {
				statuses = append(statuses, trimmed)
			}
		}
	}

	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		VendorID: vendorID,
		Statuses: statuses,
		From:     window.From,
		To:       window.To,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, orders, handlershared.BuildPagination(page, pageSize, total))
}

// AdminGetOrder 订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	orderID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// AdminCreateOrder 录入订单
func (h *Handler) AdminCreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.order_items_invalid", nil)
		return
	}
	items := make([]service.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		VendorID: req.VendorID,
		BuyerID:  req.BuyerID,
		Items:    items,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// AdminUpdateOrderStatus 按流转表更新订单状态
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	orderID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.UpdateStatus(orderID, strings.ToLower(req.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// AdminAdjustOrderTotal 调整订单金额，已签收订单不可调整
func (h *Handler) AdminAdjustOrderTotal(c *gin.Context) {
	orderID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		return
	}
	var req AdjustOrderTotalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	total, err := handlershared.ParseDecimal(req.Total)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.order_total_invalid", nil)
		return
	}
	order, err := h.OrderService.AdjustTotal(orderID, total)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}
