package portal

import (
	"strings"

	handlershared "github.com/vendora/internal/http/handlers/shared"
	"github.com/vendora/internal/http/response"
	"github.com/vendora/internal/models"
	"github.com/vendora/internal/service"

	"github.com/gin-gonic/gin"
)

// RequestPayoutRequest 申请提现请求，手续费由平台按策略计算
type RequestPayoutRequest struct {
	Amount              string `json:"amount" binding:"required"`
	Method              string `json:"method"`
	BankAccountName     string `json:"bank_account_name"`
	BankName            string `json:"bank_name"`
	MobileMoneyProvider string `json:"mobile_money_provider"`
	AccountNumber       string `json:"account_number"`
}

// CancelPayoutRequest 取消提现请求
type CancelPayoutRequest struct {
	Reason string `json:"reason"`
}

// FeeQuote 手续费试算
type FeeQuote struct {
	Amount    models.Money `json:"amount"`
	Fee       models.Money `json:"fee"`
	NetAmount models.Money `json:"net_amount"`
	MinAmount models.Money `json:"min_amount"`
}

// RequestPayout 申请提现
func (h *Handler) RequestPayout(c *gin.Context) {
	vendorID, ok := handlershared.GetVendorID(c)
	if !ok {
		return
	}
	var req RequestPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	amount, err := handlershared.ParseDecimal(req.Amount)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.payout_amount_invalid", nil)
		return
	}

	payout, err := h.PayoutService.RequestPayout(c.Request.Context(), service.RequestPayoutInput{
		VendorID: vendorID,
		Amount:   amount,
		Fee:      h.PayoutService.FeePolicy().Fee(amount),
		Destination: service.PayoutDestination{
			Method:              req.Method,
			BankAccountName:     req.BankAccountName,
			BankName:            req.BankName,
			MobileMoneyProvider: req.MobileMoneyProvider,
			AccountNumber:       req.AccountNumber,
		},
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, payout)
}

// QuoteFee 手续费试算，不占用余额
func (h *Handler) QuoteFee(c *gin.Context) {
	amount, err := handlershared.ParseDecimal(c.Query("amount"))
	if err != nil || !amount.IsPositive() {
		respondError(c, response.CodeBadRequest, "error.payout_amount_invalid", nil)
		return
	}
	policy := h.PayoutService.FeePolicy()
	fee := policy.Fee(amount)
	response.Success(c, FeeQuote{
		Amount:    models.NewMoneyFromDecimal(amount),
		Fee:       models.NewMoneyFromDecimal(fee),
		NetAmount: models.NewMoneyFromDecimal(amount.Sub(fee)),
		MinAmount: models.NewMoneyFromDecimal(policy.MinAmount),
	})
}

// ListPayouts 本商户的提现单
func (h *Handler) ListPayouts(c *gin.Context) {
	vendorID, ok := handlershared.GetVendorID(c)
	if !ok {
		return
	}
	filter, ok := handlershared.PayoutListQuery(c, vendorID)
	if !ok {
		return
	}
	handlershared.RespondPayoutList(c, h.PayoutService, filter)
}

// GetPayout 提现单详情
func (h *Handler) GetPayout(c *gin.Context) {
	vendorID, ok := handlershared.GetVendorID(c)
	if !ok {
		return
	}
	payoutID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		return
	}
	payout, err := h.PayoutService.GetForVendor(vendorID, payoutID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, payout)
}

// CancelPayout 商户取消尚未完成的提现
func (h *Handler) CancelPayout(c *gin.Context) {
	vendorID, ok := handlershared.GetVendorID(c)
	if !ok {
		return
	}
	payoutID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		return
	}
	var req CancelPayoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
	}
	payout, err := h.PayoutService.CancelForVendor(c.Request.Context(), vendorID, payoutID, strings.TrimSpace(req.Reason))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, payout)
}

// ListAdjustments 本商户的余额调整记录
func (h *Handler) ListAdjustments(c *gin.Context) {
	vendorID, ok := handlershared.GetVendorID(c)
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
