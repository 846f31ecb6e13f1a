package admin

import (
	"time"

	handlershared "github.com/vendora/internal/http/handlers/shared"
	"github.com/vendora/internal/http/response"
	"github.com/vendora/internal/models"
	"github.com/vendora/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitPayoutRequest 提交处理方
type SubmitPayoutRequest struct {
	TransferCode string `json:"transfer_code" binding:"required"`
}

// CompletePayoutRequest 确认到账，processed_at 为空时取当前时间
type CompletePayoutRequest struct {
	ProcessedAt string `json:"processed_at"`
}

// PayoutReasonRequest 失败、取消、冲正的原因
type PayoutReasonRequest struct {
	Reason string `json:"reason"`
}

// AdminListPayouts 提现单列表
func (h *Handler) AdminListPayouts(c *gin.Context) {
	vendorID, err := handlershared.ParseQueryUint(c, "vendor_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	filter, ok := handlershared.PayoutListQuery(c, vendorID)
	if !ok {
		return
	}
	handlershared.RespondPayoutList(c, h.PayoutService, filter)
}

// AdminGetPayout 提现单详情
func (h *Handler) AdminGetPayout(c *gin.Context) {
	payoutID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		return
	}
	payout, err := h.PayoutService.Get(payoutID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, payout)
}

// AdminListPayoutEvents 提现单审计记录
func (h *Handler) AdminListPayoutEvents(c *gin.Context) {
	payoutID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		return
	}
	events, err := h.PayoutService.ListEvents(payoutID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, events)
}

// payoutAction 一次管理端提现流转的公共流程
func (h *Handler) payoutAction(c *gin.Context, run func(payoutID uint, actor service.PayoutActor) (*models.Payout, error)) {
	actor, ok := adminActor(c)
	if !ok {
		return
	}
	payoutID, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		return
	}
	payout, err := run(payoutID, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, payout)
}

func bindReason(c *gin.Context) (string, bool) {
	var req PayoutReasonRequest
	if c.Request.ContentLength == 0 {
		return "", true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return "", false
	}
	return req.Reason, true
}

// AdminSubmitPayout pending -> processing
func (h *Handler) AdminSubmitPayout(c *gin.Context) {
	var req SubmitPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.payout_transfer_code_required", nil)
		return
	}
	h.payoutAction(c, func(payoutID uint, actor service.PayoutActor) (*models.Payout, error) {
		return h.PayoutService.Submit(c.Request.Context(), payoutID, req.TransferCode, actor)
	})
}

// AdminCompletePayout processing -> completed
func (h *Handler) AdminCompletePayout(c *gin.Context) {
	var req CompletePayoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
	}
	var processedAt time.Time
	if parsed, err := handlershared.ParseTimeNullable(req.ProcessedAt); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	} else if parsed != nil {
		processedAt = *parsed
	}
	h.payoutAction(c, func(payoutID uint, actor service.PayoutActor) (*models.Payout, error) {
		return h.PayoutService.MarkCompleted(c.Request.Context(), payoutID, processedAt, actor)
	})
}

// AdminFailPayout processing -> failed
func (h *Handler) AdminFailPayout(c *gin.Context) {
	reason, ok := bindReason(c)
	if !ok {
		return
	}
	h.payoutAction(c, func(payoutID uint, actor service.PayoutActor) (*models.Payout, error) {
		return h.PayoutService.MarkFailed(c.Request.Context(), payoutID, reason, actor)
	})
}

// AdminRetryPayout failed -> pending
func (h *Handler) AdminRetryPayout(c *gin.Context) {
	h.payoutAction(c, func(payoutID uint, actor service.PayoutActor) (*models.Payout, error) {
		return h.PayoutService.Retry(c.Request.Context(), payoutID, actor)
	})
}

// AdminCancelPayout pending / processing -> cancelled
func (h *Handler) AdminCancelPayout(c *gin.Context) {
	reason, ok := bindReason(c)
	if !ok {
		return
	}
	h.payoutAction(c, func(payoutID uint, actor service.PayoutActor) (*models.Payout, error) {
		return h.PayoutService.Cancel(c.Request.Context(), payoutID, reason, actor)
	})
}

// AdminReversePayout completed -> reversed
func (h *Handler) AdminReversePayout(c *gin.Context) {
	reason, ok := bindReason(c)
	if !ok {
		return
	}
	h.payoutAction(c, func(payoutID uint, actor service.PayoutActor) (*models.Payout, error) {
		return h.PayoutService.Reverse(c.Request.Context(), payoutID, reason, actor)
	})
}
