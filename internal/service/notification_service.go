package service

import (
	"context"
	"errors"

	"github.com/vendora/internal/logger"
	"github.com/vendora/internal/queue"
	"github.com/vendora/internal/repository"
)

// NotificationService 处理异步通知任务
type NotificationService struct {
	payoutRepo repository.PayoutRepository
	vendorRepo repository.VendorRepository
	email      *EmailService
	locale     string
}

// NewNotificationService 创建通知服务
func NewNotificationService(payoutRepo repository.PayoutRepository, vendorRepo repository.VendorRepository, email *EmailService, locale string) *NotificationService {
	return &NotificationService{
		payoutRepo: payoutRepo,
		vendorRepo: vendorRepo,
		email:      email,
		locale:     locale,
	}
}

// SendPayoutStatusEmail 发送提现状态邮件
// 提现单已进入其他状态时跳过，避免乱序重试发出过期通知
func (s *NotificationService) SendPayoutStatusEmail(ctx context.Context, payload queue.PayoutStatusEmailPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payout, err := s.payoutRepo.GetByID(payload.PayoutID)
	if err != nil {
		return err
	}
	if payout == nil {
		logger.Warnw("payout_status_email_payout_missing", "payout_id", payload.PayoutID)
		return nil
	}
	if payload.Status != "" && payout.Status != payload.Status {
		logger.Debugw("payout_status_email_stale",
			"payout_id", payout.ID,
			"task_status", payload.Status,
			"current_status", payout.Status,
		)
		return nil
	}
	vendor, err := s.vendorRepo.GetByID(payout.VendorID)
	if err != nil {
		return err
	}
	if vendor == nil {
		return nil
	}

	input := PayoutStatusEmailInput{
		VendorName: vendor.Name,
		Reference:  payout.Reference,
		Status:     payout.Status,
		Amount:     payout.Amount,
		Fee:        payout.Fee,
		NetAmount:  payout.NetAmount,
	}
	if payout.FailureReason != nil {
		input.FailureReason = *payout.FailureReason
	}
	err = s.email.SendPayoutStatusEmail(vendor.Email, input, s.locale)
	switch {
	case err == nil:
		logger.Infow("payout_status_email_sent", "payout_id", payout.ID, "status", payout.Status)
		return nil
	case errors.Is(err, ErrEmailServiceDisabled), errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrEmailRecipientRejected):
		// 重试也无法成功
		logger.Warnw("payout_status_email_skipped", "payout_id", payout.ID, "error", err)
		return nil
	default:
		return err
	}
}
