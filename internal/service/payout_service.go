package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vendora/internal/constants"
	"github.com/vendora/internal/logger"
	"github.com/vendora/internal/metrics"
	"github.com/vendora/internal/models"
	"github.com/vendora/internal/queue"
	"github.com/vendora/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayoutService 提现生命周期管理
// 所有改变可提现余额的操作（申请、重试、人工调整）都在商户锁内执行
type PayoutService struct {
	payoutRepo  repository.PayoutRepository
	vendorRepo  repository.VendorRepository
	earnings    *EarningsService
	locker      VendorLocker
	queueClient *queue.Client
	fees        PayoutFeePolicy
	now         func() time.Time
}

// NewPayoutService 创建提现服务
func NewPayoutService(
	payoutRepo repository.PayoutRepository,
	vendorRepo repository.VendorRepository,
	earnings *EarningsService,
	locker VendorLocker,
	queueClient *queue.Client,
	fees PayoutFeePolicy,
) *PayoutService {
	if locker == nil {
		locker = NewLocalVendorLocker()
	}
	return &PayoutService{
		payoutRepo:  payoutRepo,
		vendorRepo:  vendorRepo,
		earnings:    earnings,
		locker:      locker,
		queueClient: queueClient,
		fees:        fees,
		now:         time.Now,
	}
}

// FeePolicy 当前手续费策略
func (s *PayoutService) FeePolicy() PayoutFeePolicy {
	return s.fees
}

// PayoutDestination 到账信息，bank_name 与 mobile_money_provider 二选一
type PayoutDestination struct {
	Method              string `json:"method"`
	BankAccountName     string `json:"bank_account_name"`
	BankName            string `json:"bank_name"`
	MobileMoneyProvider string `json:"mobile_money_provider"`
	AccountNumber       string `json:"account_number"`
}

// Normalize 去除空白并推断到账方式
func (d PayoutDestination) Normalize() PayoutDestination {
	d.Method = strings.ToLower(strings.TrimSpace(d.Method))
	d.BankAccountName = strings.TrimSpace(d.BankAccountName)
	d.BankName = strings.TrimSpace(d.BankName)
	d.MobileMoneyProvider = strings.TrimSpace(d.MobileMoneyProvider)
	d.AccountNumber = strings.TrimSpace(d.AccountNumber)
	if d.Method == "" {
		switch {
		case d.BankName != "" && d.MobileMoneyProvider == "":
			d.Method = constants.PayoutMethodBank
		case d.MobileMoneyProvider != "" && d.BankName == "":
			d.Method = constants.PayoutMethodMobileMoney
		}
	}
	return d
}

// Validate 校验到账信息
func (d PayoutDestination) Validate() error {
	if d.BankAccountName == "" || d.AccountNumber == "" {
		return fmt.Errorf("%w: account name and number required", ErrPayoutDestinationInvalid)
	}
	switch d.Method {
	case constants.PayoutMethodBank:
		if d.BankName == "" || d.MobileMoneyProvider != "" {
			return fmt.Errorf("%w: bank payout needs bank_name only", ErrPayoutDestinationInvalid)
		}
	case constants.PayoutMethodMobileMoney:
		if d.MobileMoneyProvider == "" || d.BankName != "" {
			return fmt.Errorf("%w: mobile money payout needs mobile_money_provider only", ErrPayoutDestinationInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown method %q", ErrPayoutDestinationInvalid, d.Method)
	}
	return nil
}

// RequestPayoutInput 申请提现输入，Fee 由调用方按手续费策略计算
type RequestPayoutInput struct {
	VendorID    uint
	Amount      decimal.Decimal
	Fee         decimal.Decimal
	Destination PayoutDestination
}

// VendorBalance 商户余额概览
type VendorBalance struct {
	VendorID          uint         `json:"vendor_id"`
	CompletedEarnings models.Money `json:"completed_earnings"`
	PendingEarnings   models.Money `json:"pending_earnings"`
	Adjustments       models.Money `json:"adjustments"`
	Reserved          models.Money `json:"reserved"`
	PaidOut           models.Money `json:"paid_out"`
	Reversed          models.Money `json:"reversed"`
	Withdrawable      models.Money `json:"withdrawable"`
}

// balanceParts 未舍入的余额组成
type balanceParts struct {
	completed   decimal.Decimal
	pending     decimal.Decimal
	adjustments decimal.Decimal
	reserved    decimal.Decimal
	paidOut     decimal.Decimal
	reversed    decimal.Decimal
}

// withdrawable 可提现余额，向下取整到分，避免提走不足一分的收益
func (b balanceParts) withdrawable() decimal.Decimal {
	return b.completed.
		Add(b.adjustments).
		Sub(b.reserved).
		Sub(b.paidOut).
		Sub(b.reversed).
		RoundFloor(2)
}

func (b balanceParts) view(vendorID uint) VendorBalance {
	return VendorBalance{
		VendorID:          vendorID,
		CompletedEarnings: models.NewMoneyFromDecimal(b.completed),
		PendingEarnings:   models.NewMoneyFromDecimal(b.pending),
		Adjustments:       models.NewMoneyFromDecimal(b.adjustments),
		Reserved:          models.NewMoneyFromDecimal(b.reserved),
		PaidOut:           models.NewMoneyFromDecimal(b.paidOut),
		Reversed:          models.NewMoneyFromDecimal(b.reversed),
		Withdrawable:      models.NewMoneyFromDecimal(b.withdrawable()),
	}
}

// loadBalance 汇总余额；payoutRepo 需与调用方处于同一事务
func (s *PayoutService) loadBalance(payoutRepo repository.PayoutRepository, vendorID uint, earnings EarningsSummary) (balanceParts, error) {
	parts := balanceParts{completed: earnings.Completed, pending: earnings.Pending}
	var err error
	if parts.reserved, err = payoutRepo.SumAmountByStatuses(vendorID, []string{
		constants.PayoutStatusPending,
		constants.PayoutStatusProcessing,
	}); err != nil {
		return parts, err
	}
	if parts.paidOut, err = payoutRepo.SumAmountByStatuses(vendorID, []string{constants.PayoutStatusCompleted}); err != nil {
		return parts, err
	}
	if parts.reversed, err = payoutRepo.SumAmountByStatuses(vendorID, []string{constants.PayoutStatusReversed}); err != nil {
		return parts, err
	}
	if parts.adjustments, err = payoutRepo.SumAdjustments(vendorID); err != nil {
		return parts, err
	}
	return parts, nil
}

// GetBalance 商户余额概览
func (s *PayoutService) GetBalance(ctx context.Context, vendorID uint) (*VendorBalance, error) {
	earnings, err := s.earnings.CompletedNet(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	parts, err := s.loadBalance(s.payoutRepo, vendorID, earnings)
	if err != nil {
		return nil, err
	}
	balance := parts.view(vendorID)
	return &balance, nil
}

// RequestPayout 申请提现：校验后在商户锁与事务内重新计算余额并占用
func (s *PayoutService) RequestPayout(ctx context.Context, input RequestPayoutInput) (*models.Payout, error) {
	destination := input.Destination.Normalize()
	if err := s.validateRequest(input, destination); err != nil {
		metrics.ObservePayoutRejection("invalid_request")
		return nil, err
	}
	amount := input.Amount
	fee := input.Fee

	release, err := s.locker.Lock(ctx, input.VendorID)
	if err != nil {
		return nil, err
	}
	defer release()

	earnings, err := s.earnings.CompletedNet(ctx, input.VendorID)
	if err != nil {
		return nil, err
	}

	var payout *models.Payout
	err = s.payoutRepo.Transaction(func(tx *gorm.DB) error {
		payoutRepo := s.payoutRepo.WithTx(tx)
		vendor, err := s.vendorRepo.WithTx(tx).GetByIDForUpdate(input.VendorID)
		if err != nil {
			return err
		}
		if vendor == nil {
			return ErrVendorNotFound
		}
		if vendor.Status != constants.VendorStatusActive {
			return ErrAccountDisabled
		}

		parts, err := s.loadBalance(payoutRepo, vendor.ID, earnings)
		if err != nil {
			return err
		}
		withdrawable := parts.withdrawable()
		if amount.GreaterThan(withdrawable) {
			return &InsufficientBalanceError{
				Requested:    amount.StringFixed(2),
				Withdrawable: withdrawable.StringFixed(2),
			}
		}

		payout = &models.Payout{
			Reference:           generatePayoutReference(),
			VendorID:            vendor.ID,
			Amount:              models.NewMoneyFromDecimal(amount),
			Fee:                 models.NewMoneyFromDecimal(fee),
			NetAmount:           models.NewMoneyFromDecimal(amount.Sub(fee)),
			Status:              constants.PayoutStatusPending,
			Method:              destination.Method,
			BankAccountName:     destination.BankAccountName,
			BankName:            destination.BankName,
			MobileMoneyProvider: destination.MobileMoneyProvider,
			AccountNumber:       destination.AccountNumber,
			Attempts:            1,
		}
		if err := payoutRepo.Create(payout); err != nil {
			return err
		}
		return payoutRepo.CreateEvent(&models.PayoutEvent{
			PayoutID:  payout.ID,
			Action:    constants.PayoutActionRequest,
			ToStatus:  constants.PayoutStatusPending,
			ActorType: constants.ActorTypeVendor,
			ActorID:   vendor.ID,
		})
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientBalance) {
			metrics.ObservePayoutRejection("insufficient_balance")
			logger.Warnw("payout_request_rejected",
				"vendor_id", input.VendorID,
				"amount", amount.StringFixed(2),
				"error", err,
			)
		}
		return nil, err
	}

	metrics.ObservePayoutTransition(constants.PayoutActionRequest, payout.Status)
	logger.Infow("payout_requested",
		"payout_id", payout.ID,
		"reference", payout.Reference,
		"vendor_id", payout.VendorID,
		"amount", payout.Amount.String(),
		"fee", payout.Fee.String(),
	)
	s.enqueueStatusEmail(payout)
	return payout, nil
}

func (s *PayoutService) validateRequest(input RequestPayoutInput, destination PayoutDestination) error {
	if input.VendorID == 0 {
		return ErrVendorNotFound
	}
	amount := input.Amount
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return ErrPayoutAmountInvalid
	}
	if err := s.fees.CheckMinimum(amount); err != nil {
		return err
	}
	fee := input.Fee
	if fee.IsNegative() || !fee.Equal(fee.Round(2)) || fee.GreaterThanOrEqual(amount) {
		return ErrPayoutFeeInvalid
	}
	return destination.Validate()
}

// PayoutActor 操作者
type PayoutActor struct {
	Type string
	ID   uint
}

// SystemActor 无具体操作者时使用
var SystemActor = PayoutActor{Type: constants.ActorTypeSystem}

// transitionOptions 一次状态流转携带的附加变更
type transitionOptions struct {
	actor PayoutActor
	note  string
	apply func(payout *models.Payout, now time.Time)
}

// transition 在事务内锁定提现单、校验状态机、写入变更与审计记录
// 非法流转不落库，返回 *TransitionError
func (s *PayoutService) transition(ctx context.Context, payoutID uint, action string, opts transitionOptions) (*models.Payout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		payout *models.Payout
		from   string
	)
	err := s.payoutRepo.Transaction(func(tx *gorm.DB) error {
		payoutRepo := s.payoutRepo.WithTx(tx)
		current, err := payoutRepo.GetByIDForUpdate(payoutID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrPayoutNotFound
		}
		to, err := nextPayoutStatus(current.Status, action)
		if err != nil {
			return err
		}
		from = current.Status
		now := s.now()
		current.Status = to
		if opts.apply != nil {
			opts.apply(current, now)
		}
		if err := payoutRepo.Update(current); err != nil {
			return err
		}
		if err := payoutRepo.CreateEvent(&models.PayoutEvent{
			PayoutID:   current.ID,
			Action:     action,
			FromStatus: from,
			ToStatus:   to,
			ActorType:  opts.actor.Type,
			ActorID:    opts.actor.ID,
			Note:       opts.note,
		}); err != nil {
			return err
		}
		payout = current
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidStateTransition) {
			metrics.ObservePayoutRejection("invalid_transition")
			logger.Warnw("payout_transition_rejected", "payout_id", payoutID, "action", action, "error", err)
		}
		return nil, err
	}

	metrics.ObservePayoutTransition(action, payout.Status)
	logger.Infow("payout_status_changed",
		"payout_id", payout.ID,
		"vendor_id", payout.VendorID,
		"action", action,
		"from", from,
		"to", payout.Status,
		"actor_type", opts.actor.Type,
		"actor_id", opts.actor.ID,
	)
	s.enqueueStatusEmail(payout)
	return payout, nil
}

// Submit pending -> processing，记录处理方受理编码
func (s *PayoutService) Submit(ctx context.Context, payoutID uint, transferCode string, actor PayoutActor) (*models.Payout, error) {
	code := strings.TrimSpace(transferCode)
	if code == "" {
		return nil, ErrPayoutTransferCodeEmpty
	}
	return s.transition(ctx, payoutID, constants.PayoutActionSubmit, transitionOptions{
		actor: actor,
		apply: func(p *models.Payout, now time.Time) {
			p.TransferCode = code
			p.SubmittedAt = &now
		},
	})
}

// MarkCompleted processing -> completed；processedAt 为零值时使用当前时间
func (s *PayoutService) MarkCompleted(ctx context.Context, payoutID uint, processedAt time.Time, actor PayoutActor) (*models.Payout, error) {
	return s.transition(ctx, payoutID, constants.PayoutActionComplete, transitionOptions{
		actor: actor,
		apply: func(p *models.Payout, now time.Time) {
			at := processedAt
			if at.IsZero() {
				at = now
			}
			p.ProcessedAt = &at
		},
	})
}

// MarkFailed processing -> failed，释放余额占用
func (s *PayoutService) MarkFailed(ctx context.Context, payoutID uint, reason string, actor PayoutActor) (*models.Payout, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrPayoutReasonRequired
	}
	return s.transition(ctx, payoutID, constants.PayoutActionFail, transitionOptions{
		actor: actor,
		note:  reason,
		apply: func(p *models.Payout, _ time.Time) {
			p.FailureReason = &reason
		},
	})
}

// Cancel pending / processing -> cancelled，释放余额占用
func (s *PayoutService) Cancel(ctx context.Context, payoutID uint, reason string, actor PayoutActor) (*models.Payout, error) {
	reason = strings.TrimSpace(reason)
	return s.transition(ctx, payoutID, constants.PayoutActionCancel, transitionOptions{
		actor: actor,
		note:  reason,
		apply: func(p *models.Payout, _ time.Time) {
			p.Note = reason
		},
	})
}

// CancelForVendor 商户取消自己的提现单
func (s *PayoutService) CancelForVendor(ctx context.Context, vendorID, payoutID uint, reason string) (*models.Payout, error) {
	if _, err := s.GetForVendor(vendorID, payoutID); err != nil {
		return nil, err
	}
	return s.Cancel(ctx, payoutID, reason, PayoutActor{Type: constants.ActorTypeVendor, ID: vendorID})
}

// Reverse completed -> reversed；金额仍视为已消耗，需通过 AdjustBalance 入账
func (s *PayoutService) Reverse(ctx context.Context, payoutID uint, reason string, actor PayoutActor) (*models.Payout, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrPayoutReasonRequired
	}
	return s.transition(ctx, payoutID, constants.PayoutActionReverse, transitionOptions{
		actor: actor,
		note:  reason,
		apply: func(p *models.Payout, _ time.Time) {
			p.Note = reason
		},
	})
}

// Retry failed -> pending
// 失败单不占用余额，重试等同于重新占用，因此与申请一样在商户锁内校验余额
func (s *PayoutService) Retry(ctx context.Context, payoutID uint, actor PayoutActor) (*models.Payout, error) {
	existing, err := s.payoutRepo.GetByID(payoutID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrPayoutNotFound
	}
	if _, err := nextPayoutStatus(existing.Status, constants.PayoutActionRetry); err != nil {
		metrics.ObservePayoutRejection("invalid_transition")
		return nil, err
	}

	release, err := s.locker.Lock(ctx, existing.VendorID)
	if err != nil {
		return nil, err
	}
	defer release()

	earnings, err := s.earnings.CompletedNet(ctx, existing.VendorID)
	if err != nil {
		return nil, err
	}

	var (
		payout *models.Payout
		from   string
	)
	err = s.payoutRepo.Transaction(func(tx *gorm.DB) error {
		payoutRepo := s.payoutRepo.WithTx(tx)
		current, err := payoutRepo.GetByIDForUpdate(payoutID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrPayoutNotFound
		}
		to, err := nextPayoutStatus(current.Status, constants.PayoutActionRetry)
		if err != nil {
			return err
		}
		parts, err := s.loadBalance(payoutRepo, current.VendorID, earnings)
		if err != nil {
			return err
		}
		withdrawable := parts.withdrawable()
		if current.Amount.Decimal.GreaterThan(withdrawable) {
			return &InsufficientBalanceError{
				Requested:    current.Amount.String(),
				Withdrawable: withdrawable.StringFixed(2),
			}
		}

		from = current.Status
		current.Status = to
		current.FailureReason = nil
		current.TransferCode = ""
		current.SubmittedAt = nil
		current.Attempts++
		if err := payoutRepo.Update(current); err != nil {
			return err
		}
		if err := payoutRepo.CreateEvent(&models.PayoutEvent{
			PayoutID:   current.ID,
			Action:     constants.PayoutActionRetry,
			FromStatus: from,
			ToStatus:   to,
			ActorType:  actor.Type,
			ActorID:    actor.ID,
		}); err != nil {
			return err
		}
		payout = current
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientBalance):
			metrics.ObservePayoutRejection("insufficient_balance")
		case errors.Is(err, ErrInvalidStateTransition):
			metrics.ObservePayoutRejection("invalid_transition")
		}
		logger.Warnw("payout_retry_rejected", "payout_id", payoutID, "error", err)
		return nil, err
	}

	metrics.ObservePayoutTransition(constants.PayoutActionRetry, payout.Status)
	logger.Infow("payout_status_changed",
		"payout_id", payout.ID,
		"vendor_id", payout.VendorID,
		"action", constants.PayoutActionRetry,
		"from", from,
		"to", payout.Status,
		"attempts", payout.Attempts,
	)
	s.enqueueStatusEmail(payout)
	return payout, nil
}

// AdjustBalanceInput 人工余额调整
type AdjustBalanceInput struct {
	VendorID uint
	Amount   decimal.Decimal
	Reason   string
	PayoutID *uint
	AdminID  uint
}

// AdjustBalance 记录一笔带符号的余额调整，正数入账，负数记欠款
func (s *PayoutService) AdjustBalance(ctx context.Context, input AdjustBalanceInput) (*models.BalanceAdjustment, error) {
	reason := strings.TrimSpace(input.Reason)
	if input.Amount.IsZero() || !input.Amount.Equal(input.Amount.Round(2)) || reason == "" {
		return nil, ErrAdjustmentInvalid
	}

	release, err := s.locker.Lock(ctx, input.VendorID)
	if err != nil {
		return nil, err
	}
	defer release()

	earnings, err := s.earnings.CompletedNet(ctx, input.VendorID)
	if err != nil {
		return nil, err
	}

	var adjustment *models.BalanceAdjustment
	err = s.payoutRepo.Transaction(func(tx *gorm.DB) error {
		payoutRepo := s.payoutRepo.WithTx(tx)
		vendor, err := s.vendorRepo.WithTx(tx).GetByIDForUpdate(input.VendorID)
		if err != nil {
			return err
		}
		if vendor == nil {
			return ErrVendorNotFound
		}
		if input.PayoutID != nil {
			payout, err := payoutRepo.GetByID(*input.PayoutID)
			if err != nil {
				return err
			}
			if payout == nil || payout.VendorID != vendor.ID {
				return ErrPayoutNotFound
			}
		}
		adjustment = &models.BalanceAdjustment{
			VendorID: vendor.ID,
			Amount:   models.NewMoneyFromDecimal(input.Amount),
			Reason:   reason,
			PayoutID: input.PayoutID,
			AdminID:  input.AdminID,
		}
		if err := payoutRepo.CreateAdjustment(adjustment); err != nil {
			return err
		}
		// 负数调整记录欠款，可提现余额可以因此为负，后续收益优先抵扣
		parts, err := s.loadBalance(payoutRepo, vendor.ID, earnings)
		if err != nil {
			return err
		}
		logger.Infow("vendor_balance_adjusted",
			"vendor_id", vendor.ID,
			"amount", adjustment.Amount.String(),
			"payout_id", input.PayoutID,
			"admin_id", input.AdminID,
			"withdrawable", parts.withdrawable().StringFixed(2),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return adjustment, nil
}

// ListAdjustments 商户余额调整记录
func (s *PayoutService) ListAdjustments(vendorID uint) ([]models.BalanceAdjustment, error) {
	return s.payoutRepo.ListAdjustments(vendorID)
}

// Get 提现单详情
func (s *PayoutService) Get(payoutID uint) (*models.Payout, error) {
	payout, err := s.payoutRepo.GetByID(payoutID)
	if err != nil {
		return nil, err
	}
	if payout == nil {
		return nil, ErrPayoutNotFound
	}
	return payout, nil
}

// GetForVendor 商户只能查看自己的提现单，不属于该商户时按不存在处理
func (s *PayoutService) GetForVendor(vendorID, payoutID uint) (*models.Payout, error) {
	payout, err := s.Get(payoutID)
	if err != nil {
		return nil, err
	}
	if payout.VendorID != vendorID {
		return nil, ErrPayoutNotFound
	}
	return payout, nil
}

// List 提现单列表
func (s *PayoutService) List(filter repository.PayoutListFilter) ([]models.Payout, int64, error) {
	if filter.Status != "" && !isValidPayoutStatus(filter.Status) {
		return nil, 0, ErrPayoutStatusInvalid
	}
	return s.payoutRepo.List(filter)
}

// ListEvents 提现单审计记录
func (s *PayoutService) ListEvents(payoutID uint) ([]models.PayoutEvent, error) {
	if _, err := s.Get(payoutID); err != nil {
		return nil, err
	}
	return s.payoutRepo.ListEvents(payoutID)
}

func (s *PayoutService) enqueueStatusEmail(payout *models.Payout) {
	if s.queueClient == nil || payout == nil {
		return
	}
	if err := s.queueClient.EnqueuePayoutStatusEmail(queue.PayoutStatusEmailPayload{
		PayoutID: payout.ID,
		Status:   payout.Status,
	}); err != nil {
		logger.Warnw("payout_enqueue_status_email_failed",
			"payout_id", payout.ID,
			"status", payout.Status,
			"error", err,
		)
	}
}

func generatePayoutReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("PO%s%s", time.Now().Format("20060102"), id[:16])
}
