package repository

import (
	"errors"
	"strings"

	"github.com/vendora/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PayoutRepository 提现与余额流水数据访问接口
// 提现单只允许创建与更新，不提供删除
type PayoutRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) PayoutRepository

	Create(payout *models.Payout) error
	Update(payout *models.Payout) error
	GetByID(id uint) (*models.Payout, error)
	GetByIDForUpdate(id uint) (*models.Payout, error)
	GetByReference(reference string) (*models.Payout, error)
	List(filter PayoutListFilter) ([]models.Payout, int64, error)
	SumAmountByStatuses(vendorID uint, statuses []string) (decimal.Decimal, error)

	CreateEvent(event *models.PayoutEvent) error
	ListEvents(payoutID uint) ([]models.PayoutEvent, error)

	CreateAdjustment(adjustment *models.BalanceAdjustment) error
	ListAdjustments(vendorID uint) ([]models.BalanceAdjustment, error)
	SumAdjustments(vendorID uint) (decimal.Decimal, error)
}

// GormPayoutRepository GORM 实现
type GormPayoutRepository struct {
	db *gorm.DB
}

// NewPayoutRepository 创建提现仓库
func NewPayoutRepository(db *gorm.DB) *GormPayoutRepository {
	return &GormPayoutRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPayoutRepository) WithTx(tx *gorm.DB) PayoutRepository {
	if tx == nil {
		return r
	}
	return &GormPayoutRepository{db: tx}
}

// Transaction 执行事务
func (r *GormPayoutRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建提现单
func (r *GormPayoutRepository) Create(payout *models.Payout) error {
	return r.db.Create(payout).Error
}

// Update 保存提现单
func (r *GormPayoutRepository) Update(payout *models.Payout) error {
	return r.db.Save(payout).Error
}

// GetByID 按 ID 查询
func (r *GormPayoutRepository) GetByID(id uint) (*models.Payout, error) {
	return r.first(r.db.Where("id = ?", id), id != 0)
}

// GetByIDForUpdate 按 ID 查询并加行锁
func (r *GormPayoutRepository) GetByIDForUpdate(id uint) (*models.Payout, error) {
	return r.first(r.db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id), id != 0)
}

// GetByReference 按对外单号查询
func (r *GormPayoutRepository) GetByReference(reference string) (*models.Payout, error) {
	reference = strings.TrimSpace(reference)
	return r.first(r.db.Where("reference = ?", reference), reference != "")
}

func (r *GormPayoutRepository) first(query *gorm.DB, ok bool) (*models.Payout, error) {
	if !ok {
		return nil, nil
	}
	var payout models.Payout
	if err := query.First(&payout).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

// List 分页查询提现单
func (r *GormPayoutRepository) List(filter PayoutListFilter) ([]models.Payout, int64, error) {
	query := r.db.Model(&models.Payout{})
	if filter.VendorID != 0 {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if reference := strings.TrimSpace(filter.Reference); reference != "" {
		query = query.Where("reference = ?", reference)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	payouts := make([]models.Payout, 0)
	if err := query.Order("id desc").Find(&payouts).Error; err != nil {
		return nil, 0, err
	}
	return payouts, total, nil
}

// SumAmountByStatuses 汇总商户指定状态提现单的申请金额
// 在内存中用 decimal 累加，避免 SQLite SUM 走浮点
func (r *GormPayoutRepository) SumAmountByStatuses(vendorID uint, statuses []string) (decimal.Decimal, error) {
	if vendorID == 0 || len(statuses) == 0 {
		return decimal.Zero, nil
	}
	var amounts []models.Money
	err := r.db.Model(&models.Payout{}).
		Where("vendor_id = ? AND status IN ?", vendorID, statuses).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, err
	}
	return sumMoney(amounts), nil
}

// CreateEvent 追加状态变更审计
func (r *GormPayoutRepository) CreateEvent(event *models.PayoutEvent) error {
	return r.db.Create(event).Error
}

// ListEvents 按时间顺序返回提现单的审计记录
func (r *GormPayoutRepository) ListEvents(payoutID uint) ([]models.PayoutEvent, error) {
	events := make([]models.PayoutEvent, 0)
	if payoutID == 0 {
		return events, nil
	}
	if err := r.db.Where("payout_id = ?", payoutID).Order("id asc").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// CreateAdjustment 写入余额调整
func (r *GormPayoutRepository) CreateAdjustment(adjustment *models.BalanceAdjustment) error {
	return r.db.Create(adjustment).Error
}

// ListAdjustments 商户余额调整记录
func (r *GormPayoutRepository) ListAdjustments(vendorID uint) ([]models.BalanceAdjustment, error) {
	rows := make([]models.BalanceAdjustment, 0)
	if vendorID == 0 {
		return rows, nil
	}
	if err := r.db.Where("vendor_id = ?", vendorID).Order("id desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SumAdjustments 商户余额调整合计（带符号）
func (r *GormPayoutRepository) SumAdjustments(vendorID uint) (decimal.Decimal, error) {
	if vendorID == 0 {
		return decimal.Zero, nil
	}
	var amounts []models.Money
	err := r.db.Model(&models.BalanceAdjustment{}).
		Where("vendor_id = ?", vendorID).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, err
	}
	return sumMoney(amounts), nil
}

func sumMoney(values []models.Money) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v.Decimal)
	}
	return total
}
