package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/vendora/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VendorRepository 商户数据访问接口
type VendorRepository interface {
	WithTx(tx *gorm.DB) VendorRepository

	GetByID(id uint) (*models.Vendor, error)
	GetByIDForUpdate(id uint) (*models.Vendor, error)
	GetByEmail(email string) (*models.Vendor, error)
	List(filter VendorListFilter) ([]models.Vendor, int64, error)
	ListActiveIDs() ([]uint, error)
	Create(vendor *models.Vendor) error
	TouchLastLogin(id uint, at time.Time) error
	UpdatePassword(id uint, passwordHash string) error
	UpdateCommissionRate(id uint, rate models.Rate) error
}

// GormVendorRepository GORM 实现
type GormVendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository 创建商户仓库
func NewVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVendorRepository) WithTx(tx *gorm.DB) VendorRepository {
	if tx == nil {
		return r
	}
	return &GormVendorRepository{db: tx}
}

// GetByID 按 ID 查询
func (r *GormVendorRepository) GetByID(id uint) (*models.Vendor, error) {
	return r.first(r.db, id)
}

// GetByIDForUpdate 按 ID 查询并加行锁，用于串行化同一商户的余额占用
func (r *GormVendorRepository) GetByIDForUpdate(id uint) (*models.Vendor, error) {
	return r.first(r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormVendorRepository) first(query *gorm.DB, id uint) (*models.Vendor, error) {
	if id == 0 {
		return nil, nil
	}
	var vendor models.Vendor
	if err := query.First(&vendor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// GetByEmail 按登录邮箱查询
func (r *GormVendorRepository) GetByEmail(email string) (*models.Vendor, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, nil
	}
	var vendor models.Vendor
	if err := r.db.Where("email = ?", normalized).First(&vendor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}

// List 商户列表
func (r *GormVendorRepository) List(filter VendorListFilter) ([]models.Vendor, int64, error) {
	query := r.db.Model(&models.Vendor{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if condition, args := keywordCondition(r.db, filter.Keyword, "name", "email", "slug"); condition != "" {
		query = query.Where(condition, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	vendors := make([]models.Vendor, 0)
	if err := query.Order("id desc").Find(&vendors).Error; err != nil {
		return nil, 0, err
	}
	return vendors, total, nil
}

// ListActiveIDs 所有启用商户 ID
func (r *GormVendorRepository) ListActiveIDs() ([]uint, error) {
	ids := make([]uint, 0)
	err := r.db.Model(&models.Vendor{}).
		Where("status = ?", "active").
		Order("id asc").
		Pluck("id", &ids).Error
	return ids, err
}

// Create 创建商户
func (r *GormVendorRepository) Create(vendor *models.Vendor) error {
	return r.db.Create(vendor).Error
}

// TouchLastLogin 只更新登录时间，不覆盖并发修改的佣金率等字段
func (r *GormVendorRepository) TouchLastLogin(id uint, at time.Time) error {
	return r.db.Model(&models.Vendor{}).Where("id = ?", id).UpdateColumn("last_login_at", at).Error
}

// UpdatePassword 更新密码哈希并递增 token_version，旧 token 全部失效
func (r *GormVendorRepository) UpdatePassword(id uint, passwordHash string) error {
	result := r.db.Model(&models.Vendor{}).Where("id = ?", id).UpdateColumns(map[string]interface{}{
		"password_hash": passwordHash,
		"token_version": gorm.Expr("token_version + ?", 1),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateCommissionRate 设置或清除协议佣金率（rate 未设置时写 NULL）
func (r *GormVendorRepository) UpdateCommissionRate(id uint, rate models.Rate) error {
	result := r.db.Model(&models.Vendor{}).Where("id = ?", id).Update("commission_rate", rate)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
