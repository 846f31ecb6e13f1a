package repository

import (
	"errors"

	"github.com/vendora/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository 分类数据访问接口
type CategoryRepository interface {
	GetByID(id uint) (*models.Category, error)
	GetByIDs(ids []uint) (map[uint]models.Category, error)
	List() ([]models.Category, error)
	Create(category *models.Category) error
	UpdateCommissionRate(id uint, rate models.Rate) error
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// GetByID 按 ID 查询
func (r *GormCategoryRepository) GetByID(id uint) (*models.Category, error) {
	if id == 0 {
		return nil, nil
	}
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// GetByIDs 批量查询，返回 id -> 分类
func (r *GormCategoryRepository) GetByIDs(ids []uint) (map[uint]models.Category, error) {
	result := make(map[uint]models.Category, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []models.Category
	if err := r.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ID] = row
	}
	return result, nil
}

// List 分类列表
func (r *GormCategoryRepository) List() ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := r.db.Order("sort_order desc, id asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Create 创建分类
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// UpdateCommissionRate 设置或清除分类佣金率
func (r *GormCategoryRepository) UpdateCommissionRate(id uint, rate models.Rate) error {
	result := r.db.Model(&models.Category{}).Where("id = ?", id).Update("commission_rate", rate)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
