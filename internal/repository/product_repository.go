package repository

import (
	"errors"

	"github.com/vendora/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	UpdateStock(id uint, stock int) error
	ListLowStock(filter ProductLowStockFilter) ([]models.Product, error)
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// GetByID 按 ID 查询
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, nil
	}
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// UpdateStock 覆盖库存
func (r *GormProductRepository) UpdateStock(id uint, stock int) error {
	return r.db.Model(&models.Product{}).Where("id = ?", id).Update("stock", stock).Error
}

// ListLowStock 查询库存不高于阈值的上架商品，商品阈值为空时使用默认阈值
func (r *GormProductRepository) ListLowStock(filter ProductLowStockFilter) ([]models.Product, error) {
	query := r.db.Model(&models.Product{}).
		Where("is_active = ?", true).
		Where("stock <= COALESCE(low_stock_threshold, ?)", filter.DefaultThreshold)
	if filter.VendorID != 0 {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	products := make([]models.Product, 0)
	if err := query.Order("vendor_id asc, id asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
