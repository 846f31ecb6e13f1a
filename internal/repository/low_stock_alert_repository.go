package repository

import (
	"errors"
	"time"

	"github.com/vendora/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LowStockAlertRepository 低库存告警记录访问接口
type LowStockAlertRepository interface {
	Get(vendorID, productID uint) (*models.LowStockAlert, error)
	Touch(vendorID, productID uint, alertedAt time.Time) error
}

// GormLowStockAlertRepository GORM 实现
type GormLowStockAlertRepository struct {
	db *gorm.DB
}

// NewLowStockAlertRepository 创建告警记录仓库
func NewLowStockAlertRepository(db *gorm.DB) *GormLowStockAlertRepository {
	return &GormLowStockAlertRepository{db: db}
}

// Get 查询 (商户, 商品) 的告警记录
func (r *GormLowStockAlertRepository) Get(vendorID, productID uint) (*models.LowStockAlert, error) {
	var row models.LowStockAlert
	err := r.db.Where("vendor_id = ? AND product_id = ?", vendorID, productID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Touch 写入最近一次告警时间，并累加次数
func (r *GormLowStockAlertRepository) Touch(vendorID, productID uint, alertedAt time.Time) error {
	row := models.LowStockAlert{
		VendorID:      vendorID,
		ProductID:     productID,
		LastAlertedAt: alertedAt,
		AlertCount:    1,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "vendor_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_alerted_at": alertedAt,
			"alert_count":     gorm.Expr("alert_count + 1"),
			"updated_at":      time.Now(),
		}),
	}).Create(&row).Error
}
