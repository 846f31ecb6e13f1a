package service

import (
	"errors"

	"github.com/vendora/internal/logger"
	"github.com/vendora/internal/models"
	"github.com/vendora/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommissionService 佣金率配置与解析
type CommissionService struct {
	vendorRepo   repository.VendorRepository
	categoryRepo repository.CategoryRepository
	settings     *SettingService
	fallbackRate decimal.Decimal
}

// NewCommissionService 创建佣金服务，fallbackRate 为配置文件中的平台默认费率
func NewCommissionService(
	vendorRepo repository.VendorRepository,
	categoryRepo repository.CategoryRepository,
	settings *SettingService,
	fallbackRate decimal.Decimal,
) *CommissionService {
	return &CommissionService{
		vendorRepo:   vendorRepo,
		categoryRepo: categoryRepo,
		settings:     settings,
		fallbackRate: fallbackRate,
	}
}

// GetDefaultRate 当前平台默认费率（设置优先，其次配置）
func (s *CommissionService) GetDefaultRate() (decimal.Decimal, error) {
	rate, err := s.settings.GetCommissionDefaultRate(s.fallbackRate)
	if err != nil && !errors.Is(err, ErrRateInvalid) {
		return s.fallbackRate, err
	}
	if err != nil {
		logger.Warnw("commission_default_rate_setting_invalid", "fallback", s.fallbackRate.String())
	}
	return rate, nil
}

// UpdateDefaultRate 修改平台默认费率
func (s *CommissionService) UpdateDefaultRate(rate decimal.Decimal) error {
	if err := s.settings.UpdateCommissionDefaultRate(rate); err != nil {
		return err
	}
	logger.Infow("commission_default_rate_updated", "rate", rate.String())
	return nil
}

// Resolver 基于当前默认费率构建解析器
func (s *CommissionService) Resolver() (*CommissionResolver, error) {
	defaultRate, err := s.GetDefaultRate()
	if err != nil {
		return nil, err
	}
	return NewCommissionResolver(defaultRate)
}

// SetVendorRate 设置商户协议费率，0 表示零佣金
func (s *CommissionService) SetVendorRate(vendorID uint, rate decimal.Decimal) error {
	if !IsValidRate(rate) {
		return ErrRateInvalid
	}
	return s.updateVendorRate(vendorID, models.NewRate(rate))
}

// ClearVendorRate 清除商户协议费率，回落到分类/平台
func (s *CommissionService) ClearVendorRate(vendorID uint) error {
	return s.updateVendorRate(vendorID, models.NullRate())
}

func (s *CommissionService) updateVendorRate(vendorID uint, rate models.Rate) error {
	if err := s.vendorRepo.UpdateCommissionRate(vendorID, rate); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVendorNotFound
		}
		return err
	}
	logger.Infow("vendor_commission_rate_updated", "vendor_id", vendorID, "rate", rate.String())
	return nil
}

// SetCategoryRate 设置分类费率
func (s *CommissionService) SetCategoryRate(categoryID uint, rate decimal.Decimal) error {
	if !IsValidRate(rate) {
		return ErrRateInvalid
	}
	return s.updateCategoryRate(categoryID, models.NewRate(rate))
}

// ClearCategoryRate 清除分类费率
func (s *CommissionService) ClearCategoryRate(categoryID uint) error {
	return s.updateCategoryRate(categoryID, models.NullRate())
}

func (s *CommissionService) updateCategoryRate(categoryID uint, rate models.Rate) error {
	if err := s.categoryRepo.UpdateCommissionRate(categoryID, rate); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	logger.Infow("category_commission_rate_updated", "category_id", categoryID, "rate", rate.String())
	return nil
}

// PreviewRate 查看某商户在某分类下会使用的费率，categoryID 为 0 表示不指定分类
func (s *CommissionService) PreviewRate(vendorID, categoryID uint) (RateResolution, error) {
	vendor, err := s.vendorRepo.GetByID(vendorID)
	if err != nil {
		return RateResolution{}, err
	}
	if vendor == nil {
		return RateResolution{}, ErrVendorNotFound
	}
	var category *models.Category
	if categoryID != 0 {
		category, err = s.categoryRepo.GetByID(categoryID)
		if err != nil {
			return RateResolution{}, err
		}
		if category == nil {
			return RateResolution{}, ErrCategoryNotFound
		}
	}
	resolver, err := s.Resolver()
	if err != nil {
		return RateResolution{}, err
	}
	return resolver.ResolveRate(vendor, category), nil
}

// ResolveOrderRate 按订单主分类解析当前费率，分类已删除时按无分类处理
func (s *CommissionService) ResolveOrderRate(order models.Order) (RateResolution, error) {
	vendor, err := s.vendorRepo.GetByID(order.VendorID)
	if err != nil {
		return RateResolution{}, err
	}
	if vendor == nil {
		return RateResolution{}, ErrVendorNotFound
	}
	var category *models.Category
	if categoryID := DominantCategoryID(order); categoryID != 0 {
		category, err = s.categoryRepo.GetByID(categoryID)
		if err != nil {
			return RateResolution{}, err
		}
	}
	resolver, err := s.Resolver()
	if err != nil {
		return RateResolution{}, err
	}
	return resolver.ResolveRate(vendor, category), nil
}
