package service

import (
	"context"
	"time"

	"github.com/vendora/internal/logger"
	"github.com/vendora/internal/models"
	"github.com/vendora/internal/repository"
)

// EarningsWindow 左闭右开的统计窗口，nil 表示不限制
type EarningsWindow struct {
	From *time.Time
	To   *time.Time
}

// EarningsService 商户收益查询
type EarningsService struct {
	vendorRepo   repository.VendorRepository
	categoryRepo repository.CategoryRepository
	orderRepo    repository.OrderRepository
	commission   *CommissionService
}

// NewEarningsService 创建收益服务
func NewEarningsService(
	vendorRepo repository.VendorRepository,
	categoryRepo repository.CategoryRepository,
	orderRepo repository.OrderRepository,
	commission *CommissionService,
) *EarningsService {
	return &EarningsService{
		vendorRepo:   vendorRepo,
		categoryRepo: categoryRepo,
		orderRepo:    orderRepo,
		commission:   commission,
	}
}

// GetSummary 汇总商户在窗口内的收益
func (s *EarningsService) GetSummary(ctx context.Context, vendorID uint, window EarningsWindow) (EarningsSummary, error) {
	if err := ctx.Err(); err != nil {
		return EarningsSummary{}, err
	}
	vendor, err := s.vendorRepo.GetByID(vendorID)
	if err != nil {
		return EarningsSummary{}, err
	}
	if vendor == nil {
		return EarningsSummary{}, ErrVendorNotFound
	}

	orders, err := s.orderRepo.ListAll(repository.OrderListFilter{
		VendorID:  vendorID,
		From:      window.From,
		To:        window.To,
		WithItems: true,
	})
	if err != nil {
		return EarningsSummary{}, err
	}
	return s.summarize(vendor, orders)
}

// CompletedNet 商户全部已签收订单的净收益（未舍入），用于计算可提现余额
func (s *EarningsService) CompletedNet(ctx context.Context, vendorID uint) (EarningsSummary, error) {
	return s.GetSummary(ctx, vendorID, EarningsWindow{})
}

func (s *EarningsService) summarize(vendor *models.Vendor, orders []models.Order) (EarningsSummary, error) {
	resolver, err := s.commission.Resolver()
	if err != nil {
		return EarningsSummary{}, err
	}

	categoryIDs := make([]uint, 0)
	seen := make(map[uint]struct{})
	for _, order := range orders {
		if !isKnownOrderStatus(order.Status) {
			logger.Warnw("earnings_order_status_unknown",
				"vendor_id", vendor.ID,
				"order_id", order.ID,
				"status", order.Status,
			)
		}
		id := DominantCategoryID(order)
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		categoryIDs = append(categoryIDs, id)
	}
	categories, err := s.categoryRepo.GetByIDs(categoryIDs)
	if err != nil {
		return EarningsSummary{}, err
	}

	resolve := func(categoryID uint) RateResolution {
		if category, ok := categories[categoryID]; ok {
			return resolver.ResolveRate(vendor, &category)
		}
		return resolver.ResolveRate(vendor, nil)
	}
	return ComputeEarnings(vendor.ID, orders, resolve, resolver.ResolveRate(vendor, nil)), nil
}
