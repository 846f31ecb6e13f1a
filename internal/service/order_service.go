package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/vendora/internal/constants"
	"github.com/vendora/internal/logger"
	"github.com/vendora/internal/models"
	"github.com/vendora/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderRateResolver 解析订单当前适用的佣金率
type OrderRateResolver interface {
	ResolveOrderRate(order models.Order) (RateResolution, error)
}

// OrderService 订单服务
// 订单由上游下单系统写入，这里只负责状态流转与金额调整
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	rates       OrderRateResolver
}

// NewOrderService 创建订单服务，签收时通过 rates 锁定佣金率
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, rates OrderRateResolver) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		rates:       rates,
	}
}

// CreateOrderItem 下单项
type CreateOrderItem struct {
	ProductID uint
	Quantity  int
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	VendorID uint
	BuyerID  uint
	Items    []CreateOrderItem
}

// CreateOrder 按商品当前价格与分类生成订单，订单项保存分类快照
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.VendorID == 0 || len(input.Items) == 0 {
		return nil, ErrOrderItemsInvalid
	}

	order := &models.Order{
		OrderNo:  generateOrderNo(),
		VendorID: input.VendorID,
		BuyerID:  input.BuyerID,
		Status:   constants.OrderStatusPending,
		Items:    make([]models.OrderItem, 0, len(input.Items)),
	}
	total := decimal.Zero
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, ErrOrderItemsInvalid
		}
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.VendorID != input.VendorID || !product.IsActive {
			return nil, ErrProductNotFound
		}
		lineTotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		order.Items = append(order.Items, models.OrderItem{
			ProductID:  product.ID,
			CategoryID: product.CategoryID,
			Quantity:   item.Quantity,
			UnitPrice:  product.Price,
			LineTotal:  models.NewMoneyFromDecimal(lineTotal),
		})
		total = total.Add(lineTotal)
	}
	order.Total = models.NewMoneyFromDecimal(total)
	primary := DominantCategoryID(*order)
	if primary != 0 {
		order.PrimaryCategoryID = &primary
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"vendor_id", order.VendorID,
		"total", order.Total.String(),
	)
	return order, nil
}

// UpdateStatus 按状态流转表更新订单状态
func (s *OrderService) UpdateStatus(orderID uint, targetStatus string) (*models.Order, error) {
	target := strings.TrimSpace(targetStatus)
	if !isKnownOrderStatus(target) {
		return nil, ErrOrderStatusInvalid
	}

	// 签收即结算：在事务外解析费率，事务内写入快照
	var locked *RateResolution
	if target == constants.OrderStatusDelivered && s.rates != nil {
		current, err := s.orderRepo.GetByID(orderID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrOrderNotFound
		}
		if current.Status != constants.OrderStatusDelivered {
			resolution, err := s.rates.ResolveOrderRate(*current)
			if err != nil {
				return nil, err
			}
			locked = &resolution
		}
	}

	var updated *models.Order
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status == target {
			updated = order
			return nil
		}
		if !canTransitionOrderStatus(order.Status, target) {
			return fmt.Errorf("%w: %s -> %s", ErrOrderStatusInvalid, order.Status, target)
		}

		now := time.Now()
		from := order.Status
		order.Status = target
		switch target {
		case constants.OrderStatusDelivered:
			order.DeliveredAt = &now
			if locked != nil {
				order.CommissionRate = models.NewRate(locked.Rate)
				order.CommissionSource = locked.Source.String()
			}
		case constants.OrderStatusCancelled:
			order.CancelledAt = &now
		}
		if err := orderRepo.Update(order); err != nil {
			return err
		}
		logger.Infow("order_status_changed",
			"order_id", order.ID,
			"vendor_id", order.VendorID,
			"from", from,
			"to", target,
			"commission_rate", order.CommissionRate.String(),
		)
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AdjustTotal 调整订单金额；已签收订单金额不可变，已取消订单允许调整
func (s *OrderService) AdjustTotal(orderID uint, total decimal.Decimal) (*models.Order, error) {
	if total.IsNegative() {
		return nil, ErrOrderTotalInvalid
	}

	var updated *models.Order
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status == constants.OrderStatusDelivered {
			return ErrOrderTotalLocked
		}
		previous := order.Total
		order.Total = models.NewMoneyFromDecimal(total)
		if err := orderRepo.Update(order); err != nil {
			return err
		}
		logger.Infow("order_total_adjusted",
			"order_id", order.ID,
			"status", order.Status,
			"from", previous.String(),
			"to", order.Total.String(),
		)
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetOrder 订单详情（含订单项）
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("VO%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
