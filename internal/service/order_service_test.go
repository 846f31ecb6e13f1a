package service

import (
	"errors"
	"testing"

	"github.com/vendora/internal/constants"
	"github.com/vendora/internal/models"
)

func TestOrderServiceCreateOrderSnapshotsCategory(t *testing.T) {
	env := setupServiceTest(t)
	vendor := env.createVendor(t, "shop", "")
	fabrics := env.createCategory(t, "fabrics", "0.05")
	beads := env.createCategory(t, "beads", "0.12")
	cloth := &models.Product{VendorID: vendor.ID, CategoryID: fabrics.ID, Name: "Kente", Price: models.MustMoney("120"), Stock: 10, IsActive: true}
	bead := &models.Product{VendorID: vendor.ID, CategoryID: beads.ID, Name: "Bead set", Price: models.MustMoney("15.5"), Stock: 10, IsActive: true}
	for _, p := range []*models.Product{cloth, bead} {
		if err := env.productRepo.Create(p); err != nil {
			t.Fatalf("create product: %v", err)
		}
	}

	order, err := env.orders.CreateOrder(CreateOrderInput{
		VendorID: vendor.ID,
		BuyerID:  3,
		Items: []CreateOrderItem{
			{ProductID: bead.ID, Quantity: 4},
			{ProductID: cloth.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Total.String() != "182.00" {
		t.Fatalf("unexpected total %s", order.Total)
	}
	if order.PrimaryCategoryID == nil || *order.PrimaryCategoryID != fabrics.ID {
		t.Fatalf("expected fabrics as primary category, got %v", order.PrimaryCategoryID)
	}

	other := env.createVendor(t, "other", "")
	if _, err := env.orders.CreateOrder(CreateOrderInput{
		VendorID: other.ID,
		Items:    []CreateOrderItem{{ProductID: cloth.ID, Quantity: 1}},
	}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("foreign product must be rejected, got %v", err)
	}
}

func TestOrderServiceUpdateStatusTransitions(t *testing.T) {
	env := setupServiceTest(t)
	vendor := env.createVendor(t, "status", "")
	order := env.createOrder(t, vendor.ID, 0, constants.OrderStatusPending, "50")

	if _, err := env.orders.UpdateStatus(order.ID, constants.OrderStatusShipped); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("skipping states must fail, got %v", err)
	}
	for _, status := range []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
	} {
		if _, err := env.orders.UpdateStatus(order.ID, status); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
	}
	delivered, err := env.orders.GetOrder(order.ID)
	if err != nil || delivered.DeliveredAt == nil {
		t.Fatalf("delivered_at not stamped: %+v %v", delivered, err)
	}
	if _, err := env.orders.UpdateStatus(order.ID, constants.OrderStatusCancelled); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("delivered order must be terminal, got %v", err)
	}
	if _, err := env.orders.UpdateStatus(order.ID, "refunded"); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("unknown status must fail, got %v", err)
	}
}

func TestOrderServiceAdjustTotal(t *testing.T) {
	env := setupServiceTest(t)
	vendor := env.createVendor(t, "adjust", "")
	delivered := env.createOrder(t, vendor.ID, 0, constants.OrderStatusDelivered, "80")
	cancelled := env.createOrder(t, vendor.ID, 0, constants.OrderStatusCancelled, "80")

	if _, err := env.orders.AdjustTotal(delivered.ID, dec("60")); !errors.Is(err, ErrOrderTotalLocked) {
		t.Fatalf("expected ErrOrderTotalLocked, got %v", err)
	}
	updated, err := env.orders.AdjustTotal(cancelled.ID, dec("20.456"))
	if err != nil {
		t.Fatalf("cancelled order adjustment: %v", err)
	}
	if updated.Total.String() != "20.46" {
		t.Fatalf("unexpected adjusted total %s", updated.Total)
	}
	if _, err := env.orders.AdjustTotal(cancelled.ID, dec("-1")); !errors.Is(err, ErrOrderTotalInvalid) {
		t.Fatalf("expected ErrOrderTotalInvalid, got %v", err)
	}
	if _, err := env.orders.AdjustTotal(9999, dec("1")); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderServiceDeliveryLocksCommissionRate(t *testing.T) {
	env := setupServiceTest(t)
	vendor := env.createVendor(t, "locked", "")
	fabrics := env.createCategory(t, "fabrics", "0.05")
	order := env.createOrder(t, vendor.ID, fabrics.ID, constants.OrderStatusShipped, "200")

	delivered, err := env.orders.UpdateStatus(order.ID, constants.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if delivered.CommissionRate.String() != "0.05" || delivered.CommissionSource != "category" {
		t.Fatalf("delivery must lock the category rate, got %s/%s", delivered.CommissionRate, delivered.CommissionSource)
	}

	if err := env.commission.SetCategoryRate(fabrics.ID, dec("0.3")); err != nil {
		t.Fatalf("set category rate: %v", err)
	}
	stored, err := env.orders.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if !stored.CommissionRate.Decimal.Equal(dec("0.05")) {
		t.Fatalf("stored rate changed: %s", stored.CommissionRate)
	}
}

func TestOrderRejectsUnknownStatusOnSave(t *testing.T) {
	env := setupServiceTest(t)
	vendor := env.createVendor(t, "corrupt", "")
	order := &models.Order{OrderNo: "VO-BAD", VendorID: vendor.ID, BuyerID: 1, Status: "lost", Total: models.MustMoney("10")}
	if err := env.orderRepo.Create(order); !errors.Is(err, models.ErrUnknownOrderStatus) {
		t.Fatalf("expected ErrUnknownOrderStatus, got %v", err)
	}
}
