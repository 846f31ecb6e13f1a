package service

import (
	"errors"
	"testing"
)

func TestCommissionServiceVendorRateLifecycle(t *testing.T) {
	env := setupServiceTest(t)
	vendor := env.createVendor(t, "lifecycle", "")
	category := env.createCategory(t, "crafts", "0.06")

	preview, err := env.commission.PreviewRate(vendor.ID, category.ID)
	if err != nil || preview.Source != CommissionSourceCategory {
		t.Fatalf("expected category preview, got %+v %v", preview, err)
	}

	if err := env.commission.SetVendorRate(vendor.ID, dec("0")); err != nil {
		t.Fatalf("set zero vendor rate: %v", err)
	}
	preview, err = env.commission.PreviewRate(vendor.ID, category.ID)
	if err != nil || preview.Source != CommissionSourceVendor || !preview.Rate.IsZero() {
		t.Fatalf("expected zero vendor preview, got %+v %v", preview, err)
	}

	if err := env.commission.ClearVendorRate(vendor.ID); err != nil {
		t.Fatalf("clear vendor rate: %v", err)
	}
	if err := env.commission.ClearCategoryRate(category.ID); err != nil {
		t.Fatalf("clear category rate: %v", err)
	}
	preview, err = env.commission.PreviewRate(vendor.ID, category.ID)
	if err != nil || preview.Source != CommissionSourceDefault || !preview.Rate.Equal(dec("0.08")) {
		t.Fatalf("expected default preview, got %+v %v", preview, err)
	}
}

func TestCommissionServiceValidation(t *testing.T) {
	env := setupServiceTest(t)
	vendor := env.createVendor(t, "validation", "")

	if err := env.commission.SetVendorRate(vendor.ID, dec("1.2")); !errors.Is(err, ErrRateInvalid) {
		t.Fatalf("expected ErrRateInvalid, got %v", err)
	}
	if err := env.commission.SetVendorRate(4242, dec("0.1")); !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got %v", err)
	}
	if err := env.commission.SetCategoryRate(4242, dec("0.1")); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if err := env.commission.UpdateDefaultRate(dec("-0.1")); !errors.Is(err, ErrRateInvalid) {
		t.Fatalf("expected ErrRateInvalid for default, got %v", err)
	}
	if _, err := env.commission.PreviewRate(vendor.ID, 4242); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound on preview, got %v", err)
	}
}

func TestCommissionServiceDefaultRateFallback(t *testing.T) {
	env := setupServiceTest(t)
	rate, err := env.commission.GetDefaultRate()
	if err != nil || !rate.Equal(dec("0.08")) {
		t.Fatalf("expected config fallback, got %s %v", rate, err)
	}

	if _, err := env.settings.Update("commission_config", map[string]interface{}{"default_rate": "7"}); err != nil {
		t.Fatalf("write invalid setting: %v", err)
	}
	rate, err = env.commission.GetDefaultRate()
	if err != nil || !rate.Equal(dec("0.08")) {
		t.Fatalf("invalid stored default must fall back, got %s %v", rate, err)
	}
}
