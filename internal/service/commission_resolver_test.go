package service

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/vendora/internal/models"

	"github.com/shopspring/decimal"
)

func TestResolveRatePrecedence(t *testing.T) {
	resolver, err := NewCommissionResolver(dec("0.08"))
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	tests := []struct {
		name       string
		vendor     *models.Vendor
		category   *models.Category
		wantRate   string
		wantSource CommissionSource
	}{
		{"vendor wins over category", &models.Vendor{CommissionRate: rateOf("0.03")}, &models.Category{CommissionRate: rateOf("0.10")}, "0.03", CommissionSourceVendor},
		{"zero vendor rate is an override", &models.Vendor{CommissionRate: rateOf("0")}, &models.Category{CommissionRate: rateOf("0.10")}, "0", CommissionSourceVendor},
		{"category when vendor unset", &models.Vendor{}, &models.Category{CommissionRate: rateOf("0.05")}, "0.05", CommissionSourceCategory},
		{"zero category rate is an override", &models.Vendor{}, &models.Category{CommissionRate: rateOf("0")}, "0", CommissionSourceCategory},
		{"default when both unset", &models.Vendor{}, &models.Category{}, "0.08", CommissionSourceDefault},
		{"default without category", &models.Vendor{}, nil, "0.08", CommissionSourceDefault},
		{"default without inputs", nil, nil, "0.08", CommissionSourceDefault},
		{"out of range vendor rate ignored", &models.Vendor{CommissionRate: rateOf("1.5")}, nil, "0.08", CommissionSourceDefault},
	}
	for _, tt := range tests {
		got := resolver.ResolveRate(tt.vendor, tt.category)
		if !got.Rate.Equal(dec(tt.wantRate)) || got.Source != tt.wantSource {
			t.Fatalf("%s: want %s/%s, got %s/%s", tt.name, tt.wantRate, tt.wantSource, got.Rate, got.Source)
		}
	}
}

func TestNewCommissionResolverRejectsInvalidDefault(t *testing.T) {
	for _, raw := range []string{"-0.01", "1.01"} {
		if _, err := NewCommissionResolver(dec(raw)); !errors.Is(err, ErrRateResolutionAmbiguous) {
			t.Fatalf("default %s: expected ErrRateResolutionAmbiguous, got %v", raw, err)
		}
	}
	if _, err := NewCommissionResolver(decimal.Zero); err != nil {
		t.Fatalf("zero default must be accepted: %v", err)
	}
}

func TestCommissionSourceJSON(t *testing.T) {
	body, err := json.Marshal(RateResolution{Rate: dec("0.05"), Source: CommissionSourceCategory})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(body) != `{"rate":"0.05","source":"category"}` {
		t.Fatalf("unexpected json: %s", body)
	}

	var source CommissionSource
	if err := json.Unmarshal([]byte(`"vendor"`), &source); err != nil || source != CommissionSourceVendor {
		t.Fatalf("unmarshal vendor: %v %v", source, err)
	}
	if err := json.Unmarshal([]byte(`"mixed"`), &source); err == nil {
		t.Fatalf("unknown source must be rejected")
	}
	if _, err := json.Marshal(CommissionSource(0)); err == nil {
		t.Fatalf("zero source must not marshal")
	}
}

func TestRateFromPercent(t *testing.T) {
	rate, err := RateFromPercent("8.5")
	if err != nil || !rate.Equal(dec("0.085")) {
		t.Fatalf("unexpected rate %s err %v", rate, err)
	}
	if rate, err := RateFromPercent("0"); err != nil || !rate.IsZero() {
		t.Fatalf("zero percent must be valid: %s %v", rate, err)
	}
	for _, raw := range []string{"101", "-1", "abc"} {
		if _, err := RateFromPercent(raw); !errors.Is(err, ErrRateInvalid) {
			t.Fatalf("%s: expected ErrRateInvalid, got %v", raw, err)
		}
	}
}
