package core_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"dairyfarm/internal/core"
)

func TestDefaultCatalog_PriceOf(t *testing.T) {
	catalog := core.DefaultCatalog()

	tests := []struct {
		product string
		want    int64
	}{
		{"Fresh Milk", 25000},
		{"Organic Butter", 15000},
		{"Farm Cheese", 30000},
		{"Yogurt", 12000},
		{"Milk Storage Tank", 75000},
		{"Organic Cow Feed", 1800},
	}
	for _, tc := range tests {
		t.Run(tc.product, func(t *testing.T) {
			got := catalog.PriceOf(tc.product)
			if !got.Equal(decimal.NewFromInt(tc.want)) {
				t.Errorf("PriceOf(%q) = %s, want %d", tc.product, got, tc.want)
			}
		})
	}
}

func TestDefaultCatalog_UnknownProductGetsDefault(t *testing.T) {
	catalog := core.DefaultCatalog()

	for _, product := range []string{"Goat Milk", "fresh milk", ""} {
		got := catalog.PriceOf(product)
		if !got.Equal(decimal.NewFromInt(10000)) {
			t.Errorf("PriceOf(%q) = %s, want default 10000", product, got)
		}
	}
}

func TestNewStaticCatalog_CopiesInput(t *testing.T) {
	prices := map[string]decimal.Decimal{"Hay": decimal.NewFromInt(500)}
	catalog := core.NewStaticCatalog(prices, decimal.NewFromInt(1))

	prices["Hay"] = decimal.NewFromInt(999)

	if got := catalog.PriceOf("Hay"); !got.Equal(decimal.NewFromInt(500)) {
		t.Errorf("PriceOf(Hay) = %s after caller mutated the map, want 500", got)
	}
}
