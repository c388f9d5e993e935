package core

import "github.com/shopspring/decimal"

// PriceCatalog resolves a product name to its unit price. Injected into the
// order service so the price table can be swapped in tests or replaced with a
// database-backed catalog later.
type PriceCatalog interface {
	// PriceOf returns the unit price for productName. Unknown products get a
	// catalog-defined default rather than an error — order entry is free text.
	PriceOf(productName string) decimal.Decimal
}

// StaticCatalog is a fixed in-memory price table with a default rate for
// unknown products. Keys are case-sensitive product names.
type StaticCatalog struct {
	prices      map[string]decimal.Decimal
	defaultRate decimal.Decimal
}

// NewStaticCatalog builds a catalog from a name→price map and a default.
func NewStaticCatalog(prices map[string]decimal.Decimal, defaultRate decimal.Decimal) *StaticCatalog {
	cp := make(map[string]decimal.Decimal, len(prices))
	for name, rate := range prices {
		cp[name] = rate
	}
	return &StaticCatalog{prices: cp, defaultRate: defaultRate}
}

func (c *StaticCatalog) PriceOf(productName string) decimal.Decimal {
	if rate, ok := c.prices[productName]; ok {
		return rate
	}
	return c.defaultRate
}

// DefaultCatalog returns the farm's standing price list, in rupees.
func DefaultCatalog() *StaticCatalog {
	return NewStaticCatalog(map[string]decimal.Decimal{
		"Fresh Milk":          decimal.NewFromInt(25000),
		"Organic Butter":      decimal.NewFromInt(15000),
		"Farm Cheese":         decimal.NewFromInt(30000),
		"Yogurt":              decimal.NewFromInt(12000),
		"Heavy Cream":         decimal.NewFromInt(18000),
		"Cottage Cheese":      decimal.NewFromInt(20000),
		"Premium Dairy Feed":  decimal.NewFromInt(2500),
		"Milking Machine Pro": decimal.NewFromInt(45000),
		"Organic Cow Feed":    decimal.NewFromInt(1800),
		"Veterinary Kit":      decimal.NewFromInt(8500),
		"Milk Storage Tank":   decimal.NewFromInt(75000),
		"Dairy Products Mix":  decimal.NewFromInt(3200),
	}, decimal.NewFromInt(10000))
}
