package catalog_test

import (
	"testing"

	"asicshop/internal/catalog"
	"asicshop/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func fixtures() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Antminer L9", Brand: "Bitmain", Algorithm: "Scrypt", Hashrate: "17 GH/s", Price: "2549.00", InStock: true},
		{ID: 2, Name: "Antminer S19 Pro", Brand: "Bitmain", Algorithm: "SHA-256", Hashrate: "110 TH/s", Price: "3299.00", InStock: true},
		{ID: 3, Name: "WhatsMiner M50", Brand: "MicroBT", Algorithm: "SHA-256", Hashrate: "118 TH/s", Price: "3499.00", InStock: false},
		{ID: 4, Name: "Avalon A1246", Brand: "Canaan", Algorithm: "SHA-256", Hashrate: "90 TH/s", Price: "2899.00", InStock: true},
		{ID: 5, Name: "Antminer T19", Brand: "Bitmain", Algorithm: "SHA-256", Hashrate: "84 TH/s", Price: "2399.00", InStock: true},
	}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func ids(products []models.Product) []uint {
	out := make([]uint, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter_PriceRangeInclusive(t *testing.T) {
	products := fixtures()
	f := catalog.Filter{PriceMin: dec("2549"), PriceMax: dec("3299.00")}

	got := catalog.Apply(products, f)
	assert.Equal(t, []uint{1, 2, 4}, ids(got))

	for _, p := range products {
		price := p.PriceDecimal()
		inRange := !price.LessThan(*f.PriceMin) && !price.GreaterThan(*f.PriceMax)
		assert.Equal(t, inRange, f.Match(p), "product %d", p.ID)
	}
}

func TestFilter_ZeroPriceMinIsAConstraint(t *testing.T) {
	products := append(fixtures(), models.Product{ID: 9, Price: "-1"})
	got := catalog.Apply(products, catalog.Filter{PriceMin: dec("0")})
	assert.NotContains(t, ids(got), uint(9))
}

func TestFilter_BrandAlgorithmStock(t *testing.T) {
	products := fixtures()
	inStock := true

	got := catalog.Apply(products, catalog.Filter{Brands: []string{"Bitmain"}, Algorithms: []string{"SHA-256"}, InStock: &inStock})
	assert.Equal(t, []uint{2, 5}, ids(got))

	got = catalog.Apply(products, catalog.Filter{Brands: []string{"Canaan", "MicroBT"}})
	assert.Equal(t, []uint{3, 4}, ids(got))

	// exact match only
	got = catalog.Apply(products, catalog.Filter{Brands: []string{"bitmain"}})
	assert.Empty(t, got)

	outOfStock := false
	got = catalog.Apply(products, catalog.Filter{InStock: &outOfStock})
	assert.Equal(t, []uint{3}, ids(got))
}

func TestFilter_Empty(t *testing.T) {
	assert.True(t, catalog.Filter{}.Empty())
	assert.False(t, catalog.Filter{Hashrate: catalog.BucketHigh}.Empty())
	assert.Len(t, catalog.Apply(fixtures(), catalog.Filter{}), 5)
}

func TestFilter_HashrateBucket(t *testing.T) {
	products := fixtures()
	assert.Equal(t, []uint{1}, ids(catalog.Apply(products, catalog.Filter{Hashrate: catalog.ParseBucket("low")})))
	assert.Equal(t, []uint{4, 5}, ids(catalog.Apply(products, catalog.Filter{Hashrate: catalog.BucketMedium})))
	assert.Equal(t, []uint{2, 3}, ids(catalog.Apply(products, catalog.Filter{Hashrate: catalog.BucketHigh})))
	assert.Equal(t, catalog.BucketAny, catalog.ParseBucket("all"))
}

func TestSearch(t *testing.T) {
	products := fixtures()
	assert.Equal(t, []uint{1}, ids(catalog.Search(products, "scRYPT")))
	assert.Equal(t, []uint{3}, ids(catalog.Search(products, "microbt")))
	assert.Equal(t, []uint{1, 2, 5}, ids(catalog.Search(products, "antminer")))
	assert.Len(t, catalog.Search(products, "  "), 5)
}

func TestSort_Price(t *testing.T) {
	products := fixtures()
	assert.Equal(t, []uint{5, 1, 4, 2, 3}, ids(catalog.Sort(products, catalog.SortPriceAsc)))
	assert.Equal(t, []uint{3, 2, 4, 1, 5}, ids(catalog.Sort(products, catalog.SortPriceDesc)))
	// input untouched
	assert.Equal(t, []uint{1, 2, 3, 4, 5}, ids(products))
	assert.Equal(t, []uint{1, 2, 3, 4, 5}, ids(catalog.Sort(products, catalog.SortPopular)))
}

func TestSort_HashrateLexicographic(t *testing.T) {
	products := []models.Product{
		{ID: 1, Hashrate: "100 TH/s"},
		{ID: 2, Hashrate: "20 TH/s"},
	}
	// display strings compare as text: "20" > "100"
	assert.Equal(t, []uint{2, 1}, ids(catalog.Sort(products, catalog.SortHashrate)))
	assert.Equal(t, []uint{1, 2}, ids(catalog.Sort(products, catalog.SortHashrateNumeric)))
}

func TestSort_HashrateNumericUnits(t *testing.T) {
	products := []models.Product{
		{ID: 1, Hashrate: "17 GH/s"},
		{ID: 2, Hashrate: "unknown"},
		{ID: 3, Hashrate: "1.2 PH/s"},
		{ID: 4, Hashrate: "90 TH/s"},
	}
	assert.Equal(t, []uint{3, 4, 1, 2}, ids(catalog.Sort(products, catalog.SortHashrateNumeric)))
}

func TestParseHashrate(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"110 TH/s", 110, true},
		{"110 TH/s ±5%", 110, true},
		{"17 GH/s", 0.017, true},
		{"9,5 th/s", 9.5, true},
		{"", 0, false},
		{"fast", 0, false},
	}
	for _, c := range cases {
		got, ok := catalog.ParseHashrate(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		assert.InDelta(t, c.want, got, 1e-9, c.in)
	}
}
