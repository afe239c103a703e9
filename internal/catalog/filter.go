// Package catalog filters, searches and sorts product listings.
package catalog

import (
	"strings"

	"asicshop/internal/models"

	"github.com/shopspring/decimal"
)

// Bucket is a coarse hashrate range used by the storefront sidebar.
type Bucket string

const (
	BucketAny    Bucket = ""
	BucketLow    Bucket = "low"    // below 50 TH/s
	BucketMedium Bucket = "medium" // 50 to 100 TH/s inclusive
	BucketHigh   Bucket = "high"   // above 100 TH/s
)

// ParseBucket maps a query value to a Bucket. "all" and unknown values mean
// no constraint.
func ParseBucket(s string) Bucket {
	switch Bucket(strings.ToLower(strings.TrimSpace(s))) {
	case BucketLow:
		return BucketLow
	case BucketMedium:
		return BucketMedium
	case BucketHigh:
		return BucketHigh
	}
	return BucketAny
}

// Filter holds the product predicates of a listing request. Each set
// predicate is ANDed with the others; nil or empty fields impose nothing.
// Several brands (or algorithms) match a product carrying any of them.
type Filter struct {
	Brands     []string
	Algorithms []string
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	InStock    *bool
	Hashrate   Bucket
}

// Empty reports whether the filter imposes no constraint at all.
func (f Filter) Empty() bool {
	return len(f.Brands) == 0 && len(f.Algorithms) == 0 &&
		f.PriceMin == nil && f.PriceMax == nil && f.InStock == nil &&
		f.Hashrate == BucketAny
}

// Match reports whether p satisfies every predicate of f.
func (f Filter) Match(p models.Product) bool {
	if len(f.Brands) > 0 && !contains(f.Brands, p.Brand) {
		return false
	}
	if len(f.Algorithms) > 0 && !contains(f.Algorithms, p.Algorithm) {
		return false
	}
	if f.PriceMin != nil || f.PriceMax != nil {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return false
		}
		if f.PriceMin != nil && price.LessThan(*f.PriceMin) {
			return false
		}
		if f.PriceMax != nil && price.GreaterThan(*f.PriceMax) {
			return false
		}
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	if f.Hashrate != BucketAny && !inBucket(p.Hashrate, f.Hashrate) {
		return false
	}
	return true
}

// Apply returns the products matching f, preserving order.
func Apply(products []models.Product, f Filter) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Search keeps the products whose name, brand or algorithm contains q,
// ignoring case. An empty query keeps everything.
func Search(products []models.Product, q string) []models.Product {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Brand), q) ||
			strings.Contains(strings.ToLower(p.Algorithm), q) {
			out = append(out, p)
		}
	}
	return out
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

func inBucket(hashrate string, b Bucket) bool {
	ths, ok := ParseHashrate(hashrate)
	if !ok {
		return false
	}
	switch b {
	case BucketLow:
		return ths < 50
	case BucketMedium:
		return ths >= 50 && ths <= 100
	case BucketHigh:
		return ths > 100
	}
	return true
}
