package catalog

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"asicshop/internal/models"
)

// SortOrder names a listing order.
type SortOrder string

const (
	SortDefault         SortOrder = ""
	SortPopular         SortOrder = "popular"
	SortPriceAsc        SortOrder = "price-asc"
	SortPriceDesc       SortOrder = "price-desc"
	SortHashrate        SortOrder = "hashrate"
	SortHashrateNumeric SortOrder = "hashrate-numeric"
)

// Sort returns a sorted copy of products.
//
// SortHashrate compares the display strings in descending lexicographic
// order, so "20 TH/s" ranks above "100 TH/s". SortHashrateNumeric parses
// the strings to TH/s first; unparseable values go last. The default and
// "popular" orders keep the input order.
func Sort(products []models.Product, order SortOrder) []models.Product {
	out := slices.Clone(products)
	switch order {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return a.PriceDecimal().Cmp(b.PriceDecimal())
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return b.PriceDecimal().Cmp(a.PriceDecimal())
		})
	case SortHashrate:
		slices.SortStableFunc(out, func(a, b models.Product) int {
			return strings.Compare(b.Hashrate, a.Hashrate)
		})
	case SortHashrateNumeric:
		slices.SortStableFunc(out, func(a, b models.Product) int {
			ha, okA := ParseHashrate(a.Hashrate)
			hb, okB := ParseHashrate(b.Hashrate)
			switch {
			case !okA && !okB:
				return 0
			case !okA:
				return 1
			case !okB:
				return -1
			case ha > hb:
				return -1
			case ha < hb:
				return 1
			}
			return 0
		})
	}
	return out
}

var hashrateRe = regexp.MustCompile(`^\s*([0-9]+(?:[.,][0-9]+)?)\s*([kKmMgGtTpPeE]?)[hH]`)

var unitToTH = map[string]float64{
	"":  1e-12,
	"k": 1e-9,
	"m": 1e-6,
	"g": 1e-3,
	"t": 1,
	"p": 1e3,
	"e": 1e6,
}

// ParseHashrate converts a display string such as "17 GH/s" or
// "110 TH/s ±5%" to TH/s.
func ParseHashrate(s string) (float64, bool) {
	m := hashrateRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return n * unitToTH[strings.ToLower(m[2])], true
}
