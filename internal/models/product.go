package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product badges. Display only.
const (
	BadgeSale = "sale"
	BadgeNew  = "new"
)

// Specifications is an opaque structured blob attached to a product.
type Specifications map[string]any

// Value implements driver.Valuer.
func (s Specifications) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal specifications: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *Specifications) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported specifications type %T", src)
	}
	return json.Unmarshal(raw, s)
}

// GormDataType stores specifications as a text column.
func (Specifications) GormDataType() string {
	return "text"
}

// Product represents a mining rig offered in the catalog.
type Product struct {
	ID               uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name             string         `json:"name" gorm:"type:varchar(255)"`
	Brand            string         `json:"brand" gorm:"index;type:varchar(128)"`
	Model            string         `json:"model" gorm:"type:varchar(128)"`
	Algorithm        string         `json:"algorithm" gorm:"index;type:varchar(64)"`
	Hashrate         string         `json:"hashrate" gorm:"type:varchar(64)"` // display string, e.g. "110 TH/s"
	PowerConsumption int            `json:"powerConsumption"`                 // watts
	Price            string         `json:"price" gorm:"type:varchar(32)"`
	OldPrice         *string        `json:"oldPrice" gorm:"type:varchar(32)"`
	ImageURL         string         `json:"imageUrl" gorm:"type:text"`
	Description      *string        `json:"description" gorm:"type:text"`
	Badge            *string        `json:"badge" gorm:"type:varchar(16)"`
	Specifications   Specifications `json:"specifications"`
	InStock          bool           `json:"inStock"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// PriceDecimal parses Price. Unparseable prices count as zero.
func (p Product) PriceDecimal() decimal.Decimal {
	d, err := decimal.NewFromString(p.Price)
	if err != nil {
		return decimal.Zero
	}
	return d
}
