package models

import (
	"strings"
	"time"

	"github.com/diewo77/commcentre/validation"
	"github.com/shopspring/decimal"
)

// Product is an item or service offered at the counter.
// StockQuantity may go negative after an oversell; no floor is enforced.
type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:255;not null" json:"name" validate:"required"`
	Barcode       string          `gorm:"size:100;index" json:"barcode,omitempty"`
	Category      string          `gorm:"size:100;index" json:"category"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"cost_price" validate:"gte=0"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"selling_price" validate:"gte=0"`
	StockQuantity int             `gorm:"not null;default:0;index" json:"stock_quantity"`
	DateAdded     time.Time       `gorm:"not null" json:"date_added"`
}

// ProductInput carries raw product form values.
type ProductInput struct {
	Name          string `json:"name"`
	Barcode       string `json:"barcode"`
	Category      string `json:"category"`
	CostPrice     string `json:"cost_price"`
	SellingPrice  string `json:"selling_price"`
	StockQuantity string `json:"stock_quantity"`
}

// NewProduct builds a product from form input. Numeric fields that fail to
// parse default to zero; a missing name or a negative price is a violation.
func NewProduct(in ProductInput, now time.Time) (*Product, validation.Violations) {
	p := &Product{
		Name:          strings.TrimSpace(in.Name),
		Barcode:       strings.TrimSpace(in.Barcode),
		Category:      strings.TrimSpace(in.Category),
		CostPrice:     ParseAmount(in.CostPrice),
		SellingPrice:  ParseAmount(in.SellingPrice),
		StockQuantity: ParseQuantity(in.StockQuantity),
		DateAdded:     now,
	}
	if v := validation.Struct(p); !v.Empty() {
		return nil, v
	}
	return p, nil
}

// MatchesTerm reports whether the lowercase search term appears in the name
// (case-insensitive) or in the barcode.
func (p *Product) MatchesTerm(term string) bool {
	if term == "" {
		return true
	}
	t := strings.ToLower(term)
	if strings.Contains(strings.ToLower(p.Name), t) {
		return true
	}
	return p.Barcode != "" && strings.Contains(p.Barcode, t)
}

// IsLowStock reports whether the stock level is under the threshold.
func (p *Product) IsLowStock(threshold int) bool {
	return p.StockQuantity < threshold
}
