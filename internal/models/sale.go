package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethodCash is the only payment method the counter records today.
const PaymentMethodCash = "cash"

// Sale is a committed checkout. Items are denormalized snapshots, not live references.
type Sale struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Reference     string          `gorm:"size:36;uniqueIndex" json:"reference"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	Items         []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
	SubTotal      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"sub_total"`
	Discount      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"discount"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total_amount"`
	PaymentMethod string          `gorm:"size:20;not null;default:'cash'" json:"payment_method"`
}

// SaleItem is one line of a sale. ProductID is kept for reporting only; the
// product may have been deleted since.
type SaleItem struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	SaleID    uint            `gorm:"index;not null" json:"-"`
	Position  int             `gorm:"not null" json:"-"`
	ProductID uint            `gorm:"index;not null" json:"product_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Total     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total"`
}

// DisplayTotal returns the total clamped at zero. The stored value is untouched.
func (s *Sale) DisplayTotal() decimal.Decimal {
	if s.TotalAmount.IsNegative() {
		return decimal.Zero
	}
	return s.TotalAmount
}

// ItemCount returns the number of lines on the sale.
func (s *Sale) ItemCount() int {
	return len(s.Items)
}
