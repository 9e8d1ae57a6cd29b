package services

import (
	"github.com/diewo77/commcentre/internal/models"
	"github.com/shopspring/decimal"
)

// CartLine is one product on an in-progress sale. Name and Price are
// snapshots taken when the product was first added.
type CartLine struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

func (l *CartLine) recompute() {
	l.Total = l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals is the money summary of a set of lines.
type Totals struct {
	SubTotal decimal.Decimal `json:"sub_total"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// DisplayTotal clamps a negative total to zero for rendering.
func (t Totals) DisplayTotal() decimal.Decimal {
	if t.Total.IsNegative() {
		return decimal.Zero
	}
	return t.Total
}

// ComputeTotals sums line totals and subtracts the discount. The total is
// left un-clamped.
func ComputeTotals(lines []CartLine, discount decimal.Decimal) Totals {
	sub := decimal.Zero
	for _, l := range lines {
		sub = sub.Add(l.Total)
	}
	return Totals{SubTotal: sub, Discount: discount, Total: sub.Sub(discount)}
}

// Cart is the session state of one checkout counter. It is not safe for
// concurrent use; callers serialize access per cart.
type Cart struct {
	lines         []CartLine
	discountInput string
}

func NewCart() *Cart { return &Cart{} }

// Lines returns a copy of the current lines in order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// add merges p into the cart: an existing line gains one unit, otherwise a
// new line is appended at the product's current selling price.
func (c *Cart) add(p *models.Product) {
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity++
			c.lines[i].recompute()
			return
		}
	}
	line := CartLine{ProductID: p.ID, Name: p.Name, Price: p.SellingPrice, Quantity: 1}
	line.recompute()
	c.lines = append(c.lines, line)
}

// RemoveLine deletes the line at index.
func (c *Cart) RemoveLine(index int) error {
	if index < 0 || index >= len(c.lines) {
		return ErrLineIndex
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

// AdjustQuantity adds delta to the line at index. A line whose quantity
// drops to zero or below is removed.
func (c *Cart) AdjustQuantity(index, delta int) error {
	if index < 0 || index >= len(c.lines) {
		return ErrLineIndex
	}
	l := &c.lines[index]
	l.Quantity += delta
	if l.Quantity <= 0 {
		return c.RemoveLine(index)
	}
	l.recompute()
	return nil
}

// SetDiscount records the raw discount as typed at the counter.
func (c *Cart) SetDiscount(raw string) { c.discountInput = raw }

func (c *Cart) DiscountInput() string { return c.discountInput }

// Discount parses the discount input. Unparseable or negative input counts as zero.
func (c *Cart) Discount() decimal.Decimal {
	d := models.ParseAmount(c.discountInput)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func (c *Cart) Totals() Totals {
	return ComputeTotals(c.lines, c.Discount())
}

// Clear empties the cart and resets the discount input.
func (c *Cart) Clear() {
	c.lines = nil
	c.discountInput = ""
}
