package db

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/commcentre/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Services never run out, so they are seeded with a large stock.
const serviceStock = 9999

type seedProduct struct {
	name, category string
	cost, price    int64
	stock          int
}

var demoCatalog = []seedProduct{
	{"A4 Paper", "Stationery", 2, 5, 500},
	{"CR Books (80pg)", "Stationery", 120, 160, 50},
	{"Blue Pen", "Stationery", 20, 30, 100},
	{"Pencil", "Stationery", 10, 15, 100},
	{"Photocopy (B&W A4)", "Services", 2, 10, serviceStock},
	{"Printout (Color A4)", "Services", 10, 40, serviceStock},
	{"Binding (Spiral)", "Services", 50, 150, serviceStock},
	{"Wedding Card Design", "Custom Job", 0, 5000, serviceStock},
}

// Seed loads the demo catalog. Products already present by name are left alone,
// so running it twice does not duplicate rows. It returns how many were added.
func Seed(ctx context.Context, gdb *gorm.DB) (int, error) {
	now := time.Now()
	added := 0
	for _, sp := range demoCatalog {
		var existing models.Product
		err := gdb.WithContext(ctx).Where("name = ?", sp.name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return added, err
		}
		p := models.Product{
			Name:          sp.name,
			Category:      sp.category,
			CostPrice:     decimal.NewFromInt(sp.cost),
			SellingPrice:  decimal.NewFromInt(sp.price),
			StockQuantity: sp.stock,
			DateAdded:     now,
		}
		if err := gdb.WithContext(ctx).Create(&p).Error; err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
