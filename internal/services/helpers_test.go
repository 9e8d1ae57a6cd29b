package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diewo77/commcentre/internal/db"
	"github.com/diewo77/commcentre/internal/models"
	"github.com/diewo77/commcentre/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))
	return gdb
}

func seedProduct(t *testing.T, st *store.Store, name string, price int64, stock int) models.Product {
	t.Helper()
	p := models.Product{
		Name:          name,
		Category:      "Stationery",
		CostPrice:     decimal.NewFromInt(price / 2),
		SellingPrice:  decimal.NewFromInt(price),
		StockQuantity: stock,
		DateAdded:     time.Now(),
	}
	require.NoError(t, st.CreateProduct(context.Background(), &p))
	return p
}

// countWrites counts every create, update and delete issued through gdb.
func countWrites(t *testing.T, gdb *gorm.DB) *int64 {
	t.Helper()
	var n int64
	inc := func(*gorm.DB) { atomic.AddInt64(&n, 1) }
	require.NoError(t, gdb.Callback().Create().Before("gorm:create").Register("test:count_create", inc))
	require.NoError(t, gdb.Callback().Update().Before("gorm:update").Register("test:count_update", inc))
	require.NoError(t, gdb.Callback().Delete().Before("gorm:delete").Register("test:count_delete", inc))
	return &n
}

// failNthProductUpdate makes the nth UPDATE on the products table fail.
func failNthProductUpdate(t *testing.T, gdb *gorm.DB, nth int64) {
	t.Helper()
	var seen int64
	require.NoError(t, gdb.Callback().Update().Before("gorm:update").Register("test:fail_products", func(tx *gorm.DB) {
		if tx.Statement.Table != "products" {
			return
		}
		if atomic.AddInt64(&seen, 1) == nth {
			_ = tx.AddError(errors.New("disk I/O error"))
		}
	}))
}

// failSaleItemInsert makes every insert into sale_items fail.
func failSaleItemInsert(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	require.NoError(t, gdb.Callback().Create().Before("gorm:create").Register("test:fail_sale_items", func(tx *gorm.DB) {
		if tx.Statement.Table == "sale_items" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))
}

// stubCatalog serves a fixed product list and records invalidations.
type stubCatalog struct {
	products    []models.Product
	invalidated int
}

func (c *stubCatalog) Products(context.Context) ([]models.Product, error) { return c.products, nil }

func (c *stubCatalog) Lookup(_ context.Context, id uint) (*models.Product, error) {
	return findProduct(c.products, id), nil
}

func (c *stubCatalog) Invalidate(context.Context) error {
	c.invalidated++
	return nil
}
