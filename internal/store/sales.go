package store

import (
	"context"
	"time"

	"github.com/diewo77/commcentre/internal/models"
	"gorm.io/gorm"
)

func orderedItems(db *gorm.DB) *gorm.DB { return db.Order("position asc") }

// CreateSale inserts the sale together with its items.
func (s *Store) CreateSale(ctx context.Context, sale *models.Sale) error {
	for i := range sale.Items {
		sale.Items[i].Position = i
	}
	return s.conn(ctx).Create(sale).Error
}

func (s *Store) GetSale(ctx context.Context, id uint) (*models.Sale, error) {
	var sale models.Sale
	if err := s.conn(ctx).Preload("Items", orderedItems).First(&sale, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &sale, nil
}

// SalesBetween returns sales dated in [from, to], oldest first.
func (s *Store) SalesBetween(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
	var sales []models.Sale
	err := s.conn(ctx).
		Preload("Items", orderedItems).
		Where("date >= ? AND date <= ?", from, to).
		Order("date asc, id asc").
		Find(&sales).Error
	return sales, err
}

// RecentSales returns the n most recent sales, newest first.
func (s *Store) RecentSales(ctx context.Context, n int) ([]models.Sale, error) {
	var sales []models.Sale
	err := s.conn(ctx).
		Preload("Items", orderedItems).
		Order("date desc, id desc").
		Limit(n).
		Find(&sales).Error
	return sales, err
}

func (s *Store) ListSales(ctx context.Context) ([]models.Sale, error) {
	var sales []models.Sale
	err := s.conn(ctx).Preload("Items", orderedItems).Order("id asc").Find(&sales).Error
	return sales, err
}

func (s *Store) CountSales(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Sale{}).Count(&n).Error
	return n, err
}
