package store

import (
	"context"

	"github.com/diewo77/commcentre/internal/models"
)

// CreateProduct inserts p and fills in its new id.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	return s.conn(ctx).Create(p).Error
}

func (s *Store) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.conn(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// UpdateProduct replaces every column of an existing product.
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	res := s.conn(ctx).Model(&models.Product{}).Where("id = ?", p.ID).Select("*").Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStock writes an absolute stock level for one product.
func (s *Store) SetStock(ctx context.Context, id uint, qty int) error {
	return s.conn(ctx).Model(&models.Product{}).Where("id = ?", id).Update("stock_quantity", qty).Error
}

func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListProducts returns the full catalog ordered by id.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.conn(ctx).Order("id asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CountLowStock counts products whose stock is strictly below threshold.
func (s *Store) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Product{}).Where("stock_quantity < ?", threshold).Count(&n).Error
	return n, err
}

// ProductsByID loads the given products keyed by id. Missing ids are absent from the map.
func (s *Store) ProductsByID(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	out := make(map[uint]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []models.Product
	if err := s.conn(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}
