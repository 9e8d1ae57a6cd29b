package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/diewo77/commcentre/internal/config"
	"github.com/diewo77/commcentre/internal/models"
	"github.com/diewo77/commcentre/internal/store"
)

// CategoryAll disables the category filter in Browse.
const CategoryAll = "all"

// InventoryService manages the product catalog. Every write invalidates the
// POS catalog cache.
type InventoryService struct {
	store   *store.Store
	catalog Catalog
	now     func() time.Time
}

func NewInventoryService(st *store.Store, catalog Catalog) *InventoryService {
	return &InventoryService{store: st, catalog: catalog, now: time.Now}
}

func (s *InventoryService) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	p, v := models.NewProduct(in, s.now())
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	if err := s.store.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

// Update replaces every editable field of product id. DateAdded is kept.
func (s *InventoryService) Update(ctx context.Context, id uint, in models.ProductInput) (*models.Product, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p, v := models.NewProduct(in, existing.DateAdded)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	p.ID = existing.ID
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

// Delete removes the product. Past sales keep their own copy of its name and price.
func (s *InventoryService) Delete(ctx context.Context, id uint) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *InventoryService) Get(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// List reads the catalog straight from the store.
func (s *InventoryService) List(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx)
}

// Browse serves the POS product grid from the cached catalog.
func (s *InventoryService) Browse(ctx context.Context, category, term string) ([]models.Product, error) {
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return nil, err
	}
	return FilterProducts(products, category, term), nil
}

// Categories returns the distinct non-empty categories of the cached catalog, sorted.
func (s *InventoryService) Categories(ctx context.Context) ([]string, error) {
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []string
	for _, p := range products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

// FilterProducts keeps products in category (unless it is empty or "all")
// whose name or barcode matches term.
func FilterProducts(products []models.Product, category, term string) []models.Product {
	term = strings.TrimSpace(term)
	out := make([]models.Product, 0, len(products))
	for i := range products {
		p := &products[i]
		if category != "" && category != CategoryAll && p.Category != category {
			continue
		}
		if !p.MatchesTerm(term) {
			continue
		}
		out = append(out, *p)
	}
	return out
}

func (s *InventoryService) invalidate(ctx context.Context) {
	if err := s.catalog.Invalidate(ctx); err != nil {
		config.LogError(config.GetLogger(), "services", "InventoryService", "invalidate catalog", nil, err)
	}
}
