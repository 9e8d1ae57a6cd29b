package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/diewo77/commcentre/internal/config"
	"github.com/diewo77/commcentre/internal/models"
	"github.com/diewo77/commcentre/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CartService looks products up for carts and commits carts as sales.
type CartService struct {
	store   *store.Store
	catalog Catalog
	atomic  bool
	now     func() time.Time
	log     *logrus.Logger

	// Checkouts never interleave their stock updates.
	mu sync.Mutex
}

type CartOption func(*CartService)

// WithAtomicCheckout selects whether the sale insert and the stock updates
// share one transaction. With false, a failure part way through keeps the
// sale and whatever stock updates already ran.
func WithAtomicCheckout(atomic bool) CartOption {
	return func(s *CartService) { s.atomic = atomic }
}

func WithClock(now func() time.Time) CartOption {
	return func(s *CartService) { s.now = now }
}

func NewCartService(st *store.Store, catalog Catalog, opts ...CartOption) *CartService {
	s := &CartService{store: st, catalog: catalog, atomic: true, now: time.Now, log: config.GetLogger()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AddLine adds one unit of productID to cart. It reports false, without
// error, when the product is not in the catalog.
func (s *CartService) AddLine(ctx context.Context, cart *Cart, productID uint) (bool, error) {
	p, err := s.catalog.Lookup(ctx, productID)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, nil
	}
	cart.add(p)
	return true, nil
}

// Checkout records the cart as a sale and decrements stock for each line.
// Lines whose product no longer exists are sold without a stock update.
// On success the cart is cleared and the catalog invalidated.
//
// When atomic checkout is off and a stock update fails, the persisted sale
// is returned together with the error and the cart is left untouched.
func (s *CartService) Checkout(ctx context.Context, cart *Cart) (*models.Sale, error) {
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sale := s.snapshot(cart)
	saved := false
	commit := func(tx *store.Store) error {
		if err := tx.CreateSale(ctx, sale); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		saved = true
		for _, item := range sale.Items {
			p, err := tx.GetProduct(ctx, item.ProductID)
			if errors.Is(err, store.ErrNotFound) {
				s.log.WithFields(logrus.Fields{"sale_id": sale.ID, "product_id": item.ProductID}).
					Info("product gone, skipping stock update")
				continue
			}
			if err != nil {
				return fmt.Errorf("read product %d: %w", item.ProductID, err)
			}
			if err := tx.SetStock(ctx, p.ID, p.StockQuantity-item.Quantity); err != nil {
				return fmt.Errorf("update stock of product %d: %w", p.ID, err)
			}
		}
		return nil
	}

	var err error
	if s.atomic {
		err = s.store.Transaction(ctx, commit)
	} else {
		err = commit(s.store)
	}
	if err != nil {
		config.LogError(s.log, "services", "Checkout", "commit", map[string]any{"lines": len(sale.Items), "atomic": s.atomic}, err)
		s.invalidate(ctx)
		// gorm keeps the assigned ID even when the items insert rolls back.
		if !s.atomic && saved {
			return sale, fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}

	cart.Clear()
	s.invalidate(ctx)
	s.log.WithFields(logrus.Fields{"sale_id": sale.ID, "reference": sale.Reference, "total": sale.TotalAmount.String()}).
		Info("sale recorded")
	return sale, nil
}

func (s *CartService) snapshot(cart *Cart) *models.Sale {
	totals := cart.Totals()
	lines := cart.Lines()
	items := make([]models.SaleItem, len(lines))
	for i, l := range lines {
		items[i] = models.SaleItem{
			Position:  i,
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Total:     l.Total,
		}
	}
	return &models.Sale{
		Reference:     uuid.NewString(),
		Date:          s.now(),
		Items:         items,
		SubTotal:      totals.SubTotal,
		Discount:      totals.Discount,
		TotalAmount:   totals.Total,
		PaymentMethod: models.PaymentMethodCash,
	}
}

func (s *CartService) invalidate(ctx context.Context) {
	if err := s.catalog.Invalidate(ctx); err != nil {
		config.LogError(s.log, "services", "Checkout", "invalidate catalog", nil, err)
	}
}
