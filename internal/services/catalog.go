package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/diewo77/commcentre/internal/models"
	"github.com/redis/go-redis/v9"
)

// Catalog is a read-through cache of the product list. It is not kept
// consistent with writes: callers invalidate it after any product mutation
// and tolerate staleness until the next rebuild.
type Catalog interface {
	Products(ctx context.Context) ([]models.Product, error)
	// Lookup returns nil, nil when the id is not in the catalog.
	Lookup(ctx context.Context, id uint) (*models.Product, error)
	Invalidate(ctx context.Context) error
}

// ProductLoader is the store method the catalog rebuilds from.
type ProductLoader interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// MemoryCatalog keeps the catalog in process memory.
type MemoryCatalog struct {
	loader ProductLoader

	mu       sync.RWMutex
	loaded   bool
	products []models.Product
}

func NewMemoryCatalog(loader ProductLoader) *MemoryCatalog {
	return &MemoryCatalog{loader: loader}
}

func (c *MemoryCatalog) Products(ctx context.Context) ([]models.Product, error) {
	c.mu.RLock()
	if c.loaded {
		out := c.products
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.products, nil
	}
	products, err := c.loader.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	c.products = products
	c.loaded = true
	return products, nil
}

func (c *MemoryCatalog) Lookup(ctx context.Context, id uint) (*models.Product, error) {
	products, err := c.Products(ctx)
	if err != nil {
		return nil, err
	}
	return findProduct(products, id), nil
}

func (c *MemoryCatalog) Invalidate(context.Context) error {
	c.mu.Lock()
	c.loaded = false
	c.products = nil
	c.mu.Unlock()
	return nil
}

// RedisCatalog stores the catalog as one JSON value so several local
// processes (e.g. two counters' API servers) share one cache.
type RedisCatalog struct {
	client *redis.Client
	loader ProductLoader
	key    string
	ttl    time.Duration
}

const catalogKey = "commcentre:catalog"

func NewRedisCatalog(client *redis.Client, loader ProductLoader, ttl time.Duration) *RedisCatalog {
	return &RedisCatalog{client: client, loader: loader, key: catalogKey, ttl: ttl}
}

func (c *RedisCatalog) Products(ctx context.Context) ([]models.Product, error) {
	val, err := c.client.Get(ctx, c.key).Bytes()
	if err == nil {
		var products []models.Product
		if jerr := json.Unmarshal(val, &products); jerr == nil {
			return products, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}
	products, err := c.loader.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(products)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *RedisCatalog) Lookup(ctx context.Context, id uint) (*models.Product, error) {
	products, err := c.Products(ctx)
	if err != nil {
		return nil, err
	}
	return findProduct(products, id), nil
}

func (c *RedisCatalog) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}

func findProduct(products []models.Product, id uint) *models.Product {
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p
		}
	}
	return nil
}
