// Package store is the persistence layer for products, sales and jobs.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a record looked up by id does not exist.
var ErrNotFound = errors.New("record not found")

// Store wraps a *gorm.DB. All methods take a context that is forwarded to GORM.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{db: db} }

// DB exposes the underlying handle (health checks, migrations).
func (s *Store) DB() *gorm.DB { return s.db }

// Transaction runs fn inside a single database transaction. Returning an
// error from fn rolls back every write it made.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
