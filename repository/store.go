// Package repository exposes one typed repository per entity on top of gorm.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by lookups that match no row
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned by conditional updates whose precondition no
// longer holds
var ErrConflict = errors.New("record changed concurrently")

// ErrDuplicate is returned when a unique constraint rejects a write
var ErrDuplicate = errors.New("duplicate record")

// translate maps gorm sentinel errors onto the package's own
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

// Store bundles the repositories sharing one *gorm.DB, which is either
// the connection pool or an open transaction.
type Store struct {
	db *gorm.DB

	Users        UserRepository
	Sessions     SessionRepository
	TiffinMakers TiffinMakerRepository
	MenuItems    MenuItemRepository
	Cart         CartRepository
	Orders       OrderRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Users:        &userRepo{db: db},
		Sessions:     &sessionRepo{db: db},
		TiffinMakers: &tiffinMakerRepo{db: db},
		MenuItems:    &menuItemRepo{db: db},
		Cart:         &cartRepo{db: db},
		Orders:       &orderRepo{db: db},
	}
}

// Transaction runs fn against a Store bound to a single transaction.
// Returning an error from fn rolls every write back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping checks the underlying connection
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
