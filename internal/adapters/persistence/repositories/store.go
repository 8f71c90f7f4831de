package repositories

import (
	"context"

	"gorm.io/gorm"
)

// GormStore binds the laptop and distribution repositories to one *gorm.DB
// handle. Outside a transaction that handle is the pooled connection; inside
// InTransaction it is the transaction, so every repository call within fn
// sees and writes the same atomic scope.
type GormStore struct {
	db            *gorm.DB
	laptops       *GormLaptopRepository
	distributions *GormDistributionRepository
}

// NewStore creates a new store over the given database handle
func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:            db,
		laptops:       NewLaptopRepository(db),
		distributions: NewDistributionRepository(db),
	}
}

// Laptops returns the laptop repository bound to this scope
func (s *GormStore) Laptops() LaptopRepository {
	return s.laptops
}

// Distributions returns the distribution repository bound to this scope
func (s *GormStore) Distributions() DistributionRepository {
	return s.distributions
}

// InTransaction runs fn inside one database transaction. GORM commits when
// fn returns nil and rolls back on error or panic, so the scope is released
// exactly once on every exit path.
func (s *GormStore) InTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
