package repositories

import (
	"context"
	"time"

	"lendtrack/internal/adapters/persistence/models"
	"lendtrack/internal/core/domain"
)

// LaptopRepository handles laptop data access. Implementations translate
// their storage errors into domain errors; callers never see driver errors
// for the conditions the domain cares about.
type LaptopRepository interface {
	Create(ctx context.Context, laptop *models.Laptop) error
	GetByID(ctx context.Context, id uint) (*models.Laptop, error)
	// GetByIDForUpdate reads the laptop under a row lock so the status check
	// and the status write happen against the same snapshot.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Laptop, error)
	GetBySerialNumber(ctx context.Context, serial string) (*models.Laptop, error)
	List(ctx context.Context) ([]*models.Laptop, error)
	Update(ctx context.Context, laptop *models.Laptop) error
	// UpdateStatus flips the status only when the stored value still equals
	// from. Zero matched rows means another writer won; it returns
	// domain.ErrWriteConflict so the transaction can be retried.
	UpdateStatus(ctx context.Context, id uint, from, to domain.LaptopStatus) error
	Delete(ctx context.Context, id uint) error
}

// DistributionRepository handles distribution record data access.
type DistributionRepository interface {
	Create(ctx context.Context, dist *models.Distribution) error
	GetByID(ctx context.Context, id uint) (*models.Distribution, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Distribution, error)
	CountOpenByLaptopID(ctx context.Context, laptopID uint) (int64, error)
	List(ctx context.Context) ([]*models.Distribution, error)
	// ListByLaptopID returns all records for a laptop, newest distribution first.
	ListByLaptopID(ctx context.Context, laptopID uint) ([]*models.Distribution, error)
	// ListOverdueOpen returns open records whose expected return date has
	// passed, most overdue first.
	ListOverdueOpen(ctx context.Context, asOf time.Time) ([]*models.Distribution, error)
	// UpdateVersioned writes the record only if the stored version still
	// matches dist.Version, then increments it. Zero matched rows yields
	// domain.ErrWriteConflict.
	UpdateVersioned(ctx context.Context, dist *models.Distribution) error
	Delete(ctx context.Context, id uint) error
}

// UserRepository handles user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int64, error)
}

// RefreshTokenRepository handles refresh token data access
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByHash(ctx context.Context, hash string) error
	RevokeAllForUser(ctx context.Context, userID uint) error
}

// Store is the unit-of-work boundary the lifecycle coordinator works
// against. InTransaction runs fn with repositories bound to one transaction
// scope; the scope commits when fn returns nil and rolls back otherwise, so
// no partial (laptop, distribution) state is ever durably observed.
type Store interface {
	Laptops() LaptopRepository
	Distributions() DistributionRepository
	InTransaction(ctx context.Context, fn func(tx Store) error) error
}
