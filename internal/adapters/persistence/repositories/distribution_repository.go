package repositories

import (
	"context"
	"errors"
	"time"

	"lendtrack/internal/adapters/persistence/models"
	"lendtrack/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDistributionRepository handles distribution data access backed by GORM
type GormDistributionRepository struct {
	db *gorm.DB
}

// NewDistributionRepository creates a new distribution repository
func NewDistributionRepository(db *gorm.DB) *GormDistributionRepository {
	return &GormDistributionRepository{db: db}
}

// Create creates a new distribution record
func (r *GormDistributionRepository) Create(ctx context.Context, dist *models.Distribution) error {
	return r.db.WithContext(ctx).Create(dist).Error
}

// GetByID gets a distribution by ID
func (r *GormDistributionRepository) GetByID(ctx context.Context, id uint) (*models.Distribution, error) {
	var dist models.Distribution
	err := r.db.WithContext(ctx).First(&dist, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDistributionNotFound
		}
		return nil, err
	}
	return &dist, nil
}

// GetByIDForUpdate gets a distribution by ID holding a row lock for the
// duration of the surrounding transaction
func (r *GormDistributionRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Distribution, error) {
	var dist models.Distribution
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dist, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDistributionNotFound
		}
		return nil, err
	}
	return &dist, nil
}

// CountOpenByLaptopID counts open records (date_returned IS NULL) for a laptop
func (r *GormDistributionRepository) CountOpenByLaptopID(ctx context.Context, laptopID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Distribution{}).
		Where("laptop_id = ? AND date_returned IS NULL", laptopID).
		Count(&n).Error
	return n, err
}

// List lists all distribution records, newest distribution first
func (r *GormDistributionRepository) List(ctx context.Context) ([]*models.Distribution, error) {
	var dists []*models.Distribution
	err := r.db.WithContext(ctx).Order("date_distributed DESC").Find(&dists).Error
	return dists, err
}

// ListByLaptopID lists records for one laptop, newest distribution first
func (r *GormDistributionRepository) ListByLaptopID(ctx context.Context, laptopID uint) ([]*models.Distribution, error) {
	var dists []*models.Distribution
	err := r.db.WithContext(ctx).
		Where("laptop_id = ?", laptopID).
		Order("date_distributed DESC").
		Find(&dists).Error
	return dists, err
}

// ListOverdueOpen lists open records past their expected return date,
// most overdue first
func (r *GormDistributionRepository) ListOverdueOpen(ctx context.Context, asOf time.Time) ([]*models.Distribution, error) {
	var dists []*models.Distribution
	err := r.db.WithContext(ctx).
		Where("date_returned IS NULL AND expected_return_date < ?", asOf).
		Order("expected_return_date ASC").
		Find(&dists).Error
	return dists, err
}

// UpdateVersioned writes the record guarded by the optimistic lock counter.
// The WHERE clause compares the version read at the start of the transaction;
// zero matched rows means a concurrent writer committed in between.
func (r *GormDistributionRepository) UpdateVersioned(ctx context.Context, dist *models.Distribution) error {
	res := r.db.WithContext(ctx).
		Model(&models.Distribution{}).
		Where("id = ? AND version = ?", dist.ID, dist.Version).
		Updates(map[string]interface{}{
			"recipient_name":       dist.RecipientName,
			"recipient_email":      dist.RecipientEmail,
			"recipient_phone":      dist.RecipientPhone,
			"expected_return_date": dist.ExpectedReturnDate,
			"date_returned":        dist.DateReturned,
			"notes":                dist.Notes,
			"version":              dist.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrWriteConflict
	}
	dist.Version++
	return nil
}

// Delete deletes a distribution record
func (r *GormDistributionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Distribution{}, id).Error
}
