package repositories

import (
	"context"
	"errors"

	"lendtrack/internal/adapters/persistence/models"
	"lendtrack/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLaptopRepository handles laptop data access backed by GORM
type GormLaptopRepository struct {
	db *gorm.DB
}

// NewLaptopRepository creates a new laptop repository
func NewLaptopRepository(db *gorm.DB) *GormLaptopRepository {
	return &GormLaptopRepository{db: db}
}

// Create creates a new laptop
func (r *GormLaptopRepository) Create(ctx context.Context, laptop *models.Laptop) error {
	return r.db.WithContext(ctx).Create(laptop).Error
}

// GetByID gets a laptop by ID
func (r *GormLaptopRepository) GetByID(ctx context.Context, id uint) (*models.Laptop, error) {
	var laptop models.Laptop
	err := r.db.WithContext(ctx).First(&laptop, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLaptopNotFound
		}
		return nil, err
	}
	return &laptop, nil
}

// GetByIDForUpdate gets a laptop by ID holding a row lock for the
// duration of the surrounding transaction
func (r *GormLaptopRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Laptop, error) {
	var laptop models.Laptop
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&laptop, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLaptopNotFound
		}
		return nil, err
	}
	return &laptop, nil
}

// GetBySerialNumber gets a laptop by serial number
func (r *GormLaptopRepository) GetBySerialNumber(ctx context.Context, serial string) (*models.Laptop, error) {
	var laptop models.Laptop
	err := r.db.WithContext(ctx).Where("serial_number = ?", serial).First(&laptop).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLaptopNotFound
		}
		return nil, err
	}
	return &laptop, nil
}

// List lists all laptops, newest first
func (r *GormLaptopRepository) List(ctx context.Context) ([]*models.Laptop, error) {
	var laptops []*models.Laptop
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&laptops).Error
	return laptops, err
}

// Update updates a laptop
func (r *GormLaptopRepository) Update(ctx context.Context, laptop *models.Laptop) error {
	return r.db.WithContext(ctx).Save(laptop).Error
}

// UpdateStatus flips the laptop status with a compare-and-swap on the
// current value. Zero matched rows means a concurrent writer changed the
// status first.
func (r *GormLaptopRepository) UpdateStatus(ctx context.Context, id uint, from, to domain.LaptopStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Laptop{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrWriteConflict
	}
	return nil
}

// Delete deletes a laptop
func (r *GormLaptopRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Laptop{}, id).Error
}
