package services

import (
	"context"
	"errors"
	"fmt"

	"lendtrack/internal/adapters/persistence/models"
	"lendtrack/internal/adapters/persistence/repositories"
	"lendtrack/internal/core/domain"
)

// LaptopService handles laptop inventory business logic. Lifecycle
// transitions between Available and Distributed belong to the
// DistributionService; this service covers inventory CRUD plus the
// administrative states (Needs_repair, Decommissioned).
type LaptopService struct {
	store repositories.Store
}

// NewLaptopService creates a new laptop service
func NewLaptopService(store repositories.Store) *LaptopService {
	return &LaptopService{store: store}
}

// CreateLaptopInput represents create laptop input
type CreateLaptopInput struct {
	Brand        string              `json:"brand" validate:"required"`
	Model        string              `json:"model" validate:"required"`
	SerialNumber string              `json:"serial_number" validate:"required"`
	Status       domain.LaptopStatus `json:"status" validate:"required"`
	PurchaseDate string              `json:"purchase_date" validate:"required"`
	Notes        string              `json:"notes" validate:"required"`
}

// Create creates a new laptop
func (s *LaptopService) Create(ctx context.Context, input *CreateLaptopInput) (*models.Laptop, error) {
	if input.Brand == "" || input.Model == "" || input.SerialNumber == "" ||
		input.Status == "" || input.PurchaseDate == "" || input.Notes == "" {
		return nil, fmt.Errorf("%w: all fields are required", domain.ErrInvalidInput)
	}
	if !domain.ValidStatus(input.Status) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidStatus, input.Status)
	}

	_, err := s.store.Laptops().GetBySerialNumber(ctx, input.SerialNumber)
	if err == nil {
		return nil, domain.ErrDuplicateSerial
	}
	if !errors.Is(err, domain.ErrLaptopNotFound) {
		return nil, err
	}

	laptop := &models.Laptop{
		Brand:        input.Brand,
		Model:        input.Model,
		SerialNumber: input.SerialNumber,
		Status:       input.Status,
		PurchaseDate: input.PurchaseDate,
		Notes:        input.Notes,
	}
	if err := s.store.Laptops().Create(ctx, laptop); err != nil {
		return nil, err
	}
	return laptop, nil
}

// GetAll gets all laptops
func (s *LaptopService) GetAll(ctx context.Context) ([]*models.Laptop, error) {
	return s.store.Laptops().List(ctx)
}

// GetByID gets a laptop by ID
func (s *LaptopService) GetByID(ctx context.Context, id uint) (*models.Laptop, error) {
	return s.store.Laptops().GetByID(ctx, id)
}

// UpdateLaptopInput represents a partial laptop update. Nil fields are left
// unchanged.
type UpdateLaptopInput struct {
	Brand        *string              `json:"brand,omitempty"`
	Model        *string              `json:"model,omitempty"`
	SerialNumber *string              `json:"serial_number,omitempty"`
	Status       *domain.LaptopStatus `json:"status,omitempty"`
	PurchaseDate *string              `json:"purchase_date,omitempty"`
	Notes        *string              `json:"notes,omitempty"`
}

// Update updates a laptop. Status changes here are the administrative path
// (repair, decommission); Distributed is owned by the distribution lifecycle
// and cannot be set or left through a plain update.
func (s *LaptopService) Update(ctx context.Context, id uint, input *UpdateLaptopInput) (*models.Laptop, error) {
	laptop, err := s.store.Laptops().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		if !domain.ValidStatus(*input.Status) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidStatus, *input.Status)
		}
		if *input.Status == domain.StatusDistributed {
			return nil, fmt.Errorf("%w: status Distributed is set by distributing the laptop", domain.ErrInvalidStatus)
		}
		if laptop.Status == domain.StatusDistributed && *input.Status != laptop.Status {
			return nil, fmt.Errorf("%w: laptop must be returned first", domain.ErrLaptopNotAvailable)
		}
		laptop.Status = *input.Status
	}
	if input.Brand != nil {
		laptop.Brand = *input.Brand
	}
	if input.Model != nil {
		laptop.Model = *input.Model
	}
	if input.SerialNumber != nil {
		laptop.SerialNumber = *input.SerialNumber
	}
	if input.PurchaseDate != nil {
		laptop.PurchaseDate = *input.PurchaseDate
	}
	if input.Notes != nil {
		laptop.Notes = *input.Notes
	}

	if err := s.store.Laptops().Update(ctx, laptop); err != nil {
		return nil, err
	}
	return laptop, nil
}

// Delete deletes a laptop
func (s *LaptopService) Delete(ctx context.Context, id uint) error {
	if _, err := s.store.Laptops().GetByID(ctx, id); err != nil {
		return err
	}
	return s.store.Laptops().Delete(ctx, id)
}
