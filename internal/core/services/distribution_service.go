package services

import (
	"context"
	"fmt"
	"time"

	"lendtrack/internal/adapters/persistence/models"
	"lendtrack/internal/adapters/persistence/repositories"
	"lendtrack/internal/core/domain"
	"lendtrack/internal/pkg/retry"
)

// DistributionService coordinates the lending lifecycle. Every state change
// pairs a distribution-record write with the matching laptop status flip
// inside one store transaction: either both land or neither does. Transient
// write conflicts rerun the whole transaction under the retry policy;
// business conflicts surface immediately.
type DistributionService struct {
	store     repositories.Store
	retryOpts []retry.Option
}

// NewDistributionService creates a new distribution service. Retry options
// tune the transaction retry policy (defaults: 3 attempts, 100ms base delay).
func NewDistributionService(store repositories.Store, retryOpts ...retry.Option) *DistributionService {
	return &DistributionService{
		store:     store,
		retryOpts: retryOpts,
	}
}

// DistributeInput represents distribute input
type DistributeInput struct {
	LaptopID           uint      `json:"laptop_id" validate:"required"`
	RecipientName      string    `json:"recipient_name" validate:"required"`
	RecipientEmail     string    `json:"recipient_email" validate:"required,email"`
	RecipientPhone     string    `json:"recipient_phone" validate:"required"`
	ExpectedReturnDate time.Time `json:"expected_return_date" validate:"required"`
	Notes              string    `json:"notes,omitempty"`
}

func (in *DistributeInput) validate() error {
	switch {
	case in.LaptopID == 0:
		return fmt.Errorf("%w: laptop_id is required", domain.ErrInvalidInput)
	case in.RecipientName == "":
		return fmt.Errorf("%w: recipient_name is required", domain.ErrInvalidInput)
	case in.RecipientEmail == "":
		return fmt.Errorf("%w: recipient_email is required", domain.ErrInvalidInput)
	case in.RecipientPhone == "":
		return fmt.Errorf("%w: recipient_phone is required", domain.ErrInvalidInput)
	case in.ExpectedReturnDate.IsZero():
		return fmt.Errorf("%w: expected_return_date is required", domain.ErrInvalidInput)
	}
	return nil
}

// Distribute hands a laptop to a recipient. The laptop must exist, be
// Available and have no open distribution record; the record is created and
// the status flipped to Distributed in the same transaction. Of two
// concurrent calls for one laptop exactly one succeeds, the other gets
// ErrLaptopNotAvailable or ErrAlreadyDistributed.
func (s *DistributionService) Distribute(ctx context.Context, input *DistributeInput) (*models.Distribution, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var created *models.Distribution

	err := retry.Do(ctx, func(ctx context.Context) error {
		return s.store.InTransaction(ctx, func(tx repositories.Store) error {
			laptop, err := tx.Laptops().GetByIDForUpdate(ctx, input.LaptopID)
			if err != nil {
				return err
			}
			if laptop.Status != domain.StatusAvailable {
				return fmt.Errorf("%w: laptop is %s", domain.ErrLaptopNotAvailable, laptop.Status)
			}

			open, err := tx.Distributions().CountOpenByLaptopID(ctx, laptop.ID)
			if err != nil {
				return err
			}
			if open > 0 {
				return domain.ErrAlreadyDistributed
			}

			dist := &models.Distribution{
				LaptopID:           laptop.ID,
				RecipientName:      input.RecipientName,
				RecipientEmail:     input.RecipientEmail,
				RecipientPhone:     input.RecipientPhone,
				DateDistributed:    time.Now(),
				ExpectedReturnDate: input.ExpectedReturnDate,
				Notes:              input.Notes,
				Version:            1,
			}
			if err := tx.Distributions().Create(ctx, dist); err != nil {
				return err
			}

			if err := tx.Laptops().UpdateStatus(ctx, laptop.ID, laptop.Status, domain.StatusDistributed); err != nil {
				return err
			}

			created = dist
			return nil
		})
	}, s.retryOpts...)

	if err != nil {
		return nil, err
	}
	return created, nil
}

// Return closes an open distribution record and makes the laptop Available
// again, atomically. Returning an already-returned record is a conflict and
// leaves the laptop status untouched.
func (s *DistributionService) Return(ctx context.Context, id uint, notes string) (*models.Distribution, error) {
	var returned *models.Distribution

	err := retry.Do(ctx, func(ctx context.Context) error {
		return s.store.InTransaction(ctx, func(tx repositories.Store) error {
			dist, err := tx.Distributions().GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if dist.DateReturned != nil {
				return domain.ErrAlreadyReturned
			}

			now := time.Now()
			dist.DateReturned = &now
			dist.Notes = notes
			if err := tx.Distributions().UpdateVersioned(ctx, dist); err != nil {
				return err
			}

			laptop, err := tx.Laptops().GetByIDForUpdate(ctx, dist.LaptopID)
			if err != nil {
				return err
			}
			if err := tx.Laptops().UpdateStatus(ctx, laptop.ID, laptop.Status, domain.StatusAvailable); err != nil {
				return err
			}

			returned = dist
			return nil
		})
	}, s.retryOpts...)

	if err != nil {
		return nil, err
	}
	return returned, nil
}

// UpdateDistributionInput represents a partial update. Nil fields are left
// unchanged. LaptopID and DateDistributed are immutable once set.
type UpdateDistributionInput struct {
	LaptopID           *uint      `json:"laptop_id,omitempty"`
	DateDistributed    *time.Time `json:"date_distributed,omitempty"`
	RecipientName      *string    `json:"recipient_name,omitempty"`
	RecipientEmail     *string    `json:"recipient_email,omitempty"`
	RecipientPhone     *string    `json:"recipient_phone,omitempty"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	DateReturned       *time.Time `json:"date_returned,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
}

// Update applies a partial update to a distribution record. Setting
// DateReturned on an open record runs the full return normalization: the
// laptop flips to Available in the same transaction, so updates that bypass
// Return cannot drift the pair out of sync.
func (s *DistributionService) Update(ctx context.Context, id uint, input *UpdateDistributionInput) (*models.Distribution, error) {
	if input.LaptopID != nil {
		return nil, fmt.Errorf("%w: laptop_id", domain.ErrImmutableField)
	}
	if input.DateDistributed != nil {
		return nil, fmt.Errorf("%w: date_distributed", domain.ErrImmutableField)
	}

	var updated *models.Distribution

	err := retry.Do(ctx, func(ctx context.Context) error {
		return s.store.InTransaction(ctx, func(tx repositories.Store) error {
			dist, err := tx.Distributions().GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}

			closing := input.DateReturned != nil && dist.DateReturned == nil

			if input.RecipientName != nil {
				dist.RecipientName = *input.RecipientName
			}
			if input.RecipientEmail != nil {
				dist.RecipientEmail = *input.RecipientEmail
			}
			if input.RecipientPhone != nil {
				dist.RecipientPhone = *input.RecipientPhone
			}
			if input.ExpectedReturnDate != nil {
				dist.ExpectedReturnDate = *input.ExpectedReturnDate
			}
			if input.DateReturned != nil {
				dist.DateReturned = input.DateReturned
			}
			if input.Notes != nil {
				dist.Notes = *input.Notes
			}

			if err := tx.Distributions().UpdateVersioned(ctx, dist); err != nil {
				return err
			}

			if closing {
				laptop, err := tx.Laptops().GetByIDForUpdate(ctx, dist.LaptopID)
				if err != nil {
					return err
				}
				if err := tx.Laptops().UpdateStatus(ctx, laptop.ID, laptop.Status, domain.StatusAvailable); err != nil {
					return err
				}
			}

			updated = dist
			return nil
		})
	}, s.retryOpts...)

	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetAll gets all distribution records, newest first
func (s *DistributionService) GetAll(ctx context.Context) ([]*models.Distribution, error) {
	return s.store.Distributions().List(ctx)
}

// GetByID gets a distribution record by ID
func (s *DistributionService) GetByID(ctx context.Context, id uint) (*models.Distribution, error) {
	return s.store.Distributions().GetByID(ctx, id)
}

// GetByLaptopID gets the distribution history of a laptop, newest first
func (s *DistributionService) GetByLaptopID(ctx context.Context, laptopID uint) ([]*models.Distribution, error) {
	dists, err := s.store.Distributions().ListByLaptopID(ctx, laptopID)
	if err != nil {
		return nil, err
	}
	if len(dists) == 0 {
		return nil, domain.ErrDistributionNotFound
	}
	return dists, nil
}

// Delete removes a distribution record. Administrative escape hatch: it
// bypasses the lifecycle invariants and does not touch the laptop status.
func (s *DistributionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.store.Distributions().GetByID(ctx, id); err != nil {
		return err
	}
	return s.store.Distributions().Delete(ctx, id)
}
