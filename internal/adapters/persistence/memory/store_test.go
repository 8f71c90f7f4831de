package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendtrack/internal/adapters/persistence/memory"
	"lendtrack/internal/adapters/persistence/models"
	"lendtrack/internal/adapters/persistence/repositories"
	"lendtrack/internal/core/domain"
)

func newLaptop(serial string) *models.Laptop {
	return &models.Laptop{
		Brand:        "Lenovo",
		Model:        "ThinkPad T14",
		SerialNumber: serial,
		Status:       domain.StatusAvailable,
		PurchaseDate: "2024-03-01",
		Notes:        "inventory",
	}
}

func Test_Store_TransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	laptop := newLaptop("SN-100")
	require.NoError(t, store.Laptops().Create(ctx, laptop))

	boom := errors.New("boom")
	err := store.InTransaction(ctx, func(tx repositories.Store) error {
		if err := tx.Laptops().UpdateStatus(ctx, laptop.ID, domain.StatusAvailable, domain.StatusDistributed); err != nil {
			return err
		}
		if err := tx.Distributions().Create(ctx, &models.Distribution{LaptopID: laptop.ID, DateDistributed: time.Now()}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// both writes must be gone
	got, err := store.Laptops().GetByID(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, got.Status)

	dists, err := store.Distributions().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, dists)
}

func Test_Store_TransactionCommits(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	laptop := newLaptop("SN-101")
	require.NoError(t, store.Laptops().Create(ctx, laptop))

	err := store.InTransaction(ctx, func(tx repositories.Store) error {
		return tx.Laptops().UpdateStatus(ctx, laptop.ID, domain.StatusAvailable, domain.StatusDistributed)
	})
	require.NoError(t, err)

	got, err := store.Laptops().GetByID(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDistributed, got.Status)
}

func Test_Store_UpdateStatusGuardsExpectedState(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	laptop := newLaptop("SN-102")
	require.NoError(t, store.Laptops().Create(ctx, laptop))

	// wrong expected status matches zero rows
	err := store.Laptops().UpdateStatus(ctx, laptop.ID, domain.StatusDistributed, domain.StatusAvailable)
	require.ErrorIs(t, err, domain.ErrWriteConflict)

	got, err := store.Laptops().GetByID(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, got.Status)
}

func Test_Store_UpdateVersionedDetectsConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	dist := &models.Distribution{
		LaptopID:           1,
		RecipientName:      "Ada",
		RecipientEmail:     "ada@example.com",
		RecipientPhone:     "0800000001",
		DateDistributed:    time.Now(),
		ExpectedReturnDate: time.Now().Add(7 * 24 * time.Hour),
	}
	require.NoError(t, store.Distributions().Create(ctx, dist))
	require.Equal(t, uint(1), dist.Version)

	stale := *dist

	dist.Notes = "first writer"
	require.NoError(t, store.Distributions().UpdateVersioned(ctx, dist))
	assert.Equal(t, uint(2), dist.Version)

	// the stale copy still carries version 1 and must lose
	stale.Notes = "second writer"
	err := store.Distributions().UpdateVersioned(ctx, &stale)
	require.ErrorIs(t, err, domain.ErrWriteConflict)

	got, err := store.Distributions().GetByID(ctx, dist.ID)
	require.NoError(t, err)
	assert.Equal(t, "first writer", got.Notes)
	assert.Equal(t, uint(2), got.Version)
}

func Test_Store_InjectedWriteErrorsAreConsumedInOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	laptop := newLaptop("SN-103")
	require.NoError(t, store.Laptops().Create(ctx, laptop))

	store.InjectWriteErrors(domain.ErrWriteConflict)

	err := store.Laptops().UpdateStatus(ctx, laptop.ID, domain.StatusAvailable, domain.StatusDistributed)
	require.ErrorIs(t, err, domain.ErrWriteConflict)

	// queue is drained, the same write now succeeds
	err = store.Laptops().UpdateStatus(ctx, laptop.ID, domain.StatusAvailable, domain.StatusDistributed)
	require.NoError(t, err)
}

func Test_Store_ListOverdueOpen(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now()

	overdue := &models.Distribution{
		LaptopID:           1,
		DateDistributed:    now.Add(-10 * 24 * time.Hour),
		ExpectedReturnDate: now.Add(-3 * 24 * time.Hour),
	}
	require.NoError(t, store.Distributions().Create(ctx, overdue))

	onTime := &models.Distribution{
		LaptopID:           2,
		DateDistributed:    now.Add(-1 * 24 * time.Hour),
		ExpectedReturnDate: now.Add(6 * 24 * time.Hour),
	}
	require.NoError(t, store.Distributions().Create(ctx, onTime))

	returnedAt := now.Add(-4 * 24 * time.Hour)
	closed := &models.Distribution{
		LaptopID:           3,
		DateDistributed:    now.Add(-20 * 24 * time.Hour),
		ExpectedReturnDate: now.Add(-5 * 24 * time.Hour),
		DateReturned:       &returnedAt,
	}
	require.NoError(t, store.Distributions().Create(ctx, closed))

	got, err := store.Distributions().ListOverdueOpen(ctx, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, overdue.ID, got[0].ID)
}
