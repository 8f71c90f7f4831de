package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendtrack/internal/adapters/persistence/memory"
	"lendtrack/internal/adapters/persistence/models"
	"lendtrack/internal/core/domain"
	"lendtrack/internal/core/services"
	"lendtrack/internal/pkg/retry"
)

func newDistributionFixture(t *testing.T) (*memory.Store, *services.DistributionService, *models.Laptop) {
	t.Helper()

	store := memory.NewStore()
	svc := services.NewDistributionService(store, retry.WithBaseDelay(time.Millisecond))

	laptop := &models.Laptop{
		Brand:        "Dell",
		Model:        "Latitude 5440",
		SerialNumber: "SN-001",
		Status:       domain.StatusAvailable,
		PurchaseDate: "2024-01-15",
		Notes:        "inventory",
	}
	require.NoError(t, store.Laptops().Create(context.Background(), laptop))

	return store, svc, laptop
}

func distributeInput(laptopID uint) *services.DistributeInput {
	return &services.DistributeInput{
		LaptopID:           laptopID,
		RecipientName:      "Grace Hopper",
		RecipientEmail:     "grace@example.com",
		RecipientPhone:     "0812345678",
		ExpectedReturnDate: time.Now().Add(14 * 24 * time.Hour),
		Notes:              "training cohort",
	}
}

func Test_Distribute_FlipsStatusAndOpensRecord(t *testing.T) {
	ctx := context.Background()
	store, svc, laptop := newDistributionFixture(t)

	dist, err := svc.Distribute(ctx, distributeInput(laptop.ID))
	require.NoError(t, err)
	require.NotNil(t, dist)

	assert.Equal(t, laptop.ID, dist.LaptopID)
	assert.Nil(t, dist.DateReturned)
	assert.False(t, dist.DateDistributed.IsZero())
	assert.Equal(t, uint(1), dist.Version)

	got, err := store.Laptops().GetByID(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDistributed, got.Status)
}

func Test_Distribute_ValidatesInput(t *testing.T) {
	ctx := context.Background()
	_, svc, laptop := newDistributionFixture(t)

	in := distributeInput(laptop.ID)
	in.RecipientEmail = ""

	_, err := svc.Distribute(ctx, in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func Test_Distribute_MissingLaptop(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newDistributionFixture(t)

	_, err := svc.Distribute(ctx, distributeInput(999))
	require.ErrorIs(t, err, domain.ErrLaptopNotFound)
}

func Test_Distribute_RejectsUnavailableLaptop(t *testing.T) {
	ctx := context.Background()
	store, svc, laptop := newDistributionFixture(t)

	require.NoError(t, store.Laptops().UpdateStatus(ctx, laptop.ID, domain.StatusAvailable, domain.StatusNeedsRepair))

	_, err := svc.Distribute(ctx, distributeInput(laptop.ID))
	require.ErrorIs(t, err, domain.ErrLaptopNotAvailable)

	// nothing was created
	dists, listErr := store.Distributions().List(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, dists)
}

func Test_Distribute_SecondCallConflicts(t *testing.T) {
	ctx := context.Background()
	_, svc, laptop := newDistributionFixture(t)

	_, err := svc.Distribute(ctx, distributeInput(laptop.ID))
	require.NoError(t, err)

	_, err = svc.Distribute(ctx, distributeInput(laptop.ID))
	require.ErrorIs(t, err, domain.ErrLaptopNotAvailable)
}

func Test_Distribute_ConcurrentCallsExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	store, svc, laptop := newDistributionFixture(t)

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Distribute(ctx, distributeInput(laptop.ID))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.True(t,
			domain.IsConflict(err),
			"loser must see a business conflict, got: %v", err)
	}
	assert.Equal(t, 1, wins, "exactly one concurrent distribute may succeed")

	open, err := store.Distributions().CountOpenByLaptopID(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), open)
}

func Test_Return_ClosesRecordAndFreesLaptop(t *testing.T) {
	ctx := context.Background()
	store, svc, laptop := newDistributionFixture(t)

	dist, err := svc.Distribute(ctx, distributeInput(laptop.ID))
	require.NoError(t, err)

	returned, err := svc.Return(ctx, dist.ID, "minor scratches")
	require.NoError(t, err)
	require.NotNil(t, returned.DateReturned)
	assert.Equal(t, "minor scratches", returned.Notes)
	assert.Equal(t, uint(2), returned.Version)

	got, err := store.Laptops().GetByID(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, got.Status)
}

func Test_Return_TwiceConflictsAndLeavesStatus(t *testing.T) {
	ctx := context.Background()
	store, svc, laptop := newDistributionFixture(t)

	dist, err := svc.Distribute(ctx, distributeInput(laptop.ID))
	require.NoError(t, err)

	_, err = svc.Return(ctx, dist.ID, "")
	require.NoError(t, err)

	// hand the laptop out again, then return the OLD record
	second, err := svc.Distribute(ctx, distributeInput(laptop.ID))
	require.NoError(t, err)

	_, err = svc.Return(ctx, dist.ID, "")
	require.ErrorIs(t, err, domain.ErrAlreadyReturned)

	// the second loan is untouched
	got, err := store.Laptops().GetByID(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDistributed, got.Status)

	stillOpen, err := store.Distributions().GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Nil(t, stillOpen.DateReturned)
}

func Test_Return_EmptyNotesClearPriorNotes(t *testing.T) {
	ctx := context.Background()
	_, svc, laptop := newDistributionFixture(t)

	dist, err := svc.Distribute(ctx, distributeInput(laptop.ID))
	require.NoError(t, err)
	require.Equal(t, "training cohort", dist.Notes)

	// notes are overwritten on return, even with an empty value
	returned, err := svc.Return(ctx, dist.ID, "")
	require.NoError(t, err)
	assert.Empty(t, returned.Notes)
}

func Test_Return_MissingRecord(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newDistributionFixture(t)

	_, err := svc.Return(ctx, 42, "")
	require.ErrorIs(t, err, domain.ErrDistributionNotFound)
}

func Test_Update_RejectsImmutableFields(t *testing.T) {
	ctx := context.Background()
	_, svc, laptop := newDistributionFixture(t)

	dist, err := svc.Distribute(ctx, distributeInput(laptop.ID))
	require.NoError(t, err)

	otherLaptop := uint(2)
	_, err = svc.Update(ctx, dist.ID, &services.UpdateDistributionInput{LaptopID: &otherLaptop})
	require.ErrorIs(t, err, domain.ErrImmutableField)

	when := time.Now()
	_, err = svc.Update(ctx, dist.ID, &services.UpdateDistributionInput{DateDistributed: &when})
	require.ErrorIs(t, err, domain.ErrImmutableField)
}

func Test_Update_SettingDateReturnedFreesLaptop(t *testing.T) {
	ctx := context.Background()
	store, svc, laptop := newDistributionFixture(t)

	dist, err := svc.Distribute(ctx, distributeInput(laptop.ID))
	require.NoError(t, err)

	when := time.Now()
	updated, err := svc.Update(ctx, dist.ID, &services.UpdateDistributionInput{DateReturned: &when})
	require.NoError(t, err)
	require.NotNil(t, updated.DateReturned)

	got, err := store.Laptops().GetByID(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, got.Status, "closing via update must free the laptop in the same transaction")
}

func Test_Update_PlainFieldEditKeepsLaptopDistributed(t *testing.T) {
	ctx := context.Background()
	store, svc, laptop := newDistributionFixture(t)

	dist, err := svc.Distribute(ctx, distributeInput(laptop.ID))
	require.NoError(t, err)

	notes := "extended to next month"
	later := time.Now().Add(30 * 24 * time.Hour)
	updated, err := svc.Update(ctx, dist.ID, &services.UpdateDistributionInput{
		Notes:              &notes,
		ExpectedReturnDate: &later,
	})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)
	assert.Nil(t, updated.DateReturned)

	got, err := store.Laptops().GetByID(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDistributed, got.Status)
}

func Test_Distribute_RetriesTransientWriteConflicts(t *testing.T) {
	ctx := context.Background()
	store, svc, laptop := newDistributionFixture(t)

	// the first two attempts hit a conflicting write, the third lands
	store.InjectWriteErrors(domain.ErrWriteConflict, domain.ErrWriteConflict)

	dist, err := svc.Distribute(ctx, distributeInput(laptop.ID))
	require.NoError(t, err)
	require.NotNil(t, dist)

	got, err := store.Laptops().GetByID(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDistributed, got.Status)

	open, err := store.Distributions().CountOpenByLaptopID(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), open, "failed attempts must not leave extra records behind")
}

func Test_Distribute_ExhaustedRetriesLeaveStateUntouched(t *testing.T) {
	ctx := context.Background()
	store, svc, laptop := newDistributionFixture(t)

	store.InjectWriteErrors(domain.ErrWriteConflict, domain.ErrWriteConflict, domain.ErrWriteConflict)

	_, err := svc.Distribute(ctx, distributeInput(laptop.ID))
	require.ErrorIs(t, err, domain.ErrRetryExhausted)

	got, err := store.Laptops().GetByID(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, got.Status)

	dists, err := store.Distributions().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, dists, "rolled back attempts must not persist records")
}

func Test_Lifecycle_RepeatedRoundTripsStayConsistent(t *testing.T) {
	ctx := context.Background()
	store, svc, laptop := newDistributionFixture(t)

	const rounds = 5
	for i := 0; i < rounds; i++ {
		dist, err := svc.Distribute(ctx, distributeInput(laptop.ID))
		require.NoError(t, err)

		_, err = svc.Return(ctx, dist.ID, "")
		require.NoError(t, err)
	}

	got, err := store.Laptops().GetByID(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, got.Status)

	open, err := store.Distributions().CountOpenByLaptopID(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), open)

	history, err := svc.GetByLaptopID(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Len(t, history, rounds)
}

func Test_GetByLaptopID_EmptyHistoryIsNotFound(t *testing.T) {
	ctx := context.Background()
	_, svc, laptop := newDistributionFixture(t)

	_, err := svc.GetByLaptopID(ctx, laptop.ID)
	require.ErrorIs(t, err, domain.ErrDistributionNotFound)
}

func Test_Delete_DoesNotTouchLaptopStatus(t *testing.T) {
	ctx := context.Background()
	store, svc, laptop := newDistributionFixture(t)

	dist, err := svc.Distribute(ctx, distributeInput(laptop.ID))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, dist.ID))

	_, err = svc.GetByID(ctx, dist.ID)
	require.ErrorIs(t, err, domain.ErrDistributionNotFound)

	got, err := store.Laptops().GetByID(ctx, laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDistributed, got.Status)
}

func Test_Delete_MissingRecord(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newDistributionFixture(t)

	err := svc.Delete(ctx, 77)
	require.ErrorIs(t, err, domain.ErrDistributionNotFound)
}
