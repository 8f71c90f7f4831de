package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendtrack/internal/adapters/persistence/memory"
	"lendtrack/internal/core/domain"
	"lendtrack/internal/core/services"
)

func createInput(serial string) *services.CreateLaptopInput {
	return &services.CreateLaptopInput{
		Brand:        "HP",
		Model:        "EliteBook 840",
		SerialNumber: serial,
		Status:       domain.StatusAvailable,
		PurchaseDate: "2023-11-20",
		Notes:        "bulk purchase",
	}
}

func Test_LaptopCreate_Succeeds(t *testing.T) {
	ctx := context.Background()
	svc := services.NewLaptopService(memory.NewStore())

	laptop, err := svc.Create(ctx, createInput("SN-200"))
	require.NoError(t, err)
	assert.NotZero(t, laptop.ID)
	assert.Equal(t, domain.StatusAvailable, laptop.Status)
}

func Test_LaptopCreate_RequiresAllFields(t *testing.T) {
	ctx := context.Background()
	svc := services.NewLaptopService(memory.NewStore())

	in := createInput("SN-201")
	in.Brand = ""

	_, err := svc.Create(ctx, in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func Test_LaptopCreate_RejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	svc := services.NewLaptopService(memory.NewStore())

	in := createInput("SN-202")
	in.Status = "Broken"

	_, err := svc.Create(ctx, in)
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func Test_LaptopCreate_RejectsDuplicateSerial(t *testing.T) {
	ctx := context.Background()
	svc := services.NewLaptopService(memory.NewStore())

	_, err := svc.Create(ctx, createInput("SN-203"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, createInput("SN-203"))
	require.ErrorIs(t, err, domain.ErrDuplicateSerial)
}

func Test_LaptopGetByID_Missing(t *testing.T) {
	ctx := context.Background()
	svc := services.NewLaptopService(memory.NewStore())

	_, err := svc.GetByID(ctx, 404)
	require.ErrorIs(t, err, domain.ErrLaptopNotFound)
}

func Test_LaptopUpdate_AdministrativeStatusChange(t *testing.T) {
	ctx := context.Background()
	svc := services.NewLaptopService(memory.NewStore())

	laptop, err := svc.Create(ctx, createInput("SN-204"))
	require.NoError(t, err)

	repair := domain.StatusNeedsRepair
	updated, err := svc.Update(ctx, laptop.ID, &services.UpdateLaptopInput{Status: &repair})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNeedsRepair, updated.Status)
}

func Test_LaptopUpdate_CannotSetDistributedManually(t *testing.T) {
	ctx := context.Background()
	svc := services.NewLaptopService(memory.NewStore())

	laptop, err := svc.Create(ctx, createInput("SN-205"))
	require.NoError(t, err)

	distributed := domain.StatusDistributed
	_, err = svc.Update(ctx, laptop.ID, &services.UpdateLaptopInput{Status: &distributed})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func Test_LaptopUpdate_CannotLeaveDistributedViaPlainUpdate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := services.NewLaptopService(store)

	laptop, err := svc.Create(ctx, createInput("SN-206"))
	require.NoError(t, err)
	require.NoError(t, store.Laptops().UpdateStatus(ctx, laptop.ID, domain.StatusAvailable, domain.StatusDistributed))

	available := domain.StatusAvailable
	_, err = svc.Update(ctx, laptop.ID, &services.UpdateLaptopInput{Status: &available})
	require.ErrorIs(t, err, domain.ErrLaptopNotAvailable)
}

func Test_LaptopUpdate_PartialFields(t *testing.T) {
	ctx := context.Background()
	svc := services.NewLaptopService(memory.NewStore())

	laptop, err := svc.Create(ctx, createInput("SN-207"))
	require.NoError(t, err)

	notes := "reassigned to east campus"
	updated, err := svc.Update(ctx, laptop.ID, &services.UpdateLaptopInput{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)
	assert.Equal(t, "HP", updated.Brand, "unset fields stay unchanged")
}

func Test_LaptopDelete_Missing(t *testing.T) {
	ctx := context.Background()
	svc := services.NewLaptopService(memory.NewStore())

	err := svc.Delete(ctx, 404)
	require.ErrorIs(t, err, domain.ErrLaptopNotFound)
}

func Test_LaptopDelete_Succeeds(t *testing.T) {
	ctx := context.Background()
	svc := services.NewLaptopService(memory.NewStore())

	laptop, err := svc.Create(ctx, createInput("SN-208"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, laptop.ID))

	_, err = svc.GetByID(ctx, laptop.ID)
	require.ErrorIs(t, err, domain.ErrLaptopNotFound)
}
