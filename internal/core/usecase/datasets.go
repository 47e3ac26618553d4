package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/stayrate/internal/core/domain"
	"github.com/kirillkom/stayrate/internal/core/ports"
)

// DatasetAdminUseCase serves dataset state to the dashboard's polling loop
// and handles user deletion.
type DatasetAdminUseCase struct {
	datasets ports.DatasetRepository
	bookings ports.BookingRepository
	storage  ports.ObjectStorage
}

func NewDatasetAdminUseCase(
	datasets ports.DatasetRepository,
	bookings ports.BookingRepository,
	storage ports.ObjectStorage,
) *DatasetAdminUseCase {
	return &DatasetAdminUseCase{
		datasets: datasets,
		bookings: bookings,
		storage:  storage,
	}
}

func (uc *DatasetAdminUseCase) GetByID(ctx context.Context, id string) (*domain.Dataset, error) {
	return uc.datasets.GetByID(ctx, id)
}

// Delete removes bookings, the stored file and the metadata row. The storage
// object is removed best-effort after the rows are gone.
func (uc *DatasetAdminUseCase) Delete(ctx context.Context, id string) error {
	ds, err := uc.datasets.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch dataset by id: %w", err)
	}

	if err := uc.bookings.DeleteByDataset(ctx, id); err != nil {
		return fmt.Errorf("delete bookings: %w", err)
	}
	if err := uc.datasets.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete dataset metadata: %w", err)
	}
	_ = uc.storage.Remove(ctx, ds.StoragePath)
	return nil
}
