package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/kirillkom/stayrate/internal/core/domain"
	"github.com/kirillkom/stayrate/internal/core/ports"
)

// RecommendUseCase produces a recommendation window through the configured
// provider (remote model backend or the seeded demo generator), clamps the
// values for display and persists the window for the calendar join.
type RecommendUseCase struct {
	provider    ports.RecommendationProvider
	repo        ports.RecommendationRepository
	datasets    ports.DatasetRepository
	bookings    ports.BookingRepository
	basePrice   float64
	defaultDays int
}

func NewRecommendUseCase(
	provider ports.RecommendationProvider,
	repo ports.RecommendationRepository,
	datasets ports.DatasetRepository,
	bookings ports.BookingRepository,
	basePrice float64,
	defaultDays int,
) *RecommendUseCase {
	if defaultDays <= 0 {
		defaultDays = 30
	}
	return &RecommendUseCase{
		provider:    provider,
		repo:        repo,
		datasets:    datasets,
		bookings:    bookings,
		basePrice:   basePrice,
		defaultDays: defaultDays,
	}
}

func (uc *RecommendUseCase) Window(
	ctx context.Context,
	datasetID string,
	from time.Time,
	days int,
) ([]domain.PriceRecommendation, error) {
	if days <= 0 {
		days = uc.defaultDays
	}
	if days > 90 {
		days = 90
	}

	base, err := uc.resolveBasePrice(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	recs, err := uc.provider.Recommend(ctx, from, days, base)
	if err != nil {
		return nil, fmt.Errorf("recommendation provider: %w", err)
	}

	for i := range recs {
		clampRecommendation(&recs[i])
	}

	if datasetID != "" {
		if err := uc.repo.UpsertBatch(ctx, datasetID, recs); err != nil {
			return nil, fmt.Errorf("persist recommendation window: %w", err)
		}
	}
	return recs, nil
}

// resolveBasePrice prefers the dataset's own mean price over the configured
// default, so recommendations track the property's actual rates.
func (uc *RecommendUseCase) resolveBasePrice(ctx context.Context, datasetID string) (float64, error) {
	if datasetID == "" {
		return uc.basePrice, nil
	}

	ds, err := uc.datasets.GetByID(ctx, datasetID)
	if err != nil {
		return 0, fmt.Errorf("fetch dataset by id: %w", err)
	}
	if ds.Status != domain.StatusReady {
		return uc.basePrice, nil
	}

	records, err := uc.bookings.ListByDataset(ctx, datasetID)
	if err != nil || len(records) == 0 {
		return uc.basePrice, nil
	}
	var sum float64
	for _, r := range records {
		sum += r.Price
	}
	return sum / float64(len(records)), nil
}

func clampRecommendation(rec *domain.PriceRecommendation) {
	if rec.PredictedOccupancy < 0 {
		rec.PredictedOccupancy = 0
	}
	if rec.PredictedOccupancy > 1 {
		rec.PredictedOccupancy = 1
	}
	if rec.CurrentPrice < 0 {
		rec.CurrentPrice = 0
	}
	if rec.RecommendedPrice < 0 {
		rec.RecommendedPrice = 0
	}
	if rec.CurrentPrice > 0 {
		rec.PriceChangePercent = round2((rec.RecommendedPrice - rec.CurrentPrice) / rec.CurrentPrice * 100)
	}
	switch rec.Confidence {
	case domain.ConfidenceLow, domain.ConfidenceMedium, domain.ConfidenceHigh:
	default:
		rec.Confidence = domain.ConfidenceLow
	}
}
