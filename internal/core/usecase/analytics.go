package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/kirillkom/stayrate/internal/core/domain"
	"github.com/kirillkom/stayrate/internal/core/ports"
)

// AnalyticsUseCase assembles the chart/calendar model for one dataset by
// loading its bookings plus the recommendation and competitor lookups, then
// running the pure aggregation.
type AnalyticsUseCase struct {
	datasets     ports.DatasetRepository
	bookings     ports.BookingRepository
	recs         ports.RecommendationRepository
	competitors  ports.CompetitorRepository
	unitCapacity int
}

func NewAnalyticsUseCase(
	datasets ports.DatasetRepository,
	bookings ports.BookingRepository,
	recs ports.RecommendationRepository,
	competitors ports.CompetitorRepository,
	unitCapacity int,
) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		datasets:     datasets,
		bookings:     bookings,
		recs:         recs,
		competitors:  competitors,
		unitCapacity: unitCapacity,
	}
}

func (uc *AnalyticsUseCase) Calendar(
	ctx context.Context,
	datasetID string,
	now time.Time,
	forwardDays int,
) (*domain.AnalyticsModel, error) {
	if forwardDays <= 0 {
		forwardDays = 30
	}

	records, err := uc.loadReadyBookings(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	recLookup := make(map[string]domain.PriceRecommendation)
	if recs, err := uc.recs.ListByDataset(ctx, datasetID); err == nil {
		for _, rec := range recs {
			recLookup[rec.Date] = rec
		}
	}

	compLookup := make(map[string]float64)
	from := truncateToDay(now).AddDate(0, 0, -365).Format("2006-01-02")
	to := truncateToDay(now).AddDate(0, 0, forwardDays).Format("2006-01-02")
	if prices, err := uc.competitors.ListRange(ctx, from, to); err == nil {
		for _, p := range prices {
			compLookup[p.Date] = p.Price
		}
	}

	return BuildAnalytics(AggregationInput{
		Records:          records,
		Recommendations:  recLookup,
		CompetitorPrices: compLookup,
		Now:              now,
		ForwardDays:      forwardDays,
		UnitCapacity:     uc.unitCapacity,
	}), nil
}

func (uc *AnalyticsUseCase) Summary(ctx context.Context, datasetID string) (*domain.AnalyticsSummary, error) {
	records, err := uc.loadReadyBookings(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	summary := buildSummary(records, uc.unitCapacity)
	return &summary, nil
}

func (uc *AnalyticsUseCase) loadReadyBookings(ctx context.Context, datasetID string) ([]domain.BookingRecord, error) {
	ds, err := uc.datasets.GetByID(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset by id: %w", err)
	}
	if ds.Status != domain.StatusReady {
		return nil, domain.WrapError(domain.ErrInvalidInput, "load bookings",
			fmt.Errorf("dataset %s is %s, not ready", datasetID, ds.Status))
	}

	records, err := uc.bookings.ListByDataset(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return records, nil
}
