package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/stayrate/internal/core/domain"
)

// DatasetIngestor is the inbound contract for booking-file upload
// orchestration.
type DatasetIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Dataset, error)
}

// DatasetReader is the inbound read model for dataset metadata/state,
// served to the dashboard's enrichment polling loop.
type DatasetReader interface {
	GetByID(ctx context.Context, id string) (*domain.Dataset, error)
	Delete(ctx context.Context, id string) error
}

// DatasetEnricher is the inbound contract for asynchronous enrichment.
type DatasetEnricher interface {
	EnrichByID(ctx context.Context, datasetID string) error
}

// AnalyticsService builds the chart/calendar model for one dataset.
type AnalyticsService interface {
	Calendar(ctx context.Context, datasetID string, now time.Time, forwardDays int) (*domain.AnalyticsModel, error)
	Summary(ctx context.Context, datasetID string) (*domain.AnalyticsSummary, error)
}

// RecommendationService produces and persists a recommendation window.
type RecommendationService interface {
	Window(ctx context.Context, datasetID string, from time.Time, days int) ([]domain.PriceRecommendation, error)
}

// AssistantService is the inbound contract for assistant chat.
type AssistantService interface {
	Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResult, error)
}
