package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/stayrate/internal/core/domain"
)

// DatasetRepository persists and reads dataset state.
type DatasetRepository interface {
	Create(ctx context.Context, ds *domain.Dataset) error
	GetByID(ctx context.Context, id string) (*domain.Dataset, error)
	UpdateStatus(ctx context.Context, id string, status domain.DatasetStatus, enrichment domain.EnrichmentStatus, errMessage string) error
	SaveCounts(ctx context.Context, id string, rows, columns, rejected int) error
	Delete(ctx context.Context, id string) error
}

// BookingRepository persists normalized booking rows.
type BookingRepository interface {
	InsertBatch(ctx context.Context, records []domain.BookingRecord) error
	ListByDataset(ctx context.Context, datasetID string) ([]domain.BookingRecord, error)
	DeleteByDataset(ctx context.Context, datasetID string) error
}

// RecommendationRepository persists recommendation windows for the
// calendar join.
type RecommendationRepository interface {
	UpsertBatch(ctx context.Context, datasetID string, recs []domain.PriceRecommendation) error
	ListByDataset(ctx context.Context, datasetID string) ([]domain.PriceRecommendation, error)
}

// CompetitorRepository stores observed competitor prices by ISO date.
type CompetitorRepository interface {
	UpsertBatch(ctx context.Context, prices []domain.CompetitorPrice) error
	ListRange(ctx context.Context, from, to string) ([]domain.CompetitorPrice, error)
}

// ObjectStorage stores raw uploaded files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes dataset enrichment events.
type MessageQueue interface {
	PublishDatasetUploaded(ctx context.Context, datasetID string) error
	SubscribeDatasetUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// SpreadsheetParser turns a stored upload into loose records.
type SpreadsheetParser interface {
	Parse(ctx context.Context, ds *domain.Dataset) ([]domain.RawRecord, error)
}

// WeatherProvider returns daily weather for a date range, keyed by ISO date.
type WeatherProvider interface {
	DailyRange(ctx context.Context, from, to time.Time) (map[string]domain.DailyWeather, error)
}

// HolidayCalendar answers whether a calendar day is a public holiday.
type HolidayCalendar interface {
	IsHoliday(day time.Time) bool
}

// RecommendationProvider generates a recommendation window. Implemented by
// the remote model backend and by the deterministic demo generator.
type RecommendationProvider interface {
	Recommend(ctx context.Context, from time.Time, days int, basePrice float64) ([]domain.PriceRecommendation, error)
}

// ConversationStore persists assistant chat history.
type ConversationStore interface {
	EnsureConversation(ctx context.Context, userID, conversationID string) (*domain.Conversation, error)
	AppendMessage(ctx context.Context, message domain.ConversationMessage) error
	ListRecentMessages(ctx context.Context, userID, conversationID string, limit int) ([]domain.ConversationMessage, error)
}

// AnswerGenerator creates the assistant's user-facing reply.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, prompt string) (string, error)
}
