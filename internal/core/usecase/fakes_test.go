package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/kirillkom/stayrate/internal/core/domain"
)

type fakeDatasetRepo struct {
	datasets map[string]*domain.Dataset

	createErr error
	updateErr error

	statusUpdates []domain.DatasetStatus
	lastError     string
	savedRows     int
	savedColumns  int
	savedRejected int
}

func newFakeDatasetRepo() *fakeDatasetRepo {
	return &fakeDatasetRepo{datasets: make(map[string]*domain.Dataset)}
}

func (f *fakeDatasetRepo) Create(_ context.Context, ds *domain.Dataset) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *ds
	f.datasets[ds.ID] = &copied
	return nil
}

func (f *fakeDatasetRepo) GetByID(_ context.Context, id string) (*domain.Dataset, error) {
	ds, ok := f.datasets[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDatasetNotFound, "get dataset", errors.New(id))
	}
	copied := *ds
	return &copied, nil
}

func (f *fakeDatasetRepo) UpdateStatus(
	_ context.Context,
	id string,
	status domain.DatasetStatus,
	enrichment domain.EnrichmentStatus,
	errMessage string,
) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	ds, ok := f.datasets[id]
	if !ok {
		return domain.WrapError(domain.ErrDatasetNotFound, "update status", errors.New(id))
	}
	ds.Status = status
	ds.Enrichment = enrichment
	ds.Error = errMessage
	f.statusUpdates = append(f.statusUpdates, status)
	f.lastError = errMessage
	return nil
}

func (f *fakeDatasetRepo) SaveCounts(_ context.Context, id string, rows, columns, rejected int) error {
	ds, ok := f.datasets[id]
	if !ok {
		return domain.WrapError(domain.ErrDatasetNotFound, "save counts", errors.New(id))
	}
	ds.RowCount = rows
	ds.ColumnCount = columns
	ds.Rejected = rejected
	f.savedRows = rows
	f.savedColumns = columns
	f.savedRejected = rejected
	return nil
}

func (f *fakeDatasetRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.datasets[id]; !ok {
		return domain.WrapError(domain.ErrDatasetNotFound, "delete dataset", errors.New(id))
	}
	delete(f.datasets, id)
	return nil
}

type fakeBookingRepo struct {
	records   map[string][]domain.BookingRecord
	insertErr error
	listErr   error
	deleted   []string
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{records: make(map[string][]domain.BookingRecord)}
}

func (f *fakeBookingRepo) InsertBatch(_ context.Context, records []domain.BookingRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if len(records) > 0 {
		f.records[records[0].DatasetID] = append(f.records[records[0].DatasetID], records...)
	}
	return nil
}

func (f *fakeBookingRepo) ListByDataset(_ context.Context, datasetID string) ([]domain.BookingRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records[datasetID], nil
}

func (f *fakeBookingRepo) DeleteByDataset(_ context.Context, datasetID string) error {
	f.deleted = append(f.deleted, datasetID)
	delete(f.records, datasetID)
	return nil
}

type fakeRecommendationRepo struct {
	upserted  map[string][]domain.PriceRecommendation
	upsertErr error
}

func newFakeRecommendationRepo() *fakeRecommendationRepo {
	return &fakeRecommendationRepo{upserted: make(map[string][]domain.PriceRecommendation)}
}

func (f *fakeRecommendationRepo) UpsertBatch(_ context.Context, datasetID string, recs []domain.PriceRecommendation) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted[datasetID] = recs
	return nil
}

func (f *fakeRecommendationRepo) ListByDataset(_ context.Context, datasetID string) ([]domain.PriceRecommendation, error) {
	return f.upserted[datasetID], nil
}

type fakeCompetitorRepo struct {
	prices []domain.CompetitorPrice
}

func (f *fakeCompetitorRepo) UpsertBatch(_ context.Context, prices []domain.CompetitorPrice) error {
	f.prices = append(f.prices, prices...)
	return nil
}

func (f *fakeCompetitorRepo) ListRange(_ context.Context, _, _ string) ([]domain.CompetitorPrice, error) {
	return f.prices, nil
}

type fakeStorage struct {
	saved   map[string][]byte
	saveErr error
	removed []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: make(map[string][]byte)}
}

func (f *fakeStorage) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	content, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.saved[key] = content
	return nil
}

func (f *fakeStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	content, ok := f.saved[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (f *fakeStorage) Remove(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	delete(f.saved, key)
	return nil
}

type fakeQueue struct {
	published  []string
	publishErr error
}

func (f *fakeQueue) PublishDatasetUploaded(_ context.Context, datasetID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, datasetID)
	return nil
}

func (f *fakeQueue) SubscribeDatasetUploaded(_ context.Context, _ func(context.Context, string) error) error {
	return nil
}

type fakeParser struct {
	rows []domain.RawRecord
	err  error
}

func (f *fakeParser) Parse(_ context.Context, _ *domain.Dataset) ([]domain.RawRecord, error) {
	return f.rows, f.err
}

type fakeWeather struct {
	daily map[string]domain.DailyWeather
	err   error
}

func (f *fakeWeather) DailyRange(_ context.Context, _, _ time.Time) (map[string]domain.DailyWeather, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.daily, nil
}

type fakeHolidays struct {
	dates map[string]struct{}
}

func (f *fakeHolidays) IsHoliday(day time.Time) bool {
	_, ok := f.dates[day.UTC().Format("2006-01-02")]
	return ok
}

type fakeProvider struct {
	recs []domain.PriceRecommendation
	err  error

	gotFrom time.Time
	gotDays int
	gotBase float64
}

func (f *fakeProvider) Recommend(_ context.Context, from time.Time, days int, basePrice float64) ([]domain.PriceRecommendation, error) {
	f.gotFrom = from
	f.gotDays = days
	f.gotBase = basePrice
	if f.err != nil {
		return nil, f.err
	}
	return f.recs, nil
}

type fakeConversationStore struct {
	conversations map[string]*domain.Conversation
	messages      []domain.ConversationMessage
	appendErr     error
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{conversations: make(map[string]*domain.Conversation)}
}

func (f *fakeConversationStore) EnsureConversation(_ context.Context, userID, conversationID string) (*domain.Conversation, error) {
	if conversationID == "" {
		conversationID = "generated-conv"
	}
	key := userID + "/" + conversationID
	conv, ok := f.conversations[key]
	if !ok {
		conv = &domain.Conversation{UserID: userID, ConversationID: conversationID, CreatedAt: time.Now()}
		f.conversations[key] = conv
	}
	return conv, nil
}

func (f *fakeConversationStore) AppendMessage(_ context.Context, message domain.ConversationMessage) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeConversationStore) ListRecentMessages(_ context.Context, userID, conversationID string, limit int) ([]domain.ConversationMessage, error) {
	out := make([]domain.ConversationMessage, 0)
	for _, msg := range f.messages {
		if msg.UserID == userID && msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type fakeGenerator struct {
	answer     string
	err        error
	lastPrompt string
}

func (f *fakeGenerator) GenerateAnswer(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}
