package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/kirillkom/stayrate/internal/config"
	"github.com/kirillkom/stayrate/internal/core/ports"
	"github.com/kirillkom/stayrate/internal/core/usecase"
	"github.com/kirillkom/stayrate/internal/infrastructure/enrichment/holidays"
	"github.com/kirillkom/stayrate/internal/infrastructure/enrichment/weather"
	"github.com/kirillkom/stayrate/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/stayrate/internal/infrastructure/parser/spreadsheet"
	"github.com/kirillkom/stayrate/internal/infrastructure/queue/nats"
	"github.com/kirillkom/stayrate/internal/infrastructure/recommend/remote"
	"github.com/kirillkom/stayrate/internal/infrastructure/recommend/synthetic"
	"github.com/kirillkom/stayrate/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/stayrate/internal/infrastructure/resilience"
	"github.com/kirillkom/stayrate/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue       ports.MessageQueue
	Datasets    ports.DatasetRepository
	Competitors ports.CompetitorRepository

	IngestUC    ports.DatasetIngestor
	DatasetsUC  ports.DatasetReader
	EnrichUC    ports.DatasetEnricher
	AnalyticsUC ports.AnalyticsService
	RecommendUC ports.RecommendationService
	AssistantUC ports.AssistantService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	datasets := postgres.NewDatasetRepository(db)
	bookings := postgres.NewBookingRepository(db)
	recommendations := postgres.NewRecommendationRepository(db)
	competitors := postgres.NewCompetitorRepository(db)
	conversations := postgres.NewConversationRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	var provider ports.RecommendationProvider
	if cfg.DemoMode {
		provider = synthetic.New(cfg.DemoSeed, cfg.UnitCapacity)
	} else {
		provider = remote.New(cfg.RecommenderURL, time.Duration(cfg.RecommenderTimeoutMS)*time.Millisecond, executor)
	}

	var weatherProvider ports.WeatherProvider
	if cfg.WeatherEnabled {
		weatherProvider = weather.New(cfg.WeatherURL, cfg.WeatherLatitude, cfg.WeatherLongitude)
	}

	parser := spreadsheet.New(storage)
	generator := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, executor)

	ingestUC := usecase.NewIngestDatasetUseCase(datasets, storage, queue)
	datasetsUC := usecase.NewDatasetAdminUseCase(datasets, bookings, storage)
	enrichUC := usecase.NewEnrichDatasetUseCase(datasets, bookings, parser, weatherProvider, holidays.New())
	analyticsUC := usecase.NewAnalyticsUseCase(datasets, bookings, recommendations, competitors, cfg.UnitCapacity)
	recommendUC := usecase.NewRecommendUseCase(provider, recommendations, datasets, bookings, cfg.BasePrice, cfg.RecommendationDays)
	assistantUC := usecase.NewChatUseCase(conversations, generator, analyticsUC, cfg.ChatHistory)

	return &App{
		Config: cfg,

		Queue:       queue,
		Datasets:    datasets,
		Competitors: competitors,

		IngestUC:    ingestUC,
		DatasetsUC:  datasetsUC,
		EnrichUC:    enrichUC,
		AnalyticsUC: analyticsUC,
		RecommendUC: recommendUC,
		AssistantUC: assistantUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
