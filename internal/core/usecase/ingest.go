package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/stayrate/internal/core/domain"
	"github.com/kirillkom/stayrate/internal/core/ports"
)

var allowedExtensions = map[string]struct{}{
	".csv":  {},
	".xlsx": {},
	".xls":  {},
}

type IngestDatasetUseCase struct {
	repo    ports.DatasetRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewIngestDatasetUseCase(
	repo ports.DatasetRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestDatasetUseCase {
	return &IngestDatasetUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

func (uc *IngestDatasetUseCase) Upload(
	ctx context.Context,
	filename, mimeType string,
	body io.Reader,
) (*domain.Dataset, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload",
			fmt.Errorf("unsupported file type %q (want .csv, .xlsx or .xls)", ext))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	ds := &domain.Dataset{
		ID:          id,
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: storageKey,
		Status:      domain.StatusUploaded,
		Enrichment:  domain.EnrichmentPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, ds); err != nil {
		return nil, fmt.Errorf("create dataset metadata: %w", err)
	}

	if err := uc.queue.PublishDatasetUploaded(ctx, ds.ID); err != nil {
		return nil, fmt.Errorf("publish upload event: %w", err)
	}

	return ds, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "dataset.bin"
	}
	return base
}
