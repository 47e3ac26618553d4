package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/stayrate/internal/core/domain"
)

func TestIngestUploadStoresFileAndPublishes(t *testing.T) {
	repo := newFakeDatasetRepo()
	storage := newFakeStorage()
	queue := &fakeQueue{}
	uc := NewIngestDatasetUseCase(repo, storage, queue)

	ds, err := uc.Upload(context.Background(), "july bookings.csv", "text/csv",
		strings.NewReader("date,price\n2026-07-04,180\n"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if ds.Status != domain.StatusUploaded {
		t.Fatalf("Status = %q, want uploaded", ds.Status)
	}
	if ds.Enrichment != domain.EnrichmentPending {
		t.Fatalf("Enrichment = %q, want pending", ds.Enrichment)
	}
	if len(storage.saved) != 1 {
		t.Fatalf("expected 1 stored object, got %d", len(storage.saved))
	}
	if _, ok := repo.datasets[ds.ID]; !ok {
		t.Fatalf("dataset not persisted")
	}
	if len(queue.published) != 1 || queue.published[0] != ds.ID {
		t.Fatalf("published = %v, want [%s]", queue.published, ds.ID)
	}
	if strings.Contains(ds.StoragePath, " ") {
		t.Fatalf("storage path not sanitized: %q", ds.StoragePath)
	}
}

func TestIngestUploadRejectsUnsupportedExtension(t *testing.T) {
	uc := NewIngestDatasetUseCase(newFakeDatasetRepo(), newFakeStorage(), &fakeQueue{})

	_, err := uc.Upload(context.Background(), "notes.pdf", "application/pdf", strings.NewReader("x"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("Upload() error = %v, want invalid input", err)
	}
}

func TestIngestUploadPropagatesStorageError(t *testing.T) {
	storage := newFakeStorage()
	storage.saveErr = errors.New("disk full")
	queue := &fakeQueue{}
	uc := NewIngestDatasetUseCase(newFakeDatasetRepo(), storage, queue)

	_, err := uc.Upload(context.Background(), "bookings.csv", "text/csv", strings.NewReader("x"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(queue.published) != 0 {
		t.Fatalf("nothing should be published after storage failure")
	}
}

func TestIngestUploadPropagatesQueueError(t *testing.T) {
	repo := newFakeDatasetRepo()
	queue := &fakeQueue{publishErr: errors.New("nats down")}
	uc := NewIngestDatasetUseCase(repo, newFakeStorage(), queue)

	_, err := uc.Upload(context.Background(), "bookings.csv", "text/csv", strings.NewReader("x"))
	if err == nil {
		t.Fatalf("expected error")
	}
}
