package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/stayrate/internal/core/domain"
)

func TestDatasetRepositoryGetByIDReturnsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewDatasetRepository(db)
	mock.ExpectQuery("FROM datasets").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDatasetNotFound) {
		t.Fatalf("GetByID() error = %v, want dataset not found", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDatasetRepositoryGetByIDScansStatuses(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewDatasetRepository(db)
	rows := sqlmock.NewRows([]string{
		"id", "filename", "mime_type", "storage_path", "row_count", "column_count", "rejected_rows",
		"status", "enrichment_status", "error_message", "created_at", "updated_at",
	}).AddRow(
		"ds-1", "bookings.csv", "text/csv", "ds-1_bookings.csv", 100, 4, 3,
		"ready", "completed", nil, time.Now(), time.Now(),
	)

	mock.ExpectQuery("FROM datasets").
		WithArgs("ds-1").
		WillReturnRows(rows)

	ds, err := repo.GetByID(context.Background(), "ds-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if ds.Status != domain.StatusReady {
		t.Fatalf("Status = %q, want ready", ds.Status)
	}
	if ds.Enrichment != domain.EnrichmentCompleted {
		t.Fatalf("Enrichment = %q, want completed", ds.Enrichment)
	}
	if ds.Rejected != 3 {
		t.Fatalf("Rejected = %d, want 3", ds.Rejected)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDatasetRepositoryUpdateStatusReturnsNotFoundWhenNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewDatasetRepository(db)
	mock.ExpectExec("UPDATE datasets").
		WithArgs("missing", "processing", "pending", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateStatus(context.Background(), "missing", domain.StatusProcessing, domain.EnrichmentPending, "")
	if !domain.IsKind(err, domain.ErrDatasetNotFound) {
		t.Fatalf("UpdateStatus() error = %v, want dataset not found", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDatasetRepositoryDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewDatasetRepository(db)
	mock.ExpectExec("DELETE FROM datasets").
		WithArgs("ds-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "ds-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
