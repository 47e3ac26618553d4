package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/stayrate/internal/core/domain"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestBookingRepositoryInsertBatchCommitsTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO bookings")
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	records := []domain.BookingRecord{
		{DatasetID: "ds-1", StayDate: day(2026, time.July, 4), Price: 180, Occupancy: 0.9, LeadDays: 10, Weekday: "Saturday", IsWeekend: true},
		{DatasetID: "ds-1", StayDate: day(2026, time.July, 5), Price: 160, Occupancy: 0.8, LeadDays: 4, Weekday: "Sunday", IsWeekend: true},
	}
	if err := repo.InsertBatch(context.Background(), records); err != nil {
		t.Fatalf("InsertBatch() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestBookingRepositoryInsertBatchRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO bookings")
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	records := []domain.BookingRecord{
		{DatasetID: "ds-1", StayDate: day(2026, time.July, 4), Price: 180, Occupancy: 0.9},
	}
	if err := repo.InsertBatch(context.Background(), records); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestBookingRepositoryListByDatasetHandlesNulls(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	rows := sqlmock.NewRows([]string{
		"dataset_id", "stay_date", "price", "occupancy", "lead_days",
		"weekday", "is_weekend", "is_holiday", "season", "temp_max", "precipitation",
	}).
		AddRow("ds-1", day(2026, time.July, 4), 180.0, 0.9, 10, "Saturday", true, true, "peak", 29.5, 0.0).
		AddRow("ds-1", day(2026, time.July, 5), 160.0, 0.8, 4, nil, true, false, nil, nil, nil)

	mock.ExpectQuery("FROM bookings").
		WithArgs("ds-1").
		WillReturnRows(rows)

	records, err := repo.ListByDataset(context.Background(), "ds-1")
	if err != nil {
		t.Fatalf("ListByDataset() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].TempMax == nil || *records[0].TempMax != 29.5 {
		t.Fatalf("TempMax = %v, want 29.5", records[0].TempMax)
	}
	if records[1].TempMax != nil {
		t.Fatalf("expected nil TempMax for null column")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
