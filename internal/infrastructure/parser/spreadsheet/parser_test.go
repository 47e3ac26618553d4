package spreadsheet

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/stayrate/internal/core/domain"
)

type memStorage struct {
	files map[string][]byte
}

func (s *memStorage) Save(_ context.Context, key string, data io.Reader) error {
	content, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.files[key] = content
	return nil
}

func (s *memStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	content, ok := s.files[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (s *memStorage) Remove(_ context.Context, key string) error {
	delete(s.files, key)
	return nil
}

func storageWith(key string, content []byte) *memStorage {
	return &memStorage{files: map[string][]byte{key: content}}
}

func TestParseCSV(t *testing.T) {
	csvContent := "Date,Price,Occupancy\n2026-07-04, 180 ,90\n,,\n2026-07-05,160,80\n"
	parser := New(storageWith("ds-1_bookings.csv", []byte(csvContent)))

	records, err := parser.Parse(context.Background(), &domain.Dataset{
		Filename:    "bookings.csv",
		StoragePath: "ds-1_bookings.csv",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("records = %d, want 2 (empty row skipped)", len(records))
	}
	if records[0]["date"] != "2026-07-04" {
		t.Fatalf("date = %q", records[0]["date"])
	}
	if records[0]["price"] != "180" {
		t.Fatalf("price not trimmed: %q", records[0]["price"])
	}
	if records[1]["occupancy"] != "80" {
		t.Fatalf("occupancy = %q", records[1]["occupancy"])
	}
}

func TestParseCSVRaggedRows(t *testing.T) {
	csvContent := "date,price,occupancy\n2026-07-04,180\n"
	parser := New(storageWith("ds-1_bookings.csv", []byte(csvContent)))

	records, err := parser.Parse(context.Background(), &domain.Dataset{
		Filename:    "bookings.csv",
		StoragePath: "ds-1_bookings.csv",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if _, ok := records[0]["occupancy"]; ok {
		t.Fatalf("short row should not have occupancy")
	}
}

func TestParseXLSX(t *testing.T) {
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	_ = book.SetSheetRow(sheet, "A1", &[]any{"date", "price"})
	_ = book.SetSheetRow(sheet, "A2", &[]any{"2026-07-04", 180})

	var buf bytes.Buffer
	if err := book.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	parser := New(storageWith("ds-1_bookings.xlsx", buf.Bytes()))
	records, err := parser.Parse(context.Background(), &domain.Dataset{
		Filename:    "bookings.xlsx",
		StoragePath: "ds-1_bookings.xlsx",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0]["date"] != "2026-07-04" {
		t.Fatalf("date = %q", records[0]["date"])
	}
	if records[0]["price"] != "180" {
		t.Fatalf("price = %q", records[0]["price"])
	}
}

func TestParseUnsupportedExtension(t *testing.T) {
	parser := New(storageWith("ds-1_notes.txt", []byte("hello")))

	_, err := parser.Parse(context.Background(), &domain.Dataset{
		Filename:    "notes.txt",
		StoragePath: "ds-1_notes.txt",
	})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("Parse() error = %v, want invalid input", err)
	}
}

func TestParseHeaderOnlyYieldsNoRecords(t *testing.T) {
	parser := New(storageWith("ds-1_bookings.csv", []byte("date,price\n")))

	records, err := parser.Parse(context.Background(), &domain.Dataset{
		Filename:    "bookings.csv",
		StoragePath: "ds-1_bookings.csv",
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records = %d, want 0", len(records))
	}
}
