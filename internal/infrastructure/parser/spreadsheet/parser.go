package spreadsheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/stayrate/internal/core/domain"
	"github.com/kirillkom/stayrate/internal/core/ports"
)

// Parser reads a stored upload and returns its rows as loose records keyed
// by lower-cased header names. CSV is handled by encoding/csv, .xlsx/.xls by
// excelize. Typing and alias resolution happen later, in normalization.
type Parser struct {
	storage ports.ObjectStorage
}

func New(storage ports.ObjectStorage) *Parser {
	return &Parser{storage: storage}
}

func (p *Parser) Parse(ctx context.Context, ds *domain.Dataset) ([]domain.RawRecord, error) {
	reader, err := p.storage.Open(ctx, ds.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer reader.Close()

	switch strings.ToLower(filepath.Ext(ds.Filename)) {
	case ".csv":
		return parseCSV(reader)
	case ".xlsx", ".xls":
		return parseExcel(reader)
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse upload",
			fmt.Errorf("unsupported extension on %s", ds.Filename))
	}
}

func parseCSV(reader io.Reader) ([]domain.RawRecord, error) {
	cr := csv.NewReader(reader)
	cr.TrimLeadingSpace = true
	// Uploads from spreadsheet exports often have ragged rows.
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rowsToRecords(rows), nil
}

func parseExcel(reader io.Reader) ([]domain.RawRecord, error) {
	book, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rowsToRecords(rows), nil
}

func rowsToRecords(rows [][]string) []domain.RawRecord {
	if len(rows) < 2 {
		return nil
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}

	out := make([]domain.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		record := make(domain.RawRecord, len(header))
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			record[header[i]] = strings.TrimSpace(cell)
		}
		out = append(out, record)
	}
	return out
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
