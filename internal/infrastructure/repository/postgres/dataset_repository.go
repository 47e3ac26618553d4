package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/stayrate/internal/core/domain"
)

type DatasetRepository struct {
	db *sql.DB
}

func NewDatasetRepository(db *sql.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

func (r *DatasetRepository) Create(ctx context.Context, ds *domain.Dataset) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO datasets (
	id, filename, mime_type, storage_path, row_count, column_count, rejected_rows,
	status, enrichment_status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`,
		ds.ID, ds.Filename, ds.MimeType, ds.StoragePath, ds.RowCount, ds.ColumnCount, ds.Rejected,
		string(ds.Status), string(ds.Enrichment), ds.Error, ds.CreatedAt, ds.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}
	return nil
}

func (r *DatasetRepository) GetByID(ctx context.Context, id string) (*domain.Dataset, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, mime_type, storage_path, row_count, column_count, rejected_rows,
	status, enrichment_status, error_message, created_at, updated_at
FROM datasets
WHERE id = $1
`, id)

	var ds domain.Dataset
	var status, enrichment string
	var errMessage sql.NullString

	err := row.Scan(
		&ds.ID, &ds.Filename, &ds.MimeType, &ds.StoragePath, &ds.RowCount, &ds.ColumnCount, &ds.Rejected,
		&status, &enrichment, &errMessage, &ds.CreatedAt, &ds.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDatasetNotFound, "get dataset", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan dataset: %w", err)
	}

	ds.Status = domain.DatasetStatus(status)
	ds.Enrichment = domain.EnrichmentStatus(enrichment)
	ds.Error = errMessage.String
	return &ds, nil
}

func (r *DatasetRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status domain.DatasetStatus,
	enrichment domain.EnrichmentStatus,
	errMessage string,
) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE datasets
SET status = $2, enrichment_status = $3, error_message = $4, updated_at = $5
WHERE id = $1
`, id, string(status), string(enrichment), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update dataset status: %w", err)
	}
	return checkFound(result, id, "update dataset status")
}

func (r *DatasetRepository) SaveCounts(ctx context.Context, id string, rows, columns, rejected int) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE datasets
SET row_count = $2, column_count = $3, rejected_rows = $4, updated_at = $5
WHERE id = $1
`, id, rows, columns, rejected, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save dataset counts: %w", err)
	}
	return checkFound(result, id, "save dataset counts")
}

func (r *DatasetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	return checkFound(result, id, "delete dataset")
}

func checkFound(result sql.Result, id, operation string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrDatasetNotFound, operation, fmt.Errorf("id=%s", id))
	}
	return nil
}
