package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kirillkom/stayrate/internal/core/domain"
)

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// InsertBatch writes one dataset's normalized rows inside a transaction so a
// failed enrichment never leaves a partial dataset behind.
func (r *BookingRepository) InsertBatch(ctx context.Context, records []domain.BookingRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bookings tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO bookings (
	dataset_id, stay_date, price, occupancy, lead_days,
	weekday, is_weekend, is_holiday, season, temp_max, precipitation
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`)
	if err != nil {
		return fmt.Errorf("prepare bookings insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.DatasetID, rec.StayDate, rec.Price, rec.Occupancy, rec.LeadDays,
			rec.Weekday, rec.IsWeekend, rec.IsHoliday, rec.Season,
			nullableFloat(rec.TempMax), nullableFloat(rec.Precip),
		)
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bookings tx: %w", err)
	}
	return nil
}

func (r *BookingRepository) ListByDataset(ctx context.Context, datasetID string) ([]domain.BookingRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT dataset_id, stay_date, price, occupancy, lead_days,
	weekday, is_weekend, is_holiday, season, temp_max, precipitation
FROM bookings
WHERE dataset_id = $1
ORDER BY stay_date
`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := make([]domain.BookingRecord, 0)
	for rows.Next() {
		var rec domain.BookingRecord
		var weekday, season sql.NullString
		var tempMax, precip sql.NullFloat64

		err := rows.Scan(
			&rec.DatasetID, &rec.StayDate, &rec.Price, &rec.Occupancy, &rec.LeadDays,
			&weekday, &rec.IsWeekend, &rec.IsHoliday, &season, &tempMax, &precip,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}

		rec.Weekday = weekday.String
		rec.Season = season.String
		if tempMax.Valid {
			v := tempMax.Float64
			rec.TempMax = &v
		}
		if precip.Valid {
			v := precip.Float64
			rec.Precip = &v
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return out, nil
}

func (r *BookingRepository) DeleteByDataset(ctx context.Context, datasetID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE dataset_id = $1`, datasetID); err != nil {
		return fmt.Errorf("delete bookings: %w", err)
	}
	return nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
