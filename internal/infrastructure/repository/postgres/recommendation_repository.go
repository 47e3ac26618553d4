package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kirillkom/stayrate/internal/core/domain"
)

type RecommendationRepository struct {
	db *sql.DB
}

func NewRecommendationRepository(db *sql.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

func (r *RecommendationRepository) UpsertBatch(
	ctx context.Context,
	datasetID string,
	recs []domain.PriceRecommendation,
) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin recommendations tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO recommendations (
	dataset_id, date, current_price, recommended_price, price_change_percent,
	predicted_occupancy, revenue_impact, confidence, explanation,
	seasonal_factor, weekend_factor, jitter_factor, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (dataset_id, date) DO UPDATE SET
	current_price = EXCLUDED.current_price,
	recommended_price = EXCLUDED.recommended_price,
	price_change_percent = EXCLUDED.price_change_percent,
	predicted_occupancy = EXCLUDED.predicted_occupancy,
	revenue_impact = EXCLUDED.revenue_impact,
	confidence = EXCLUDED.confidence,
	explanation = EXCLUDED.explanation,
	seasonal_factor = EXCLUDED.seasonal_factor,
	weekend_factor = EXCLUDED.weekend_factor,
	jitter_factor = EXCLUDED.jitter_factor,
	updated_at = EXCLUDED.updated_at
`)
	if err != nil {
		return fmt.Errorf("prepare recommendations upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, rec := range recs {
		_, err := stmt.ExecContext(ctx,
			datasetID, rec.Date, rec.CurrentPrice, rec.RecommendedPrice, rec.PriceChangePercent,
			rec.PredictedOccupancy, rec.RevenueImpact, string(rec.Confidence), rec.Explanation,
			rec.Factors.Seasonal, rec.Factors.Weekend, rec.Factors.Jitter, now,
		)
		if err != nil {
			return fmt.Errorf("upsert recommendation %s: %w", rec.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit recommendations tx: %w", err)
	}
	return nil
}

func (r *RecommendationRepository) ListByDataset(ctx context.Context, datasetID string) ([]domain.PriceRecommendation, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT date, current_price, recommended_price, price_change_percent,
	predicted_occupancy, revenue_impact, confidence, explanation,
	seasonal_factor, weekend_factor, jitter_factor
FROM recommendations
WHERE dataset_id = $1
ORDER BY date
`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()

	out := make([]domain.PriceRecommendation, 0)
	for rows.Next() {
		var rec domain.PriceRecommendation
		var confidence string
		var explanation sql.NullString

		err := rows.Scan(
			&rec.Date, &rec.CurrentPrice, &rec.RecommendedPrice, &rec.PriceChangePercent,
			&rec.PredictedOccupancy, &rec.RevenueImpact, &confidence, &explanation,
			&rec.Factors.Seasonal, &rec.Factors.Weekend, &rec.Factors.Jitter,
		)
		if err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}

		rec.Confidence = domain.Confidence(confidence)
		rec.Explanation = explanation.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendations: %w", err)
	}
	return out, nil
}
