package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kirillkom/stayrate/internal/core/domain"
)

type CompetitorRepository struct {
	db *sql.DB
}

func NewCompetitorRepository(db *sql.DB) *CompetitorRepository {
	return &CompetitorRepository{db: db}
}

func (r *CompetitorRepository) UpsertBatch(ctx context.Context, prices []domain.CompetitorPrice) error {
	if len(prices) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin competitor tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO competitor_prices (property, date, price, captured_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (property, date) DO UPDATE SET
	price = EXCLUDED.price,
	captured_at = EXCLUDED.captured_at
`)
	if err != nil {
		return fmt.Errorf("prepare competitor upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range prices {
		capturedAt := p.CapturedAt
		if capturedAt.IsZero() {
			capturedAt = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx, p.Property, p.Date, p.Price, capturedAt); err != nil {
			return fmt.Errorf("upsert competitor price %s/%s: %w", p.Property, p.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit competitor tx: %w", err)
	}
	return nil
}

func (r *CompetitorRepository) ListRange(ctx context.Context, from, to string) ([]domain.CompetitorPrice, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT property, date, price, captured_at
FROM competitor_prices
WHERE date >= $1 AND date <= $2
ORDER BY date, property
`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list competitor prices: %w", err)
	}
	defer rows.Close()

	out := make([]domain.CompetitorPrice, 0)
	for rows.Next() {
		var p domain.CompetitorPrice
		if err := rows.Scan(&p.Property, &p.Date, &p.Price, &p.CapturedAt); err != nil {
			return nil, fmt.Errorf("scan competitor price: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate competitor prices: %w", err)
	}
	return out, nil
}
