package synthetic

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/kirillkom/stayrate/internal/core/domain"
)

// Provider is the demo-mode recommendation generator. It is explicitly a
// mock, not a model: seasonal and weekend multipliers plus bounded jitter
// over a base price. The PRNG is seeded, so a fixed seed yields the exact
// same window on every run.
type Provider struct {
	seed         int64
	unitCapacity int
}

func New(seed int64, unitCapacity int) *Provider {
	if unitCapacity <= 0 {
		unitCapacity = 85
	}
	return &Provider{
		seed:         seed,
		unitCapacity: unitCapacity,
	}
}

func (p *Provider) Recommend(
	_ context.Context,
	from time.Time,
	days int,
	basePrice float64,
) ([]domain.PriceRecommendation, error) {
	if basePrice <= 0 {
		basePrice = 100
	}

	rng := rand.New(rand.NewSource(p.seed))
	start := from.UTC()

	out := make([]domain.PriceRecommendation, 0, days)
	for offset := 1; offset <= days; offset++ {
		date := start.AddDate(0, 0, offset)
		seasonal := seasonalMultiplier(date.Month())
		weekend := weekendMultiplier(date.Weekday())

		// Jitter stays within ±8% so the series looks plausible but
		// never swamps the seasonal signal.
		jitter := 1 + (rng.Float64()-0.5)*0.16

		current := basePrice * seasonal * weekend
		recommended := current * jitter * upliftMultiplier(rng)

		predictedOcc := clamp01(0.45*seasonal*weekend + (rng.Float64()-0.5)*0.2)
		impact := (recommended - current) * predictedOcc * float64(p.unitCapacity)

		rec := domain.PriceRecommendation{
			Date:               date.Format("2006-01-02"),
			CurrentPrice:       round2(current),
			RecommendedPrice:   round2(recommended),
			PredictedOccupancy: round2(predictedOcc),
			RevenueImpact:      round2(impact),
			Confidence:         drawConfidence(rng),
			Explanation:        explain(date, seasonal, weekend),
			Factors: domain.RecommendationFactors{
				Seasonal: seasonal,
				Weekend:  weekend,
				Jitter:   round2(jitter),
			},
		}
		if rec.CurrentPrice > 0 {
			rec.PriceChangePercent = round2((rec.RecommendedPrice - rec.CurrentPrice) / rec.CurrentPrice * 100)
		}
		out = append(out, rec)
	}
	return out, nil
}

func seasonalMultiplier(month time.Month) float64 {
	switch month {
	case time.June, time.July, time.August:
		return 1.8
	case time.April, time.May:
		return 1.2
	case time.September, time.October:
		return 1.3
	default:
		return 0.7
	}
}

func weekendMultiplier(day time.Weekday) float64 {
	switch day {
	case time.Friday, time.Saturday, time.Sunday:
		return 1.15
	default:
		return 1.0
	}
}

func upliftMultiplier(rng *rand.Rand) float64 {
	// Recommendations skew slightly above current price.
	return 1 + rng.Float64()*0.1
}

func drawConfidence(rng *rand.Rand) domain.Confidence {
	switch v := rng.Float64(); {
	case v < 0.2:
		return domain.ConfidenceLow
	case v < 0.6:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceHigh
	}
}

func explain(date time.Time, seasonal, weekend float64) string {
	season := "off-season"
	switch {
	case seasonal >= 1.8:
		season = "peak season"
	case seasonal > 1.0:
		season = "shoulder season"
	}
	if weekend > 1.0 {
		return fmt.Sprintf("%s %s demand uplift", season, date.Weekday())
	}
	return fmt.Sprintf("%s midweek baseline", season)
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
