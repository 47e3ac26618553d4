package domain

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// RecommendationFactors is the multiplier breakdown behind one recommendation.
type RecommendationFactors struct {
	Seasonal float64 `json:"seasonal"`
	Weekend  float64 `json:"weekend"`
	Jitter   float64 `json:"jitter"`
}

// PriceRecommendation is a per-date pricing suggestion, either produced by
// the remote model backend or synthesized by the demo generator.
type PriceRecommendation struct {
	Date               string                `json:"date"`
	CurrentPrice       float64               `json:"current_price"`
	RecommendedPrice   float64               `json:"recommended_price"`
	PriceChangePercent float64               `json:"price_change_percent"`
	PredictedOccupancy float64               `json:"predicted_occupancy"`
	RevenueImpact      float64               `json:"revenue_impact"`
	Confidence         Confidence            `json:"confidence"`
	Explanation        string                `json:"explanation"`
	Factors            RecommendationFactors `json:"factors"`
}
