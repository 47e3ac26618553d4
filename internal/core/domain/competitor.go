package domain

import "time"

// CompetitorPrice is one observed per-night price of a monitored property.
type CompetitorPrice struct {
	Property   string    `json:"property"`
	Date       string    `json:"date"`
	Price      float64   `json:"price"`
	CapturedAt time.Time `json:"captured_at"`
}

// CompetitorInsight summarizes a window of competitor observations.
type CompetitorInsight struct {
	MinPrice     float64 `json:"min_price"`
	AvgPrice     float64 `json:"avg_price"`
	MaxPrice     float64 `json:"max_price"`
	Observations int     `json:"observations"`
}
