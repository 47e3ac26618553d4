package domain

// MonthlyRevenue is one month bucket of the revenue chart, labelled like
// "Jul 2024" and kept in chronological order.
type MonthlyRevenue struct {
	Month    string  `json:"month"`
	Revenue  float64 `json:"revenue"`
	AvgPrice float64 `json:"avg_price"`
	Count    int     `json:"count"`
}

// WeekdayOccupancy reports the mean occupancy per weekday as a display
// percentage. Weekdays without valid samples report 0.
type WeekdayOccupancy struct {
	Weekday          string  `json:"weekday"`
	OccupancyPercent float64 `json:"occupancy_percent"`
	Samples          int     `json:"samples"`
}

// PricePoint is one entry of the 30-point price time series.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// DayData is one calendar cell, merging historical aggregates with the
// recommendation and competitor lookups for the same ISO date.
type DayData struct {
	Date      string  `json:"date"`
	Price     float64 `json:"price"`
	Demand    float64 `json:"demand"`
	Occupancy float64 `json:"occupancy"`
	IsWeekend bool    `json:"is_weekend"`
	IsPast    bool    `json:"is_past"`
	IsHoliday bool    `json:"is_holiday"`

	TempMax *float64 `json:"temp_max,omitempty"`
	Precip  *float64 `json:"precipitation,omitempty"`

	CompetitorPrice *float64 `json:"competitor_price,omitempty"`

	RecommendedPrice   *float64 `json:"recommended_price,omitempty"`
	PredictedOccupancy *float64 `json:"predicted_occupancy,omitempty"`
	RevenueImpact      *float64 `json:"revenue_impact,omitempty"`
	Confidence         string   `json:"confidence,omitempty"`
	Explanation        string   `json:"explanation,omitempty"`

	// Synthesized marks forward-looking entries built purely from a
	// recommendation, with no historical rows behind them.
	Synthesized bool `json:"synthesized,omitempty"`
}

// LeadBucket groups bookings by days-before-stay for pace analytics.
type LeadBucket struct {
	Label    string  `json:"label"`
	MinDays  int     `json:"min_days"`
	MaxDays  int     `json:"max_days"`
	Bookings int     `json:"bookings"`
	AvgPrice float64 `json:"avg_price"`
}

// AnalyticsSummary is the headline KPI block.
type AnalyticsSummary struct {
	TotalRevenue  float64 `json:"total_revenue"`
	AvgPrice      float64 `json:"avg_price"`
	AvgOccupancy  float64 `json:"avg_occupancy"`
	RevPAU        float64 `json:"revpau"`
	RecordCount   int     `json:"record_count"`
	DistinctDates int     `json:"distinct_dates"`
}

// AnalyticsModel is the full chart/calendar view built from one dataset.
type AnalyticsModel struct {
	Monthly     []MonthlyRevenue   `json:"monthly_revenue"`
	Weekdays    []WeekdayOccupancy `json:"weekday_occupancy"`
	PriceSeries []PricePoint       `json:"price_series"`
	Calendar    []DayData          `json:"calendar"`
	LeadBuckets []LeadBucket       `json:"lead_buckets,omitempty"`
	Summary     AnalyticsSummary   `json:"summary"`
}
