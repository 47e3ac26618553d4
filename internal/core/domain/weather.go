package domain

// DailyWeather is one enrichment observation for a calendar day.
// Fields follow the provider's daily aggregates.
type DailyWeather struct {
	Date    string  `json:"date"`
	TempMax float64 `json:"temp_max"`
	Precip  float64 `json:"precipitation"`
}
