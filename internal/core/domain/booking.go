package domain

import "time"

// RawRecord is one loosely-typed row as parsed from an uploaded file.
// Header names are not trusted; normalization resolves the aliases.
type RawRecord map[string]string

// BookingRecord is a normalized row. Occupancy is always a fraction of one;
// the (1,100] percentage form is converted at the normalization boundary.
type BookingRecord struct {
	DatasetID string    `json:"dataset_id"`
	StayDate  time.Time `json:"stay_date"`
	Price     float64   `json:"price"`
	Occupancy float64   `json:"occupancy"`
	LeadDays  int       `json:"lead_days,omitempty"`

	// Enrichment columns, filled by the worker.
	Weekday   string   `json:"weekday,omitempty"`
	IsWeekend bool     `json:"is_weekend"`
	IsHoliday bool     `json:"is_holiday"`
	Season    string   `json:"season,omitempty"`
	TempMax   *float64 `json:"temp_max,omitempty"`
	Precip    *float64 `json:"precipitation,omitempty"`
}

// DateKey returns the ISO date used for calendar grouping and joins.
func (r BookingRecord) DateKey() string {
	return r.StayDate.UTC().Format("2006-01-02")
}

// RejectedRow records why a raw row was excluded instead of dropping it
// silently.
type RejectedRow struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// NormalizationReport is the outcome of the schema-mapping step.
type NormalizationReport struct {
	Records  []BookingRecord `json:"records"`
	Rejected []RejectedRow   `json:"rejected"`
	Columns  int             `json:"columns"`
}
