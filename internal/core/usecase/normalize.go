package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kirillkom/stayrate/internal/core/domain"
)

var (
	dateAliases      = []string{"date", "check_in", "booking_date"}
	priceAliases     = []string{"price", "rate"}
	occupancyAliases = []string{"occupancy", "occupancy_rate"}
	leadAliases      = []string{"lead_days", "lead_time", "days_before_checkin"}
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"2006/01/02",
}

// Normalize is the schema-mapping step at the ingestion boundary. It resolves
// the loose field aliases into typed records and collects every excluded row
// with a reason instead of dropping it silently.
//
// Occupancy follows one convention end to end: a fraction of one. Values in
// (1,100] are read as percentages and divided by 100; values outside (0,100]
// are discarded as invalid, leaving the row's occupancy absent (zero).
func Normalize(datasetID string, rows []domain.RawRecord) domain.NormalizationReport {
	report := domain.NormalizationReport{
		Records:  make([]domain.BookingRecord, 0, len(rows)),
		Rejected: make([]domain.RejectedRow, 0),
	}

	columns := make(map[string]struct{})
	for i, row := range rows {
		for key := range row {
			columns[normalizeKey(key)] = struct{}{}
		}

		stayDate, err := resolveDate(row)
		if err != nil {
			report.Rejected = append(report.Rejected, domain.RejectedRow{Index: i, Reason: err.Error()})
			continue
		}

		price, err := resolvePrice(row)
		if err != nil {
			report.Rejected = append(report.Rejected, domain.RejectedRow{Index: i, Reason: err.Error()})
			continue
		}

		record := domain.BookingRecord{
			DatasetID: datasetID,
			StayDate:  stayDate,
			Price:     price,
			Occupancy: resolveOccupancy(row),
			LeadDays:  resolveLeadDays(row),
		}
		report.Records = append(report.Records, record)
	}

	report.Columns = len(columns)
	return report
}

func resolveDate(row domain.RawRecord) (time.Time, error) {
	raw, ok := firstPresent(row, dateAliases)
	if !ok {
		return time.Time{}, fmt.Errorf("no date field (tried %s)", strings.Join(dateAliases, ", "))
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

func resolvePrice(row domain.RawRecord) (float64, error) {
	raw, ok := firstPresent(row, priceAliases)
	if !ok {
		return 0, fmt.Errorf("no price field (tried %s)", strings.Join(priceAliases, ", "))
	}
	price, err := parseAmount(raw)
	if err != nil {
		return 0, fmt.Errorf("unparseable price %q", raw)
	}
	if price <= 0 {
		return 0, fmt.Errorf("non-positive price %q", raw)
	}
	return price, nil
}

func resolveOccupancy(row domain.RawRecord) float64 {
	raw, ok := firstPresent(row, occupancyAliases)
	if !ok {
		return 0
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	switch {
	case value > 0 && value <= 1:
		return value
	case value > 1 && value <= 100:
		return value / 100
	default:
		return 0
	}
}

func resolveLeadDays(row domain.RawRecord) int {
	raw, ok := firstPresent(row, leadAliases)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func firstPresent(row domain.RawRecord, aliases []string) (string, bool) {
	for _, alias := range aliases {
		for key, value := range row {
			if normalizeKey(key) == alias && strings.TrimSpace(value) != "" {
				return strings.TrimSpace(value), true
			}
		}
	}
	return "", false
}

// parseAmount tolerates currency symbols and thousands separators, the way
// exported booking sheets usually arrive.
func parseAmount(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimLeft(cleaned, "$€£ ")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	return strconv.ParseFloat(cleaned, 64)
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
