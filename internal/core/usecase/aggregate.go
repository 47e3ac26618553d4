package usecase

import (
	"sort"
	"time"

	"github.com/kirillkom/stayrate/internal/core/domain"
)

const (
	priceSeriesLimit = 30
	demandFactor     = 1.2
)

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// AggregationInput carries everything the pure aggregation needs: normalized
// records plus the two date-keyed lookups merged into the calendar.
type AggregationInput struct {
	Records          []domain.BookingRecord
	Recommendations  map[string]domain.PriceRecommendation
	CompetitorPrices map[string]float64
	Now              time.Time
	ForwardDays      int
	UnitCapacity     int
}

// BuildAnalytics folds booking records into the chart/calendar model:
// monthly revenue, weekday occupancy, the trailing 30-point price series and
// a per-date calendar merging recommendation and competitor lookups. It is
// deterministic and order-independent, and an empty input yields an empty,
// well-defined model.
func BuildAnalytics(in AggregationInput) *domain.AnalyticsModel {
	today := truncateToDay(in.Now)

	model := &domain.AnalyticsModel{
		Monthly:     buildMonthly(in.Records),
		Weekdays:    buildWeekdays(in.Records),
		PriceSeries: buildPriceSeries(in.Records),
		LeadBuckets: buildLeadBuckets(in.Records),
		Summary:     buildSummary(in.Records, in.UnitCapacity),
	}

	calendar := buildCalendar(in, today)
	appendForwardWindow(calendar, in, today)

	keys := make([]string, 0, len(calendar))
	for key := range calendar {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	model.Calendar = make([]domain.DayData, 0, len(keys))
	for _, key := range keys {
		model.Calendar = append(model.Calendar, *calendar[key])
	}
	return model
}

func buildMonthly(records []domain.BookingRecord) []domain.MonthlyRevenue {
	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[string]*bucket)
	for _, r := range records {
		key := r.StayDate.UTC().Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.sum += r.Price
		b.count++
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]domain.MonthlyRevenue, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		month, _ := time.Parse("2006-01", key)
		out = append(out, domain.MonthlyRevenue{
			Month:    month.Format("Jan 2006"),
			Revenue:  round2(b.sum),
			AvgPrice: round2(b.sum / float64(b.count)),
			Count:    b.count,
		})
	}
	return out
}

func buildWeekdays(records []domain.BookingRecord) []domain.WeekdayOccupancy {
	sums := make(map[time.Weekday]float64)
	counts := make(map[time.Weekday]int)
	for _, r := range records {
		if r.Occupancy <= 0 {
			continue
		}
		day := r.StayDate.UTC().Weekday()
		sums[day] += r.Occupancy
		counts[day]++
	}

	out := make([]domain.WeekdayOccupancy, 0, len(weekdayOrder))
	for _, day := range weekdayOrder {
		entry := domain.WeekdayOccupancy{Weekday: day.String()[:3]}
		if counts[day] > 0 {
			entry.OccupancyPercent = round2(sums[day] / float64(counts[day]) * 100)
			entry.Samples = counts[day]
		}
		out = append(out, entry)
	}
	return out
}

func buildPriceSeries(records []domain.BookingRecord) []domain.PricePoint {
	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[string]*bucket)
	for _, r := range records {
		key := r.DateKey()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.sum += r.Price
		b.count++
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	// Keep only the most recent entries: a suffix of the sorted date list.
	if len(keys) > priceSeriesLimit {
		keys = keys[len(keys)-priceSeriesLimit:]
	}

	out := make([]domain.PricePoint, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		out = append(out, domain.PricePoint{
			Date:  key,
			Price: round2(b.sum / float64(b.count)),
		})
	}
	return out
}

type dayAccumulator struct {
	priceSum  float64
	priceN    int
	occSum    float64
	occN      int
	isHoliday bool
	tempMax   *float64
	precip    *float64
}

func buildCalendar(in AggregationInput, today time.Time) map[string]*domain.DayData {
	acc := make(map[string]*dayAccumulator)
	for _, r := range in.Records {
		key := r.DateKey()
		a, ok := acc[key]
		if !ok {
			a = &dayAccumulator{}
			acc[key] = a
		}
		a.priceSum += r.Price
		a.priceN++
		if r.Occupancy > 0 {
			a.occSum += r.Occupancy
			a.occN++
		}
		if r.IsHoliday {
			a.isHoliday = true
		}
		if a.tempMax == nil && r.TempMax != nil {
			a.tempMax = r.TempMax
			a.precip = r.Precip
		}
	}

	calendar := make(map[string]*domain.DayData, len(acc))
	for key, a := range acc {
		date, err := time.Parse("2006-01-02", key)
		if err != nil {
			continue
		}

		day := &domain.DayData{
			Date:      key,
			Price:     round2(a.priceSum / float64(a.priceN)),
			IsWeekend: isWeekend(date),
			IsPast:    date.Before(today),
			IsHoliday: a.isHoliday,
			TempMax:   a.tempMax,
			Precip:    a.precip,
		}
		if a.occN > 0 {
			day.Occupancy = a.occSum / float64(a.occN)
			day.Demand = demand(day.Occupancy)
		}
		mergeLookups(day, key, in)
		calendar[key] = day
	}
	return calendar
}

// appendForwardWindow synthesizes calendar entries for the days after today
// purely from recommendations. A date that already has historical data is
// never overwritten.
func appendForwardWindow(calendar map[string]*domain.DayData, in AggregationInput, today time.Time) {
	for offset := 1; offset <= in.ForwardDays; offset++ {
		date := today.AddDate(0, 0, offset)
		key := date.Format("2006-01-02")
		if _, exists := calendar[key]; exists {
			continue
		}
		rec, ok := in.Recommendations[key]
		if !ok {
			continue
		}

		day := &domain.DayData{
			Date:        key,
			Price:       round2(rec.CurrentPrice),
			Demand:      demand(rec.PredictedOccupancy),
			IsWeekend:   isWeekend(date),
			Synthesized: true,
		}
		mergeLookups(day, key, in)
		calendar[key] = day
	}
}

func mergeLookups(day *domain.DayData, key string, in AggregationInput) {
	if rec, ok := in.Recommendations[key]; ok {
		recommended := rec.RecommendedPrice
		predicted := rec.PredictedOccupancy
		impact := rec.RevenueImpact
		day.RecommendedPrice = &recommended
		day.PredictedOccupancy = &predicted
		day.RevenueImpact = &impact
		day.Confidence = string(rec.Confidence)
		day.Explanation = rec.Explanation
	}
	if price, ok := in.CompetitorPrices[key]; ok {
		competitor := price
		day.CompetitorPrice = &competitor
	}
}

var leadBucketBounds = []struct {
	label string
	min   int
	max   int
}{
	{"1-3 days", 1, 3},
	{"4-7 days", 4, 7},
	{"8-14 days", 8, 14},
	{"15-30 days", 15, 30},
	{"31-60 days", 31, 60},
	{"61+ days", 61, 1 << 30},
}

func buildLeadBuckets(records []domain.BookingRecord) []domain.LeadBucket {
	type bucket struct {
		count int
		sum   float64
	}
	totals := make([]bucket, len(leadBucketBounds))
	any := false
	for _, r := range records {
		if r.LeadDays <= 0 {
			continue
		}
		any = true
		for i, bounds := range leadBucketBounds {
			if r.LeadDays >= bounds.min && r.LeadDays <= bounds.max {
				totals[i].count++
				totals[i].sum += r.Price
				break
			}
		}
	}
	if !any {
		return nil
	}

	out := make([]domain.LeadBucket, 0, len(leadBucketBounds))
	for i, bounds := range leadBucketBounds {
		entry := domain.LeadBucket{
			Label:    bounds.label,
			MinDays:  bounds.min,
			MaxDays:  bounds.max,
			Bookings: totals[i].count,
		}
		if totals[i].count > 0 {
			entry.AvgPrice = round2(totals[i].sum / float64(totals[i].count))
		}
		out = append(out, entry)
	}
	return out
}

func buildSummary(records []domain.BookingRecord, unitCapacity int) domain.AnalyticsSummary {
	summary := domain.AnalyticsSummary{RecordCount: len(records)}
	if len(records) == 0 {
		return summary
	}

	dates := make(map[string]struct{})
	var priceSum, occSum float64
	occN := 0
	for _, r := range records {
		priceSum += r.Price
		dates[r.DateKey()] = struct{}{}
		if r.Occupancy > 0 {
			occSum += r.Occupancy
			occN++
		}
	}

	summary.TotalRevenue = round2(priceSum)
	summary.AvgPrice = round2(priceSum / float64(len(records)))
	summary.DistinctDates = len(dates)
	if occN > 0 {
		summary.AvgOccupancy = round2(occSum / float64(occN))
	}
	if unitCapacity > 0 && len(dates) > 0 {
		summary.RevPAU = round2(priceSum / float64(len(dates)*unitCapacity))
	}
	return summary
}

func demand(occupancy float64) float64 {
	d := occupancy * demandFactor
	if d > 1 {
		return 1
	}
	return d
}

func isWeekend(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(f float64) float64 {
	if f < 0 {
		return float64(int(f*100-0.5)) / 100
	}
	return float64(int(f*100+0.5)) / 100
}
