package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/stayrate/internal/core/domain"
	"github.com/kirillkom/stayrate/internal/core/ports"
)

// EnrichDatasetUseCase runs the worker-side pipeline for one uploaded
// dataset: parse, normalize, enrich with temporal/holiday/weather columns,
// persist. Any step failure marks the dataset failed with the error message.
type EnrichDatasetUseCase struct {
	datasets ports.DatasetRepository
	bookings ports.BookingRepository
	parser   ports.SpreadsheetParser
	weather  ports.WeatherProvider
	holidays ports.HolidayCalendar
}

func NewEnrichDatasetUseCase(
	datasets ports.DatasetRepository,
	bookings ports.BookingRepository,
	parser ports.SpreadsheetParser,
	weather ports.WeatherProvider,
	holidays ports.HolidayCalendar,
) *EnrichDatasetUseCase {
	return &EnrichDatasetUseCase{
		datasets: datasets,
		bookings: bookings,
		parser:   parser,
		weather:  weather,
		holidays: holidays,
	}
}

func (uc *EnrichDatasetUseCase) EnrichByID(ctx context.Context, datasetID string) error {
	if err := uc.datasets.UpdateStatus(ctx, datasetID, domain.StatusProcessing, domain.EnrichmentPending, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	report, err := uc.runPipeline(ctx, datasetID)
	if err != nil {
		if failErr := uc.markFailed(ctx, datasetID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.datasets.SaveCounts(ctx, datasetID, len(report.Records), report.Columns, len(report.Rejected)); err != nil {
		return fmt.Errorf("save dataset counts: %w", err)
	}
	if err := uc.datasets.UpdateStatus(ctx, datasetID, domain.StatusReady, domain.EnrichmentCompleted, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *EnrichDatasetUseCase) runPipeline(ctx context.Context, datasetID string) (*domain.NormalizationReport, error) {
	ds, err := uc.datasets.GetByID(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset by id: %w", err)
	}

	rows, err := uc.parser.Parse(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("parse upload: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse upload", errors.New("no data rows"))
	}

	report := Normalize(datasetID, rows)
	if len(report.Records) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "normalize rows",
			fmt.Errorf("all %d rows rejected", len(report.Rejected)))
	}

	uc.enrichRecords(ctx, report.Records)

	if err := uc.bookings.DeleteByDataset(ctx, datasetID); err != nil {
		return nil, fmt.Errorf("clear previous bookings: %w", err)
	}
	if err := uc.bookings.InsertBatch(ctx, report.Records); err != nil {
		return nil, fmt.Errorf("insert bookings: %w", err)
	}
	return &report, nil
}

// enrichRecords fills temporal, holiday and weather columns in place.
// Weather is best-effort: a provider failure leaves the fields absent.
func (uc *EnrichDatasetUseCase) enrichRecords(ctx context.Context, records []domain.BookingRecord) {
	if len(records) == 0 {
		return
	}

	from, to := dateBounds(records)
	var weather map[string]domain.DailyWeather
	if uc.weather != nil {
		if w, err := uc.weather.DailyRange(ctx, from, to); err == nil {
			weather = w
		}
	}

	for i := range records {
		r := &records[i]
		r.Weekday = r.StayDate.UTC().Weekday().String()[:3]
		r.IsWeekend = isWeekend(r.StayDate.UTC())
		r.Season = seasonOf(r.StayDate.UTC().Month())
		if uc.holidays != nil {
			r.IsHoliday = uc.holidays.IsHoliday(r.StayDate)
		}
		if obs, ok := weather[r.DateKey()]; ok {
			tempMax := obs.TempMax
			precip := obs.Precip
			r.TempMax = &tempMax
			r.Precip = &precip
		}
	}
}

func (uc *EnrichDatasetUseCase) markFailed(ctx context.Context, datasetID string, pipelineErr error) error {
	if pipelineErr == nil {
		return nil
	}
	return uc.datasets.UpdateStatus(ctx, datasetID, domain.StatusFailed, domain.EnrichmentFailed, pipelineErr.Error())
}

func dateBounds(records []domain.BookingRecord) (time.Time, time.Time) {
	from, to := records[0].StayDate, records[0].StayDate
	for _, r := range records[1:] {
		if r.StayDate.Before(from) {
			from = r.StayDate
		}
		if r.StayDate.After(to) {
			to = r.StayDate
		}
	}
	return from, to
}

func seasonOf(month time.Month) string {
	switch month {
	case time.June, time.July, time.August:
		return "peak"
	case time.April, time.May, time.September, time.October:
		return "shoulder"
	default:
		return "off"
	}
}
