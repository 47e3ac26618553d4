package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kirillkom/stayrate/internal/core/domain"
)

// Client fetches daily weather aggregates from an open-meteo style archive
// API for the enrichment pipeline. Enrichment treats weather as best-effort,
// so the client reports errors and lets the caller degrade.
type Client struct {
	baseURL    string
	latitude   float64
	longitude  float64
	httpClient *http.Client
}

func New(baseURL string, latitude, longitude float64) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		latitude:   latitude,
		longitude:  longitude,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type archiveResponse struct {
	Daily struct {
		Time      []string  `json:"time"`
		TempMax   []float64 `json:"temperature_2m_max"`
		PrecipSum []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

func (c *Client) DailyRange(ctx context.Context, from, to time.Time) (map[string]domain.DailyWeather, error) {
	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%.4f", c.latitude))
	query.Set("longitude", fmt.Sprintf("%.4f", c.longitude))
	query.Set("start_date", from.UTC().Format("2006-01-02"))
	query.Set("end_date", to.UTC().Format("2006-01-02"))
	query.Set("daily", "temperature_2m_max,precipitation_sum")
	query.Set("timezone", "UTC")

	endpoint := c.baseURL + "/v1/archive?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("weather status %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var payload archiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	out := make(map[string]domain.DailyWeather, len(payload.Daily.Time))
	for i, day := range payload.Daily.Time {
		obs := domain.DailyWeather{Date: day}
		if i < len(payload.Daily.TempMax) {
			obs.TempMax = payload.Daily.TempMax[i]
		}
		if i < len(payload.Daily.PrecipSum) {
			obs.Precip = payload.Daily.PrecipSum[i]
		}
		out[day] = obs
	}
	return out, nil
}
