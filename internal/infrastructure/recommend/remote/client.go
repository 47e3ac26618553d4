package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/stayrate/internal/core/domain"
	"github.com/kirillkom/stayrate/internal/infrastructure/resilience"
)

// Client asks the ML backend for a recommendation window. Calls run through
// the shared resilience executor; transient failures come back wrapped as
// ErrTemporary so the handler maps them to 503.
type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL string, timeout time.Duration, executor *resilience.Executor) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
	}
}

type recommendRequest struct {
	From      string  `json:"from"`
	Days      int     `json:"days"`
	BasePrice float64 `json:"base_price"`
}

type recommendResponse struct {
	Recommendations []domain.PriceRecommendation `json:"recommendations"`
}

func (c *Client) Recommend(
	ctx context.Context,
	from time.Time,
	days int,
	basePrice float64,
) ([]domain.PriceRecommendation, error) {
	payload := recommendRequest{
		From:      from.UTC().Format("2006-01-02"),
		Days:      days,
		BasePrice: basePrice,
	}

	var response recommendResponse
	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/v1/recommendations", payload, &response)
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "recommender.window", call, classifyRemoteError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, wrapTemporaryIfNeeded("recommender window", err)
	}
	return response.Recommendations, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal recommend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create recommend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("recommender request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &HTTPStatusError{
			Operation:  "recommend",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(raw)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode recommend response: %w", err)
	}
	return nil
}
