package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kirillkom/stayrate/internal/core/domain"
	"github.com/kirillkom/stayrate/internal/core/ports"
	"github.com/kirillkom/stayrate/internal/observability/metrics"
)

// TrafficConfig bounds inbound load on the API process.
type TrafficConfig struct {
	RateLimitRPS   int
	RateLimitBurst int
	MaxInFlight    int
}

type Router struct {
	ingest      ports.DatasetIngestor
	datasets    ports.DatasetReader
	analytics   ports.AnalyticsService
	recommend   ports.RecommendationService
	assistant   ports.AssistantService
	competitors ports.CompetitorRepository
	metrics     *metrics.HTTPServerMetrics
	traffic     TrafficConfig
}

func NewRouter(
	ingest ports.DatasetIngestor,
	datasets ports.DatasetReader,
	analytics ports.AnalyticsService,
	recommend ports.RecommendationService,
	assistant ports.AssistantService,
	competitors ports.CompetitorRepository,
	httpMetrics *metrics.HTTPServerMetrics,
	traffic TrafficConfig,
) *Router {
	return &Router{
		ingest:      ingest,
		datasets:    datasets,
		analytics:   analytics,
		recommend:   recommend,
		assistant:   assistant,
		competitors: competitors,
		metrics:     httpMetrics,
		traffic:     traffic,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/datasets", rt.uploadDataset)
	mux.HandleFunc("/v1/datasets/", rt.datasetByID)
	mux.HandleFunc("/v1/analytics/calendar", rt.analyticsCalendar)
	mux.HandleFunc("/v1/analytics/summary", rt.analyticsSummary)
	mux.HandleFunc("/v1/recommendations", rt.recommendationWindow)
	mux.HandleFunc("/v1/competitor-data", rt.competitorData)
	mux.HandleFunc("/v1/assistant/chat", rt.assistantChat)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.traffic.MaxInFlight, 0)
	handler = rateLimitMiddleware(handler, rt.traffic.RateLimitRPS, rt.traffic.RateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	ds, err := rt.ingest.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		rt.recordUpload("rejected", 0)
		writeError(w, err)
		return
	}

	rt.recordUpload("accepted", fileHeader.Size)
	writeJSON(w, http.StatusAccepted, ds)
}

func (rt *Router) datasetByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/datasets/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "dataset id is required"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		ds, err := rt.datasets.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ds)
	case http.MethodDelete:
		if err := rt.datasets.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) analyticsCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	datasetID := r.URL.Query().Get("dataset_id")
	if datasetID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "dataset_id is required"})
		return
	}

	forwardDays := 0
	if raw := r.URL.Query().Get("forward_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "forward_days must be a non-negative integer"})
			return
		}
		forwardDays = parsed
	}

	model, err := rt.analytics.Calendar(r.Context(), datasetID, time.Now().UTC(), forwardDays)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model)
}

func (rt *Router) analyticsSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	datasetID := r.URL.Query().Get("dataset_id")
	if datasetID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "dataset_id is required"})
		return
	}

	summary, err := rt.analytics.Summary(r.Context(), datasetID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (rt *Router) recommendationWindow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		DatasetID string `json:"dataset_id"`
		From      string `json:"from"`
		Days      int    `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	from := time.Now().UTC()
	if req.From != "" {
		parsed, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "from must be an ISO date (YYYY-MM-DD)"})
			return
		}
		from = parsed
	}

	recs, err := rt.recommend.Window(r.Context(), req.DatasetID, from, req.Days)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordRecommendationWindow("api", "default", len(recs))
	}
	writeJSON(w, http.StatusOK, map[string]any{"recommendations": recs})
}

func (rt *Router) competitorData(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rt.listCompetitorData(w, r)
	case http.MethodPut:
		rt.upsertCompetitorData(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) listCompetitorData(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" {
		from = now.AddDate(0, 0, -30).Format("2006-01-02")
	}
	if to == "" {
		to = now.AddDate(0, 0, 30).Format("2006-01-02")
	}

	prices, err := rt.competitors.ListRange(r.Context(), from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"prices":  prices,
		"insight": summarizeCompetitors(prices),
	})
}

func (rt *Router) upsertCompetitorData(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prices []domain.CompetitorPrice `json:"prices"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if len(req.Prices) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "prices must not be empty"})
		return
	}
	for _, p := range req.Prices {
		if p.Property == "" || p.Price <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "each price needs a property and a positive price"})
			return
		}
		if _, err := time.Parse("2006-01-02", p.Date); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "each price needs an ISO date (YYYY-MM-DD)"})
			return
		}
	}

	if err := rt.competitors.UpsertBatch(r.Context(), req.Prices); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "stored": len(req.Prices)})
}

func (rt *Router) assistantChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	start := time.Now()
	result, err := rt.assistant.Chat(r.Context(), req)
	if err != nil {
		rt.recordAssistant("error", time.Since(start))
		writeError(w, err)
		return
	}

	rt.recordAssistant("success", time.Since(start))
	writeJSON(w, http.StatusOK, result)
}

func summarizeCompetitors(prices []domain.CompetitorPrice) domain.CompetitorInsight {
	insight := domain.CompetitorInsight{Observations: len(prices)}
	if len(prices) == 0 {
		return insight
	}

	insight.MinPrice = prices[0].Price
	insight.MaxPrice = prices[0].Price
	var sum float64
	for _, p := range prices {
		if p.Price < insight.MinPrice {
			insight.MinPrice = p.Price
		}
		if p.Price > insight.MaxPrice {
			insight.MaxPrice = p.Price
		}
		sum += p.Price
	}
	insight.AvgPrice = sum / float64(len(prices))
	return insight
}

func (rt *Router) recordUpload(status string, size int64) {
	if rt.metrics != nil {
		rt.metrics.RecordUpload("api", status, size)
	}
}

func (rt *Router) recordAssistant(status string, duration time.Duration) {
	if rt.metrics != nil {
		rt.metrics.RecordAssistantRequest("api", status, duration)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
