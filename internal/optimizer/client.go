package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dharmasatrya/smarttrip/internal/metrics"
	"github.com/dharmasatrya/smarttrip/internal/models"
	"github.com/dharmasatrya/smarttrip/internal/ratelimit"
)

const (
	EndpointAvailableDates   = "available-dates"
	EndpointOptimize         = "optimize"
	EndpointOptimizeMultiple = "optimize-multiple"
)

const (
	DefaultOptionCount = 3
	maxBodyBytes       = 10 << 20
	unknownError       = "unknown error"
)

// Client is the remote route/cost optimizer. Implementations never retry:
// a solve can take minutes and a retry is always a new user action.
type Client interface {
	AvailableDates(ctx context.Context) (*models.AvailableDates, error)
	Optimize(ctx context.Context, req models.TripRequest) (*models.TripResultLeg, error)
	OptimizeMultiple(ctx context.Context, req models.TripRequest) (*models.MultiOptionResult, error)
}

type Config struct {
	BaseURL     string
	Timeout     time.Duration
	OptionCount int
	Limiter     *ratelimit.EndpointLimiter
}

type HTTPClient struct {
	baseURL     string
	session     *http.Client
	optionCount int
	limiter     *ratelimit.EndpointLimiter
	logger      *slog.Logger
}

func NewHTTPClient(cfg Config, logger *slog.Logger) *HTTPClient {
	if cfg.OptionCount <= 0 {
		cfg.OptionCount = DefaultOptionCount
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		session:     &http.Client{Timeout: cfg.Timeout},
		optionCount: cfg.OptionCount,
		limiter:     cfg.Limiter,
		logger:      logger,
	}
}

func (c *HTTPClient) AvailableDates(ctx context.Context) (*models.AvailableDates, error) {
	var out models.AvailableDates
	if err := c.call(ctx, http.MethodGet, EndpointAvailableDates, nil, &out); err != nil {
		return nil, err
	}
	c.observe(EndpointAvailableDates, "ok")
	return &out, nil
}

func (c *HTTPClient) Optimize(ctx context.Context, req models.TripRequest) (*models.TripResultLeg, error) {
	req.OptionCount = 0

	var out models.TripResultLeg
	if err := c.call(ctx, http.MethodPost, EndpointOptimize, req, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		c.observe(EndpointOptimize, "malformed")
		return nil, models.NewUpstreamError(EndpointOptimize, err)
	}
	c.observe(EndpointOptimize, "ok")
	return &out, nil
}

func (c *HTTPClient) OptimizeMultiple(ctx context.Context, req models.TripRequest) (*models.MultiOptionResult, error) {
	req = req.WithOptionCount(c.optionCount)

	var out models.MultiOptionResult
	if err := c.call(ctx, http.MethodPost, EndpointOptimizeMultiple, req, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		c.observe(EndpointOptimizeMultiple, "malformed")
		return nil, models.NewUpstreamError(EndpointOptimizeMultiple, err)
	}
	c.observe(EndpointOptimizeMultiple, "ok")
	return &out, nil
}

func (c *HTTPClient) call(ctx context.Context, method, endpoint string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, endpoint); err != nil {
			c.observe(endpoint, "rate_limited")
			return models.NewUpstreamError(endpoint, err)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return models.NewUpstreamError(endpoint, fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+endpoint, reader)
	if err != nil {
		return models.NewUpstreamError(endpoint, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.session.Do(req)
	metrics.OptimizerDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.observe(endpoint, "transport_error")
		c.logger.Warn("optimizer call failed", "endpoint", endpoint, "error", err)
		return models.NewUpstreamError(endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.observe(endpoint, "transport_error")
		return models.NewUpstreamError(endpoint, fmt.Errorf("read response: %w", err))
	}

	c.logger.Info("optimizer call",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(endpoint, "http_error")
		return &models.UpstreamError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    errorDetail(data),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		c.observe(endpoint, "malformed")
		return models.NewUpstreamError(endpoint, fmt.Errorf("%w: %v", models.ErrMalformedResponse, err))
	}

	return nil
}

func (c *HTTPClient) observe(endpoint, outcome string) {
	metrics.OptimizerRequests.WithLabelValues(endpoint, outcome).Inc()
}

// errorDetail pulls {"detail": "..."} out of an error body. FastAPI-style
// validation errors carry a list there, which is passed through as JSON.
func errorDetail(data []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return unknownError
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		if s == "" {
			return unknownError
		}
		return s
	}
	if string(body.Detail) == "null" {
		return unknownError
	}
	return string(body.Detail)
}
