package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/STTM-NSU/chart-terminal/internal/chart"
	"github.com/STTM-NSU/chart-terminal/internal/config"
	"github.com/STTM-NSU/chart-terminal/internal/logger"
	"github.com/STTM-NSU/chart-terminal/internal/model"
	"github.com/bytedance/sonic"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const (
	_chartURL = "/api/chart/{ticker}"
)

// Client pulls chart payloads from the chart feed over HTTP.
type Client struct {
	c           *resty.Client
	rateLimiter ratelimit.Limiter
	cfg         config.FeedConfig

	logger logger.Logger
}

func NewClient(cfg config.FeedConfig, logger logger.Logger) *Client {
	client := resty.New().
		SetLogger(logger).
		SetBaseURL(cfg.Address).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetHeader("Accept", "application/json")

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 600
	}

	return &Client{
		c:           client,
		rateLimiter: ratelimit.New(rpm, ratelimit.Per(time.Minute)),
		cfg:         cfg,
		logger:      logger,
	}
}

// curl -X GET "http://localhost:8000/api/chart/AAPL?period=1mo" -H "accept: application/json"
func (c *Client) FetchChart(ctx context.Context, ticker string, rng model.Range) ([]chart.RawSample, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, &DataFetchError{Range: rng, Reason: "empty ticker"}
	}

	c.rateLimiter.Take()
	if err := ctx.Err(); err != nil {
		return nil, &DataFetchError{Ticker: ticker, Range: rng, Reason: err.Error(), Err: err}
	}

	req := c.c.R().
		SetContext(ctx).
		SetPathParam("ticker", ticker).
		SetQueryParam("period", string(rng))

	resp, err := req.Get(_chartURL)
	if err != nil {
		reason := "feed unreachable"
		switch {
		case ctx.Err() != nil:
			reason = ctx.Err().Error()
		case errors.Is(err, context.DeadlineExceeded):
			reason = "request timed out"
		}
		return nil, &DataFetchError{Ticker: ticker, Range: rng, Reason: reason, Err: fmt.Errorf("%w: can't send request for chart", err)}
	}
	defer resp.Body.Close()

	c.logger.Debugf("got response %s status: %s, %s", resp.Request.URL, resp.Status(), resp.Duration())

	if !resp.IsSuccess() {
		return nil, &DataFetchError{
			Ticker:     ticker,
			Range:      rng,
			StatusCode: resp.StatusCode(),
			Reason:     fmt.Sprintf("API returned %d", resp.StatusCode()),
		}
	}

	raw, err := DecodePayload(resp.Bytes())
	if err != nil {
		return nil, &DataFetchError{Ticker: ticker, Range: rng, StatusCode: resp.StatusCode(), Reason: err.Error(), Err: err}
	}

	return raw, nil
}

var (
	ErrEmptyPayload     = errors.New("no data returned")
	ErrMalformedPayload = errors.New("malformed payload")
)

// DecodePayload accepts either {"data": [...]} or a bare array of samples.
// Entries that are not objects are skipped.
func DecodePayload(body []byte) ([]chart.RawSample, error) {
	var doc any
	if err := sonic.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedPayload, err)
	}

	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		data, ok := v["data"]
		if !ok || data == nil {
			return nil, ErrEmptyPayload
		}
		arr, ok := data.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: data is not an array", ErrMalformedPayload)
		}
		items = arr
	default:
		return nil, fmt.Errorf("%w: unexpected %T", ErrMalformedPayload, doc)
	}

	raw := make([]chart.RawSample, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			raw = append(raw, chart.RawSample(obj))
		}
	}
	if len(raw) == 0 {
		return nil, ErrEmptyPayload
	}

	return raw, nil
}
