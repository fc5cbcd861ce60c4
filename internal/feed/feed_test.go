package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/STTM-NSU/chart-terminal/internal/config"
	"github.com/STTM-NSU/chart-terminal/internal/logger"
	"github.com/STTM-NSU/chart-terminal/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.FeedConfig{
		Address:           srv.URL,
		Timeout:           2 * time.Second,
		RequestsPerMinute: 60000,
	}, logger.NewNop())
}

func TestFetchChart(t *testing.T) {
	var gotPath, gotPeriod string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPeriod = r.URL.Query().Get("period")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"date":"2024-01-08","open":1,"high":2,"low":0.5,"close":1.5,"volume":10}]}`))
	})

	raw, err := c.FetchChart(context.Background(), "aapl", model.Range3M)
	if err != nil {
		t.Fatalf("FetchChart() error = %v", err)
	}
	if gotPath != "/api/chart/AAPL" || gotPeriod != "3mo" {
		t.Fatalf("request = %s?period=%s", gotPath, gotPeriod)
	}
	if len(raw) != 1 || raw[0]["date"] != "2024-01-08" {
		t.Fatalf("raw = %v", raw)
	}
}

func TestFetchChartServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.FetchChart(context.Background(), "AAPL", model.Range1M)

	var fetchErr *DataFetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want *DataFetchError", err)
	}
	if fetchErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d", fetchErr.StatusCode)
	}
	if fetchErr.Reason != "API returned 500" {
		t.Errorf("Reason = %q", fetchErr.Reason)
	}
	if fetchErr.Ticker != "AAPL" || fetchErr.Range != model.Range1M {
		t.Errorf("error = %+v", fetchErr)
	}
}

func TestFetchChartEmptyPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	_, err := c.FetchChart(context.Background(), "AAPL", model.Range1M)
	if !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("error = %v, want ErrEmptyPayload", err)
	}
}

func TestFetchChartCancelled(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := c.FetchChart(ctx, "AAPL", model.Range1M)

	var fetchErr *DataFetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want *DataFetchError", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled in chain", err)
	}
}

func TestFetchChartEmptyTicker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request sent for empty ticker")
	})

	if _, err := c.FetchChart(context.Background(), "  ", model.Range1M); err == nil {
		t.Fatal("FetchChart() error = nil")
	}
}

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr error
	}{
		{name: "wrapped", body: `{"data":[{"Date":"2024-01-08"},{"date":"2024-01-09"}]}`, want: 2},
		{name: "bare array", body: `[{"date":"2024-01-08"}]`, want: 1},
		{name: "skips non objects", body: `[1, "x", {"date":"2024-01-08"}, null]`, want: 1},
		{name: "empty array", body: `[]`, wantErr: ErrEmptyPayload},
		{name: "null data", body: `{"data":null}`, wantErr: ErrEmptyPayload},
		{name: "detail only", body: `{"detail":"No chart data available"}`, wantErr: ErrEmptyPayload},
		{name: "data not array", body: `{"data":{"date":"2024-01-08"}}`, wantErr: ErrMalformedPayload},
		{name: "not json", body: `<html>`, wantErr: ErrMalformedPayload},
		{name: "scalar", body: `42`, wantErr: ErrMalformedPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := DecodePayload([]byte(tt.body))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if len(raw) != tt.want {
				t.Fatalf("len(raw) = %d, want %d", len(raw), tt.want)
			}
		})
	}
}
