package mockfeed

import (
	"net/http"
	"strings"
	"time"

	"github.com/STTM-NSU/chart-terminal/internal/logger"
	"github.com/STTM-NSU/chart-terminal/internal/model"
	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const _noData = "No chart data available"

type sample struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

type chartResponse struct {
	Ticker string   `json:"ticker"`
	Period string   `json:"period"`
	Data   []sample `json:"data"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Server is the HTTP face of the mock feed.
type Server struct {
	source Source
	now    func() time.Time

	logger logger.Logger
}

func NewServer(source Source, logger logger.Logger) *Server {
	return &Server{
		source: source,
		now:    time.Now,
		logger: logger,
	}
}

func (s *Server) Handler() http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Get("/api/chart/{ticker}", s.chart)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return router
}

// curl "http://localhost:8000/api/chart/AAPL?period=1mo"
func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "ticker")))
	period := r.URL.Query().Get("period")
	if period == "" {
		period = string(model.DefaultRange)
	}

	rng, err := model.ParseRange(period)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	from, to := rng.Window(s.now())
	candles, err := s.source.Candles(r.Context(), ticker, from, to)
	if err != nil {
		s.logger.Errorf("%s: can't load candles for %s", err, ticker)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "can't load candles"})
		return
	}
	if len(candles) == 0 {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Detail: _noData})
		return
	}

	resp := chartResponse{
		Ticker: ticker,
		Period: string(rng),
		Data:   make([]sample, len(candles)),
	}
	for i, c := range candles {
		resp.Data[i] = sample{
			Date:   c.Ts.UTC().Format(time.DateOnly),
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,
		}
	}

	s.logger.Debugf("served %d candles of %s for %s", len(candles), ticker, rng)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		s.logger.Errorf("%s: can't encode response", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Debugf("%s: response write failed", err)
	}
}
