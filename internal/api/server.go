package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/STTM-NSU/chart-terminal/internal/desktop"
	"github.com/STTM-NSU/chart-terminal/internal/feed"
	"github.com/STTM-NSU/chart-terminal/internal/logger"
	"github.com/STTM-NSU/chart-terminal/internal/model"
	"github.com/STTM-NSU/chart-terminal/internal/terminal"
	"github.com/STTM-NSU/chart-terminal/internal/widget"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Service interface {
	CreateChart(ctx context.Context, req terminal.CreateChartRequest) (terminal.ChartView, error)
	GetChart(id string) (terminal.ChartView, error)
	SetMode(id string, mode model.RenderMode) (terminal.ChartView, error)
	SetRange(ctx context.Context, id string, rng model.Range) (terminal.ChartView, error)
	Refresh(ctx context.Context, id string) (terminal.ChartView, error)
	Pointer(id string, x, y float64, leave bool) (terminal.ChartView, error)
	Frame(id string) (widget.Frame, error)
	Surface(id string) (*desktop.Surface, error)
	ListWindows() []desktop.Window
	FocusWindow(id string) (desktop.Window, error)
	CloseWindow(id string) error
}

func NewServer(svc Service, l logger.Logger) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger(l))
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("Chart Terminal API", "1.0.0")
	api := humachi.New(router, cfg)

	registerChartHandlers(api, svc)
	registerWindowHandlers(api, svc)

	router.Get("/charts/{id}/chart.svg", svgHandler(svc, l))
	router.Get("/charts/{id}/stream", streamHandler(svc, l))

	return router
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}

	var (
		notFound *widget.ContainerNotFoundError
		fetchErr *feed.DataFetchError
	)
	switch {
	case errors.Is(err, terminal.ErrChartNotFound),
		errors.Is(err, desktop.ErrWindowNotFound),
		errors.As(err, &notFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, terminal.ErrInvalidInput):
		return huma.Error400BadRequest(err.Error())
	case errors.As(err, &fetchErr):
		return huma.Error502BadGateway(fetchErr.Reason)
	default:
		return huma.Error500InternalServerError(err.Error())
	}
}
