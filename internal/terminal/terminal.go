package terminal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/STTM-NSU/chart-terminal/internal/chart"
	"github.com/STTM-NSU/chart-terminal/internal/config"
	"github.com/STTM-NSU/chart-terminal/internal/desktop"
	"github.com/STTM-NSU/chart-terminal/internal/feed"
	"github.com/STTM-NSU/chart-terminal/internal/logger"
	"github.com/STTM-NSU/chart-terminal/internal/model"
	"github.com/STTM-NSU/chart-terminal/internal/widget"
)

var (
	ErrChartNotFound = errors.New("chart not found")
	ErrInvalidInput  = errors.New("invalid input")
)

type CreateChartRequest struct {
	Ticker string
	Range  model.Range
	Mode   model.RenderMode
	Data   []chart.RawSample // nil means fetch once on open
}

type ChartView struct {
	ID     string           `json:"id"`
	Window desktop.Window   `json:"window"`
	Header widget.Header    `json:"header"`
	State  widget.State     `json:"state"`
	Stats  widget.StatsView `json:"stats_view"`
}

// Service runs chart widgets inside desktop windows.
type Service struct {
	desktop *desktop.Manager
	fetcher widget.Fetcher
	cfg     config.WidgetConfig

	logger logger.Logger
}

func NewService(d *desktop.Manager, fetcher widget.Fetcher, cfg config.WidgetConfig, logger logger.Logger) *Service {
	return &Service{
		desktop: d,
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
	}
}

// CreateChart opens a window with a chart in it. A failed first fetch still
// leaves the chart open with its error banner.
func (s *Service) CreateChart(ctx context.Context, req CreateChartRequest) (ChartView, error) {
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		return ChartView{}, fmt.Errorf("%w: ticker is required", ErrInvalidInput)
	}

	opts := widget.Options{
		Range:           s.cfg.DefaultRange,
		Mode:            s.cfg.DefaultMode,
		RefreshInterval: s.cfg.RefreshInterval,
		Layout:          chart.Layout{Width: s.cfg.Width, Height: s.cfg.Height, Margin: chart.DefaultLayout().Margin},
	}
	if req.Range != "" {
		rng, err := model.ParseRange(string(req.Range))
		if err != nil {
			return ChartView{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
		}
		opts.Range = rng
	}
	if req.Mode != "" {
		mode, err := model.ParseRenderMode(string(req.Mode))
		if err != nil {
			return ChartView{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
		}
		opts.Mode = mode
	}

	win := s.desktop.Open(ticker + " - PRICE CHART")
	w, err := widget.New(s.desktop, win.ID, ticker, req.Data, s.fetcher, opts, s.logger)
	if err != nil {
		_ = s.desktop.Close(win.ID)
		return ChartView{}, fmt.Errorf("%w: can't create chart", err)
	}
	if err := s.desktop.Attach(win.ID, w); err != nil {
		_ = w.Close()
		_ = s.desktop.Close(win.ID)
		return ChartView{}, fmt.Errorf("%w: can't attach chart", err)
	}

	if req.Data == nil {
		if err := w.Refresh(ctx); err != nil {
			s.logger.Warnf("%s: initial refresh of %s failed", err, ticker)
		}
	}

	s.logger.Infof("chart %s opened for %s", win.ID, ticker)
	return s.view(win.ID, w), nil
}

func (s *Service) GetChart(id string) (ChartView, error) {
	w, err := s.widget(id)
	if err != nil {
		return ChartView{}, err
	}
	return s.view(id, w), nil
}

func (s *Service) SetMode(id string, mode model.RenderMode) (ChartView, error) {
	w, err := s.widget(id)
	if err != nil {
		return ChartView{}, err
	}
	if _, err := model.ParseRenderMode(string(mode)); err != nil {
		return ChartView{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if err := w.SetMode(mode); err != nil {
		return ChartView{}, s.widgetErr(id, err)
	}
	return s.view(id, w), nil
}

// SetRange reports a failed fetch through the banner of the returned view,
// not as an error.
func (s *Service) SetRange(ctx context.Context, id string, rng model.Range) (ChartView, error) {
	w, err := s.widget(id)
	if err != nil {
		return ChartView{}, err
	}
	if _, err := model.ParseRange(string(rng)); err != nil {
		return ChartView{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if err := s.fetchResult(id, w.SetRange(ctx, rng)); err != nil {
		return ChartView{}, err
	}
	return s.view(id, w), nil
}

func (s *Service) Refresh(ctx context.Context, id string) (ChartView, error) {
	w, err := s.widget(id)
	if err != nil {
		return ChartView{}, err
	}
	if err := s.fetchResult(id, w.Refresh(ctx)); err != nil {
		return ChartView{}, err
	}
	return s.view(id, w), nil
}

func (s *Service) Pointer(id string, x, y float64, leave bool) (ChartView, error) {
	w, err := s.widget(id)
	if err != nil {
		return ChartView{}, err
	}
	if leave {
		w.PointerLeave()
	} else {
		w.PointerMove(x, y)
	}
	return s.view(id, w), nil
}

func (s *Service) Frame(id string) (widget.Frame, error) {
	surface, ok := s.desktop.SurfaceOf(id)
	if !ok {
		return widget.Frame{}, fmt.Errorf("%w: %s", ErrChartNotFound, id)
	}
	frame, ok := surface.Frame()
	if !ok {
		return widget.Frame{}, fmt.Errorf("%w: %s has nothing drawn", ErrChartNotFound, id)
	}
	return frame, nil
}

func (s *Service) Surface(id string) (*desktop.Surface, error) {
	surface, ok := s.desktop.SurfaceOf(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChartNotFound, id)
	}
	return surface, nil
}

func (s *Service) ListWindows() []desktop.Window {
	return s.desktop.List()
}

func (s *Service) FocusWindow(id string) (desktop.Window, error) {
	return s.desktop.Focus(id)
}

func (s *Service) CloseWindow(id string) error {
	return s.desktop.Close(id)
}

// Close tears down every window.
func (s *Service) Close() {
	s.desktop.CloseAll()
}

func (s *Service) widget(id string) (*widget.Widget, error) {
	content, ok := s.desktop.Content(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChartNotFound, id)
	}
	w, ok := content.(*widget.Widget)
	if !ok {
		return nil, fmt.Errorf("%w: window %s holds no chart", ErrChartNotFound, id)
	}
	return w, nil
}

func (s *Service) fetchResult(id string, err error) error {
	var fetchErr *feed.DataFetchError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &fetchErr):
		s.logger.Warnf("%s: chart %s refresh failed", err, id)
		return nil
	case errors.Is(err, widget.ErrSuperseded):
		return nil
	default:
		return s.widgetErr(id, err)
	}
}

func (s *Service) widgetErr(id string, err error) error {
	if errors.Is(err, widget.ErrClosed) {
		return fmt.Errorf("%w: %s", ErrChartNotFound, id)
	}
	return err
}

func (s *Service) view(id string, w *widget.Widget) ChartView {
	state := w.State()
	win, _ := s.desktop.Window(id)
	return ChartView{
		ID:     id,
		Window: win,
		Header: widget.NewHeader(state.Ticker, state.Range, state.Mode),
		State:  state,
		Stats:  widget.NewStatsView(state.Stats),
	}
}
