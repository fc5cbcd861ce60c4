package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/STTM-NSU/chart-terminal/internal/chart"
	"github.com/STTM-NSU/chart-terminal/internal/feed"
	"github.com/STTM-NSU/chart-terminal/internal/logger"
	"github.com/STTM-NSU/chart-terminal/internal/model"
	"github.com/robfig/cron/v3"
)

const _bannerPrefix = "Failed to load chart data: "

type Fetcher interface {
	FetchChart(ctx context.Context, ticker string, rng model.Range) ([]chart.RawSample, error)
}

type PointerHandler interface {
	PointerMove(x, y float64)
	PointerLeave()
}

// Surface is where a widget draws. Draw must not block.
type Surface interface {
	Draw(frame Frame)
	SetPointerHandler(h PointerHandler)
}

type SurfaceLookup interface {
	Surface(containerID string) (Surface, bool)
}

type Options struct {
	Range           model.Range
	Mode            model.RenderMode
	RefreshInterval time.Duration // 0 disables polling
	Layout          chart.Layout
}

type State struct {
	ContainerID string           `json:"container_id"`
	Ticker      string           `json:"ticker"`
	Range       model.Range      `json:"range"`
	Mode        model.RenderMode `json:"mode"`
	Stats       chart.Stats      `json:"stats"`
	Banner      string           `json:"banner,omitempty"`
	Samples     int              `json:"samples"`
	Crosshair   *chart.Crosshair `json:"crosshair,omitempty"`
	Refreshing  bool             `json:"refreshing"`
}

// Widget is a live chart of one ticker bound to one surface.
type Widget struct {
	containerID string
	ticker      string
	surface     Surface
	fetcher     Fetcher
	renderer    *chart.Renderer
	scheduler   *cron.Cron

	logger logger.Logger

	mu        sync.Mutex
	rng       model.Range
	mode      model.RenderMode
	series    chart.Series
	stats     chart.Stats
	base      chart.Scene
	banner    string
	crosshair *chart.Crosshair
	seq       uint64
	closed    bool

	// refresh bookkeeping: gen identifies the newest refresh, older ones
	// are discarded when they finish
	gen      uint64
	inflight int
	cancel   context.CancelFunc

	closeOnce sync.Once
}

func New(surfaces SurfaceLookup, containerID, ticker string, initial []chart.RawSample, fetcher Fetcher, opts Options, logger logger.Logger) (*Widget, error) {
	surface, ok := surfaces.Surface(containerID)
	if !ok {
		return nil, &ContainerNotFoundError{ContainerID: containerID}
	}
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	rng := model.DefaultRange
	if opts.Range != "" {
		r, err := model.ParseRange(string(opts.Range))
		if err != nil {
			return nil, fmt.Errorf("%w: can't create widget", err)
		}
		rng = r
	}
	mode := model.DefaultRenderMode
	if opts.Mode != "" {
		m, err := model.ParseRenderMode(string(opts.Mode))
		if err != nil {
			return nil, fmt.Errorf("%w: can't create widget", err)
		}
		mode = m
	}

	w := &Widget{
		containerID: containerID,
		ticker:      ticker,
		surface:     surface,
		fetcher:     fetcher,
		renderer:    chart.NewRenderer(opts.Layout),
		logger:      logger.With("ticker", ticker, "container", containerID),
		rng:         rng,
		mode:        mode,
	}

	w.mu.Lock()
	w.setSeries(chart.Normalize(initial))
	w.draw()
	w.mu.Unlock()

	surface.SetPointerHandler(w)

	if opts.RefreshInterval > 0 {
		if err := w.startPolling(opts.RefreshInterval); err != nil {
			w.Close()
			return nil, err
		}
	}

	return w, nil
}

func (w *Widget) startPolling(interval time.Duration) error {
	l := cronLogger{logger: w.logger}
	w.scheduler = cron.New(
		cron.WithChain(cron.SkipIfStillRunning(l)),
		cron.WithLogger(l),
	)
	if _, err := w.scheduler.AddFunc(everySpec(interval), w.tick); err != nil {
		return fmt.Errorf("%w: can't schedule refresh", err)
	}
	w.scheduler.Start()

	return nil
}

// SetMode redraws in another mode; it never fetches.
func (w *Widget) SetMode(mode model.RenderMode) error {
	mode, err := model.ParseRenderMode(string(mode))
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	if w.mode != mode {
		w.mode = mode
		w.base = w.renderer.Render(w.series, w.mode)
	}
	w.draw()

	return nil
}

// SetRange switches the range and refreshes once.
func (w *Widget) SetRange(ctx context.Context, rng model.Range) error {
	rng, err := model.ParseRange(string(rng))
	if err != nil {
		return err
	}

	return w.refresh(ctx, true, rng)
}

// Refresh fetches the current range. A refresh started while another one is
// in flight cancels the older one, whose result is then discarded.
func (w *Widget) Refresh(ctx context.Context) error {
	return w.refresh(ctx, true, "")
}

func (w *Widget) tick() {
	if err := w.refresh(context.Background(), false, ""); err != nil {
		switch {
		case errors.Is(err, ErrClosed), errors.Is(err, ErrSuperseded):
			w.logger.Debugf("%s: scheduled refresh dropped", err)
		default:
			w.logger.Warnf("%s: scheduled refresh failed", err)
		}
	}
}

// refresh switches to rng first unless it is empty, so a range change and its
// fetch start under one lock hold.
func (w *Widget) refresh(ctx context.Context, user bool, rng model.Range) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if !user && w.inflight > 0 {
		w.mu.Unlock()
		w.logger.Debugf("refresh in flight, tick skipped")
		return nil
	}
	if w.cancel != nil {
		w.cancel()
	}
	if rng != "" {
		w.rng = rng
	}
	w.gen++
	gen := w.gen
	rng = w.rng
	fetchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.inflight++
	w.mu.Unlock()

	raw, err := w.fetcher.FetchChart(fetchCtx, w.ticker, rng)
	cancel()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inflight--

	if w.closed {
		return ErrClosed
	}
	if gen != w.gen {
		return ErrSuperseded
	}
	w.cancel = nil

	if err != nil {
		fetchErr := w.asFetchError(rng, err)
		w.banner = _bannerPrefix + fetchErr.Reason
		w.draw()
		return fetchErr
	}

	w.setSeries(chart.Normalize(raw))
	w.banner = ""
	w.crosshair = nil
	w.draw()
	w.logger.Debugf("refreshed %s: %d samples", rng, len(w.series))

	return nil
}

func (w *Widget) asFetchError(rng model.Range, err error) *feed.DataFetchError {
	var fetchErr *feed.DataFetchError
	if errors.As(err, &fetchErr) {
		return fetchErr
	}
	return &feed.DataFetchError{Ticker: w.ticker, Range: rng, Reason: err.Error(), Err: err}
}

func (w *Widget) PointerMove(x, y float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	ch, ok := w.renderer.Crosshair(w.series, x, y)
	if !ok {
		if w.crosshair == nil {
			return
		}
		w.crosshair = nil
	} else {
		w.crosshair = &ch
	}
	w.draw()
}

func (w *Widget) PointerLeave() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.crosshair == nil {
		return
	}

	w.crosshair = nil
	w.draw()
}

func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	return State{
		ContainerID: w.containerID,
		Ticker:      w.ticker,
		Range:       w.rng,
		Mode:        w.mode,
		Stats:       w.stats,
		Banner:      w.banner,
		Samples:     len(w.series),
		Crosshair:   w.crosshair,
		Refreshing:  w.inflight > 0,
	}
}

// Close stops polling, cancels any fetch in flight and detaches from the
// surface. It is safe to call more than once.
func (w *Widget) Close() error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		if w.cancel != nil {
			w.cancel()
			w.cancel = nil
		}
		w.mu.Unlock()

		if w.scheduler != nil {
			<-w.scheduler.Stop().Done()
		}
		w.surface.SetPointerHandler(nil)
		w.logger.Debugf("widget closed")
	})

	return nil
}

// setSeries and draw expect w.mu to be held.
func (w *Widget) setSeries(series chart.Series) {
	w.series = series
	w.stats = chart.ComputeStats(series)
	w.base = w.renderer.Render(series, w.mode)
}

func (w *Widget) draw() {
	scene := w.base
	if w.banner != "" {
		scene = scene.With(w.renderer.Banner(w.banner)...)
	}
	if w.crosshair != nil {
		scene = scene.With(w.crosshair.Shapes()...)
	}

	w.seq++
	w.surface.Draw(Frame{
		Seq:       w.seq,
		Header:    NewHeader(w.ticker, w.rng, w.mode),
		Scene:     scene,
		Stats:     w.stats,
		Banner:    w.banner,
		Crosshair: w.crosshair,
	})
}
