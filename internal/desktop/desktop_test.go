package desktop

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/STTM-NSU/chart-terminal/internal/chart"
	"github.com/STTM-NSU/chart-terminal/internal/logger"
	"github.com/STTM-NSU/chart-terminal/internal/model"
	"github.com/STTM-NSU/chart-terminal/internal/widget"
)

type closer struct{ closed int }

func (c *closer) Close() error {
	c.closed++
	return nil
}

type recorder struct {
	moves  int
	leaves int
}

func (r *recorder) PointerMove(x, y float64) { r.moves++ }
func (r *recorder) PointerLeave()            { r.leaves++ }

type noFetch struct{}

func (noFetch) FetchChart(ctx context.Context, ticker string, rng model.Range) ([]chart.RawSample, error) {
	return nil, errors.New("offline")
}

func titles(ws []Window) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Title
	}
	return out
}

func TestManagerZOrder(t *testing.T) {
	m := NewManager(logger.NewNop())
	a := m.Open("a")
	b := m.Open("b")
	c := m.Open("c")

	if !strings.HasPrefix(a.ID, "win-") || a.ID == b.ID {
		t.Fatalf("ids = %s, %s", a.ID, b.ID)
	}
	if got := strings.Join(titles(m.List()), ","); got != "a,b,c" {
		t.Fatalf("List() = %s", got)
	}

	focused, err := m.Focus(a.ID)
	if err != nil {
		t.Fatalf("Focus() error = %v", err)
	}
	if !focused.Focused || focused.Z != 2 {
		t.Fatalf("focused = %+v", focused)
	}
	if got := strings.Join(titles(m.List()), ","); got != "b,c,a" {
		t.Fatalf("List() after focus = %s", got)
	}

	if err := m.Close(c.ID); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	list := m.List()
	if got := strings.Join(titles(list), ","); got != "b,a" {
		t.Fatalf("List() after close = %s", got)
	}
	if list[0].Z != 0 || list[1].Z != 1 || !list[1].Focused || list[0].Focused {
		t.Fatalf("List() = %+v", list)
	}
}

func TestManagerUnknownWindow(t *testing.T) {
	m := NewManager(logger.NewNop())

	if _, err := m.Focus("nope"); !errors.Is(err, ErrWindowNotFound) {
		t.Errorf("Focus() error = %v", err)
	}
	if err := m.Close("nope"); !errors.Is(err, ErrWindowNotFound) {
		t.Errorf("Close() error = %v", err)
	}
	if err := m.Attach("nope", &closer{}); !errors.Is(err, ErrWindowNotFound) {
		t.Errorf("Attach() error = %v", err)
	}
	if _, ok := m.Surface("nope"); ok {
		t.Error("Surface() found unknown window")
	}
}

func TestManagerCloseTearsDownContent(t *testing.T) {
	m := NewManager(logger.NewNop())
	w := m.Open("chart")
	c := &closer{}
	if err := m.Attach(w.ID, c); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if err := m.Attach(w.ID, &closer{}); err == nil {
		t.Fatal("second Attach() error = nil")
	}

	s, _ := m.SurfaceOf(w.ID)
	_, frames := s.Subscribe()

	if err := m.Close(w.ID); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if c.closed != 1 {
		t.Fatalf("content closed %d times", c.closed)
	}
	if _, ok := <-frames; ok {
		t.Fatal("subscriber channel left open")
	}
	if _, ok := m.Content(w.ID); ok {
		t.Fatal("content still reachable")
	}
}

func TestSurfaceFrames(t *testing.T) {
	s := newSurface()
	s.Draw(widget.Frame{Seq: 1})

	id, ch := s.Subscribe()
	if f := <-ch; f.Seq != 1 {
		t.Fatalf("primed frame = %d", f.Seq)
	}

	for i := uint64(2); i <= 10; i++ {
		s.Draw(widget.Frame{Seq: i})
	}
	var last uint64
	for len(ch) > 0 {
		last = (<-ch).Seq
	}
	if last != 10 {
		t.Fatalf("latest frame = %d, want 10", last)
	}
	if f, ok := s.Frame(); !ok || f.Seq != 10 {
		t.Fatalf("Frame() = %d, %v", f.Seq, ok)
	}

	s.Unsubscribe(id)
	if s.SubscriberCount() != 0 {
		t.Fatal("subscriber not removed")
	}
}

func TestSurfacePointer(t *testing.T) {
	s := newSurface()
	if s.PointerMove(1, 1) {
		t.Fatal("PointerMove() delivered without a handler")
	}

	r := &recorder{}
	s.SetPointerHandler(r)
	s.PointerMove(1, 1)
	s.PointerLeave()
	if r.moves != 1 || r.leaves != 1 {
		t.Fatalf("recorder = %+v", r)
	}

	s.SetPointerHandler(nil)
	if s.PointerLeave() {
		t.Fatal("PointerLeave() delivered after detach")
	}
}

func TestWidgetInWindow(t *testing.T) {
	m := NewManager(logger.NewNop())
	win := m.Open("AAPL")

	w, err := widget.New(m, win.ID, "AAPL", []chart.RawSample{
		{"date": "2024-03-04", "open": 1.0, "high": 2.0, "low": 0.5, "close": 1.5, "volume": 10.0},
	}, noFetch{}, widget.Options{}, logger.NewNop())
	if err != nil {
		t.Fatalf("widget.New() error = %v", err)
	}
	if err := m.Attach(win.ID, w); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	s, _ := m.SurfaceOf(win.ID)
	frame, ok := s.Frame()
	if !ok || frame.Header.Title != "AAPL - PRICE CHART" {
		t.Fatalf("Frame() = %+v, %v", frame.Header, ok)
	}
	if !s.PointerMove(100, 100) || w.State().Crosshair == nil {
		t.Fatal("pointer not routed to widget")
	}

	if err := m.Close(win.ID); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if s.PointerMove(100, 100) {
		t.Fatal("pointer routed after close")
	}
	if _, err := widget.New(m, win.ID, "AAPL", nil, noFetch{}, widget.Options{}, logger.NewNop()); err == nil {
		t.Fatal("widget created in a closed window")
	}
}
