package chart

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/STTM-NSU/chart-terminal/internal/model"
	"github.com/STTM-NSU/chart-terminal/internal/tools"
)

func testSeries() Series {
	return Series{
		{Date: date(2024, time.January, 8), Open: 100, High: 104, Low: 99, Close: 103, Volume: 1200},
		{Date: date(2024, time.January, 9), Open: 103, High: 105, Low: 101, Close: 102, Volume: 900},
		{Date: date(2024, time.January, 10), Open: 102, High: 108, Low: 102, Close: 107, Volume: 1500},
		{Date: date(2024, time.January, 11), Open: 107, High: 107, Low: 100, Close: 101, Volume: 2000},
	}
}

func countClass(scene Scene, prefix string) int {
	n := 0
	for _, s := range scene.Shapes {
		var class string
		switch v := s.(type) {
		case LineShape:
			class = v.Class
		case RectShape:
			class = v.Class
		case PathShape:
			class = v.Class
		case TextShape:
			class = v.Class
		case CircleShape:
			class = v.Class
		}
		if strings.HasPrefix(class, prefix) {
			n++
		}
	}
	return n
}

func TestRenderIsIdempotent(t *testing.T) {
	r := NewRenderer(DefaultLayout())
	for _, mode := range model.RenderModes {
		first := r.Render(testSeries(), mode)
		second := r.Render(testSeries(), mode)

		if !reflect.DeepEqual(first, second) {
			t.Errorf("%s: scenes differ between renders", mode)
		}
		if !bytes.Equal(SVG(first), SVG(second)) {
			t.Errorf("%s: svg output differs between renders", mode)
		}
	}
}

func TestRenderEmptySeries(t *testing.T) {
	r := NewRenderer(Layout{})
	scene := r.Render(nil, model.Candlestick)

	if len(scene.Shapes) != 1 {
		t.Fatalf("len(Shapes) = %d, want only the message", len(scene.Shapes))
	}
	text, ok := scene.Shapes[0].(TextShape)
	if !ok || text.Text != EmptyMessage {
		t.Fatalf("Shapes[0] = %#v", scene.Shapes[0])
	}
	if text.X != 400 || text.Y != 200 {
		t.Errorf("message at (%v, %v), want centered", text.X, text.Y)
	}
}

func TestRenderCandlestick(t *testing.T) {
	r := NewRenderer(DefaultLayout())
	scene := r.Render(testSeries(), model.Candlestick)

	if got := countClass(scene, "candle "); got != 4 {
		t.Errorf("candles = %d, want 4", got)
	}
	if got := countClass(scene, "wick "); got != 4 {
		t.Errorf("wicks = %d, want 4", got)
	}
	if got := countClass(scene, "current-price-line"); got != 1 {
		t.Errorf("current price lines = %d, want 1", got)
	}

	var firstWick, firstCandle = -1, -1
	for i, s := range scene.Shapes {
		switch v := s.(type) {
		case LineShape:
			if strings.HasPrefix(v.Class, "wick") && firstWick < 0 {
				firstWick = i
			}
		case RectShape:
			if strings.HasPrefix(v.Class, "candle") {
				if firstCandle < 0 {
					firstCandle = i
				}
				if v.H < 1 {
					t.Errorf("candle body height %v < 1", v.H)
				}
			}
		}
	}
	if firstWick > firstCandle {
		t.Error("wicks must be drawn beneath bodies")
	}
}

func TestRenderCandleColors(t *testing.T) {
	r := NewRenderer(DefaultLayout())
	scene := r.Render(testSeries(), model.Candlestick)

	want := []string{ColorUp, ColorDown, ColorUp, ColorDown}
	var got []string
	for _, s := range scene.Shapes {
		if rect, ok := s.(RectShape); ok && strings.HasPrefix(rect.Class, "candle") {
			got = append(got, rect.Fill)
		}
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("candle colors = %v, want %v", got, want)
	}
}

func TestRenderDojiIsUp(t *testing.T) {
	r := NewRenderer(DefaultLayout())
	series := Series{{Date: date(2024, time.January, 8), Open: 10, High: 11, Low: 9, Close: 10}}
	scene := r.Render(series, model.Candlestick)

	for _, s := range scene.Shapes {
		if rect, ok := s.(RectShape); ok && strings.HasPrefix(rect.Class, "candle") {
			if rect.Fill != ColorUp {
				t.Fatalf("doji fill = %s, want %s", rect.Fill, ColorUp)
			}
			if rect.H != 1 {
				t.Fatalf("doji height = %v, want 1", rect.H)
			}
			return
		}
	}
	t.Fatal("no candle drawn")
}

func TestRenderLine(t *testing.T) {
	r := NewRenderer(DefaultLayout())
	scene := r.Render(testSeries(), model.Line)

	if got := countClass(scene, "line"); got != 1 {
		t.Fatalf("line paths = %d, want 1", got)
	}
	if got := countClass(scene, "candle"); got != 0 {
		t.Fatalf("line mode drew %d candles", got)
	}
	for _, s := range scene.Shapes {
		if p, ok := s.(PathShape); ok {
			if !strings.HasPrefix(p.D, "M") || strings.Count(p.D, "C") != 3 {
				t.Fatalf("path = %q, want move plus 3 cubic segments", p.D)
			}
		}
	}
}

func TestRenderOHLC(t *testing.T) {
	r := NewRenderer(DefaultLayout())
	scene := r.Render(testSeries(), model.OHLC)

	if got := countClass(scene, "ohlc-open"); got != 4 {
		t.Errorf("open ticks = %d, want 4", got)
	}
	if got := countClass(scene, "ohlc-close"); got != 4 {
		t.Errorf("close ticks = %d, want 4", got)
	}
	for _, s := range scene.Shapes {
		l, ok := s.(LineShape)
		if !ok {
			continue
		}
		switch l.Class {
		case "ohlc-open":
			if l.X1 >= l.X2 {
				t.Error("open tick must point left")
			}
		case "ohlc-close":
			if l.X2 <= l.X1 {
				t.Error("close tick must point right")
			}
		}
	}
}

func TestRenderSingleSample(t *testing.T) {
	r := NewRenderer(DefaultLayout())
	series := Series{{Date: date(2024, time.January, 8), Open: 10, High: 10, Low: 10, Close: 10}}

	for _, mode := range model.RenderModes {
		scene := r.Render(series, mode)
		if len(scene.Shapes) == 0 {
			t.Errorf("%s: empty scene", mode)
		}
		if !bytes.Contains(SVG(scene), []byte("<svg")) {
			t.Errorf("%s: svg missing root element", mode)
		}
	}
}

func TestRenderLineSingleSampleDrawsPoint(t *testing.T) {
	r := NewRenderer(DefaultLayout())
	series := Series{{Date: date(2024, time.January, 8), Open: 9, High: 11, Low: 8, Close: 10}}

	scene := r.Render(series, model.Line)
	var dots []CircleShape
	for _, s := range scene.Shapes {
		switch v := s.(type) {
		case CircleShape:
			dots = append(dots, v)
		case PathShape:
			t.Fatalf("single sample drawn as path %q", v.D)
		}
	}
	if len(dots) != 1 || dots[0].Class != "line-point" {
		t.Fatalf("dots = %+v", dots)
	}
	layout := r.Layout()
	if want := layout.Margin.Left + layout.PlotWidth()/2; dots[0].X != want {
		t.Fatalf("dot X = %v, want %v", dots[0].X, want)
	}
	if !bytes.Contains(SVG(scene), []byte("<circle")) {
		t.Fatal("svg has no circle")
	}
}

func TestCrosshair(t *testing.T) {
	r := NewRenderer(DefaultLayout())
	series := testSeries()
	layout := r.Layout()
	step := layout.PlotWidth() / float64(len(series))

	// pointer just right of the third band's left edge
	ch, ok := r.Crosshair(series, layout.Margin.Left+2*step+1, layout.Margin.Top+10)
	if !ok {
		t.Fatal("Crosshair() reported no target inside the plot")
	}
	if ch.Index != 2 {
		t.Fatalf("Index = %d, want 2", ch.Index)
	}
	if ch.Sample != series[2] {
		t.Fatalf("Sample = %+v", ch.Sample)
	}
	if ch.Label != "$107.00" {
		t.Fatalf("Label = %q", ch.Label)
	}
	if want := layout.Margin.Left + 2.5*step; ch.X != want {
		t.Fatalf("X = %v, want band center %v", ch.X, want)
	}

	y := PriceScale(series, layout.PlotHeight())
	if want := y.Invert(10); math.Abs(ch.PointerPrice-want) > 1e-9 {
		t.Fatalf("PointerPrice = %v, want %v", ch.PointerPrice, want)
	}

	shapes := ch.Shapes()
	if len(shapes) != 5 {
		t.Fatalf("len(Shapes()) = %d", len(shapes))
	}
	if c, ok := shapes[2].(CircleShape); !ok || c.R != 4.5 {
		t.Fatalf("focus marker = %#v", shapes[2])
	}
	if tag, ok := shapes[4].(TextShape); !ok || tag.Text != tools.FormatPrice(ch.PointerPrice) || tag.Y != layout.Margin.Top+14 {
		t.Fatalf("pointer price tag = %#v", shapes[4])
	}
}

func TestCrosshairOutsidePlot(t *testing.T) {
	r := NewRenderer(DefaultLayout())

	if _, ok := r.Crosshair(testSeries(), 5, 5); ok {
		t.Error("Crosshair() inside margin reported a target")
	}
	if _, ok := r.Crosshair(nil, 100, 100); ok {
		t.Error("Crosshair() on empty series reported a target")
	}
}

func TestSceneWithDoesNotMutate(t *testing.T) {
	r := NewRenderer(DefaultLayout())
	base := r.Render(testSeries(), model.Line)
	n := len(base.Shapes)

	overlay := base.With(r.Banner("Failed to load chart data: boom")...)
	if len(base.Shapes) != n {
		t.Fatal("With() mutated the base scene")
	}
	if len(overlay.Shapes) != n+2 {
		t.Fatalf("len(overlay.Shapes) = %d, want %d", len(overlay.Shapes), n+2)
	}
	if !bytes.Contains(SVG(overlay), []byte("Failed to load chart data: boom")) {
		t.Fatal("banner text missing from svg")
	}
}
