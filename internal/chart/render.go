package chart

import (
	"math"
	"strconv"

	"github.com/STTM-NSU/chart-terminal/internal/model"
	"github.com/STTM-NSU/chart-terminal/internal/tools"
)

const (
	EmptyMessage = "No chart data available"

	_yTicks       = 5
	_maxDateTicks = 6
	_candleFill   = 0.8
	_ohlcTick     = 0.3
)

type Margin struct {
	Top, Right, Bottom, Left float64
}

type Layout struct {
	Width, Height float64
	Margin        Margin
}

func DefaultLayout() Layout {
	return Layout{
		Width:  800,
		Height: 400,
		Margin: Margin{Top: 20, Right: 60, Bottom: 30, Left: 60},
	}
}

func (l Layout) PlotWidth() float64 {
	return math.Max(0, l.Width-l.Margin.Left-l.Margin.Right)
}

func (l Layout) PlotHeight() float64 {
	return math.Max(0, l.Height-l.Margin.Top-l.Margin.Bottom)
}

// InPlot reports whether the surface point (x, y) is inside the plot area.
func (l Layout) InPlot(x, y float64) bool {
	return x >= l.Margin.Left && x <= l.Margin.Left+l.PlotWidth() &&
		y >= l.Margin.Top && y <= l.Margin.Top+l.PlotHeight()
}

type Renderer struct {
	layout Layout
}

func NewRenderer(layout Layout) *Renderer {
	def := DefaultLayout()
	if layout.Width <= 0 {
		layout.Width = def.Width
	}
	if layout.Height <= 0 {
		layout.Height = def.Height
	}
	if layout.Margin == (Margin{}) {
		layout.Margin = def.Margin
	}
	return &Renderer{layout: layout}
}

func (r *Renderer) Layout() Layout {
	return r.layout
}

// Render draws the whole surface from scratch. Equal inputs give equal scenes.
func (r *Renderer) Render(series Series, mode model.RenderMode) Scene {
	scene := Scene{Width: r.layout.Width, Height: r.layout.Height}

	if len(series) == 0 {
		scene.add(r.centeredText(EmptyMessage, ColorAccent))
		return scene
	}

	x := NewBandScale(len(series), r.layout.PlotWidth())
	y := PriceScale(series, r.layout.PlotHeight())

	r.drawGrid(&scene, y)
	r.drawDates(&scene, series, x)

	last, _ := series.Last()
	refY := r.layout.Margin.Top + y.Y(last.Close)
	scene.add(LineShape{
		X1: r.layout.Margin.Left, Y1: refY,
		X2: r.layout.Margin.Left + r.layout.PlotWidth(), Y2: refY,
		Stroke: ColorAccent, Width: 1, Dash: "3,3", Class: "current-price-line",
	})

	switch mode {
	case model.Line:
		r.drawLine(&scene, series, x, y)
	case model.OHLC:
		r.drawOHLC(&scene, series, x, y)
	default:
		r.drawCandles(&scene, series, x, y)
	}

	return scene
}

// Banner is drawn over an existing scene to report a failed refresh.
func (r *Renderer) Banner(message string) []Shape {
	top := r.layout.Margin.Top
	return []Shape{
		RectShape{
			X: r.layout.Margin.Left, Y: top,
			W: r.layout.PlotWidth(), H: 24,
			Fill: "#000000", Opacity: 0.75, Class: "error-banner",
		},
		TextShape{
			X: r.layout.Margin.Left + r.layout.PlotWidth()/2, Y: top + 16,
			Text: message, Fill: ColorAccent, Anchor: "middle", Size: 12, Class: "error-banner",
		},
	}
}

func (r *Renderer) centeredText(text, fill string) TextShape {
	return TextShape{
		X: r.layout.Width / 2, Y: r.layout.Height / 2,
		Text: text, Fill: fill, Anchor: "middle", Size: 14,
	}
}

func (r *Renderer) drawGrid(scene *Scene, y LinearScale) {
	left := r.layout.Margin.Left
	right := left + r.layout.PlotWidth()
	for _, tick := range y.Ticks(_yTicks) {
		ty := r.layout.Margin.Top + y.Y(tick)
		scene.add(
			LineShape{X1: left, Y1: ty, X2: right, Y2: ty, Stroke: ColorGrid, Width: 0.5, Class: "grid"},
			TextShape{X: right + 6, Y: ty + 4, Text: strconv.FormatFloat(tick, 'f', -1, 64), Fill: ColorAxis, Anchor: "start", Size: 10, Class: "y-axis"},
		)
	}
}

func (r *Renderer) drawDates(scene *Scene, series Series, x BandScale) {
	every := int(math.Ceil(float64(len(series)) / _maxDateTicks))
	baseline := r.layout.Margin.Top + r.layout.PlotHeight() + 18
	for i := 0; i < len(series); i += every {
		scene.add(TextShape{
			X: r.layout.Margin.Left + x.Center(i), Y: baseline,
			Text: series[i].Date.Format("Jan 02"), Fill: ColorAxis, Anchor: "middle", Size: 10, Class: "x-axis",
		})
	}
}

func (r *Renderer) drawCandles(scene *Scene, series Series, x BandScale, y LinearScale) {
	left, top := r.layout.Margin.Left, r.layout.Margin.Top
	barWidth := math.Max(1, x.Step()*_candleFill)

	// wicks first so bodies cover them
	for i, s := range series {
		cx := left + x.Center(i)
		scene.add(LineShape{
			X1: cx, Y1: top + y.Y(s.High), X2: cx, Y2: top + y.Y(s.Low),
			Stroke: upDown(s), Width: 1, Class: "wick " + direction(s),
		})
	}
	for i, s := range series {
		cx := left + x.Center(i)
		body := math.Abs(y.Y(s.Open) - y.Y(s.Close))
		scene.add(RectShape{
			X: cx - barWidth/2, Y: top + y.Y(math.Max(s.Open, s.Close)),
			W: barWidth, H: math.Max(body, 1),
			Fill: upDown(s), Stroke: upDown(s), Opacity: 1, Class: "candle " + direction(s),
		})
	}
}

func (r *Renderer) drawOHLC(scene *Scene, series Series, x BandScale, y LinearScale) {
	left, top := r.layout.Margin.Left, r.layout.Margin.Top
	tick := math.Max(1, x.Step()*_ohlcTick)

	for i, s := range series {
		cx := left + x.Center(i)
		color := upDown(s)
		scene.add(
			LineShape{X1: cx, Y1: top + y.Y(s.High), X2: cx, Y2: top + y.Y(s.Low), Stroke: color, Width: 1, Class: "ohlc"},
			LineShape{X1: cx - tick, Y1: top + y.Y(s.Open), X2: cx, Y2: top + y.Y(s.Open), Stroke: color, Width: 1, Class: "ohlc-open"},
			LineShape{X1: cx, Y1: top + y.Y(s.Close), X2: cx + tick, Y2: top + y.Y(s.Close), Stroke: color, Width: 1, Class: "ohlc-close"},
		)
	}
}

func (r *Renderer) drawLine(scene *Scene, series Series, x BandScale, y LinearScale) {
	points := make([]point, len(series))
	for i, s := range series {
		points[i] = point{
			x: r.layout.Margin.Left + x.Center(i),
			y: r.layout.Margin.Top + y.Y(s.Close),
		}
	}
	if len(points) == 1 {
		scene.add(CircleShape{X: points[0].x, Y: points[0].y, R: 3, Stroke: ColorAccent, Class: "line-point"})
		return
	}
	scene.add(PathShape{D: monotonePath(points), Stroke: ColorAccent, Width: 2, Class: "line"})
}

func upDown(s Sample) string {
	if s.Up() {
		return ColorUp
	}
	return ColorDown
}

func direction(s Sample) string {
	if s.Up() {
		return "up"
	}
	return "down"
}

// Crosshair marks the sample nearest to the pointer.
type Crosshair struct {
	Index  int     `json:"index"`
	Sample Sample  `json:"sample"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Label  string  `json:"label"`

	// PointerPrice is the price under the pointer itself, shown on the axis.
	PointerPrice float64 `json:"pointer_price"`
	PointerY     float64 `json:"pointer_y"`

	left, right, bottom float64
}

// Crosshair resolves a pointer position in surface coordinates to the
// nearest band. It reports false when the pointer is outside the plot or
// there is nothing to point at.
func (r *Renderer) Crosshair(series Series, px, py float64) (Crosshair, bool) {
	if len(series) == 0 || !r.layout.InPlot(px, py) {
		return Crosshair{}, false
	}

	x := NewBandScale(len(series), r.layout.PlotWidth())
	y := PriceScale(series, r.layout.PlotHeight())

	i := x.Index(px - r.layout.Margin.Left)
	s := series[i]
	return Crosshair{
		Index:        i,
		Sample:       s,
		X:            r.layout.Margin.Left + x.Center(i),
		Y:            r.layout.Margin.Top + y.Y(s.Close),
		Label:        tools.FormatPrice(s.Close),
		PointerPrice: y.Invert(py - r.layout.Margin.Top),
		PointerY:     py,
		left:         r.layout.Margin.Left,
		right:        r.layout.Margin.Left + r.layout.PlotWidth(),
		bottom:       r.layout.Margin.Top + r.layout.PlotHeight(),
	}, true
}

func (c Crosshair) Shapes() []Shape {
	return []Shape{
		LineShape{X1: c.X, Y1: c.Y, X2: c.X, Y2: c.bottom, Stroke: ColorAxis, Width: 1, Dash: "2,2", Class: "x-hair"},
		LineShape{X1: c.left, Y1: c.Y, X2: c.X, Y2: c.Y, Stroke: ColorAxis, Width: 1, Dash: "2,2", Class: "y-hair"},
		CircleShape{X: c.X, Y: c.Y, R: 4.5, Stroke: ColorAccent, Class: "focus"},
		TextShape{X: c.X + 9, Y: c.Y + 4, Text: c.Label, Fill: ColorAccent, Anchor: "start", Size: 11, Class: "focus"},
		TextShape{X: c.right + 6, Y: c.PointerY + 4, Text: tools.FormatPrice(c.PointerPrice), Fill: ColorAxis, Anchor: "start", Size: 10, Class: "pointer-price"},
	}
}
