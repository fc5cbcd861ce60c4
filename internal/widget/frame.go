package widget

import (
	"github.com/STTM-NSU/chart-terminal/internal/chart"
	"github.com/STTM-NSU/chart-terminal/internal/model"
	"github.com/STTM-NSU/chart-terminal/internal/tools"
)

type Header struct {
	Title string           `json:"title"`
	Range model.Range      `json:"range"`
	Mode  model.RenderMode `json:"mode"`

	RangeLabel string `json:"range_label"`
	ModeLabel  string `json:"mode_label"`
}

func NewHeader(ticker string, rng model.Range, mode model.RenderMode) Header {
	return Header{
		Title:      ticker + " - PRICE CHART",
		Range:      rng,
		Mode:       mode,
		RangeLabel: rng.Label(),
		ModeLabel:  mode.Label(),
	}
}

// StatsView is the formatted stats footer.
type StatsView struct {
	High   string `json:"high"`
	Low    string `json:"low"`
	Range  string `json:"range"`
	Volume string `json:"volume"`
}

func NewStatsView(s chart.Stats) StatsView {
	return StatsView{
		High:   tools.FormatPrice(s.High),
		Low:    tools.FormatPrice(s.Low),
		Range:  tools.FormatPrice(s.Range),
		Volume: tools.FormatVolume(s.LatestVolume),
	}
}

// Frame is everything a surface needs to show one state of a widget.
// Scene already has the banner and crosshair drawn on top.
type Frame struct {
	Seq       uint64
	Header    Header
	Scene     chart.Scene
	Stats     chart.Stats
	Banner    string
	Crosshair *chart.Crosshair
}

func (f Frame) SVG() []byte {
	return chart.SVG(f.Scene)
}

func (f Frame) StatsView() StatsView {
	return NewStatsView(f.Stats)
}
