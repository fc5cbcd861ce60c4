package model

import (
	"fmt"
	"strings"
	"time"
)

type Range string

const (
	Range1D  Range = "1d"
	Range5D  Range = "5d"
	Range1M  Range = "1mo"
	Range3M  Range = "3mo"
	Range6M  Range = "6mo"
	Range1Y  Range = "1y"
	Range2Y  Range = "2y"
	Range5Y  Range = "5y"
	Range10Y Range = "10y"
	RangeYTD Range = "ytd"
	RangeMax Range = "max"
)

const DefaultRange = Range1M

// Ranges lists selectable ranges in selector order.
var Ranges = []Range{Range1D, Range5D, Range1M, Range3M, Range6M, Range1Y, Range2Y, Range5Y, Range10Y, RangeYTD, RangeMax}

func ParseRange(s string) (Range, error) {
	for _, r := range Ranges {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown range %q", s)
}

func (r Range) Label() string {
	switch r {
	case Range1M:
		return "1M"
	case Range3M:
		return "3M"
	case Range6M:
		return "6M"
	case RangeYTD:
		return "YTD"
	case RangeMax:
		return "MAX"
	default:
		return strings.ToUpper(string(r))
	}
}

// Window returns the calendar interval covered by the range, ending at now.
func (r Range) Window(now time.Time) (time.Time, time.Time) {
	to := now.UTC().Truncate(24 * time.Hour)
	switch r {
	case Range1D:
		return to.AddDate(0, 0, -1), to
	case Range5D:
		return to.AddDate(0, 0, -5), to
	case Range1M:
		return to.AddDate(0, -1, 0), to
	case Range3M:
		return to.AddDate(0, -3, 0), to
	case Range6M:
		return to.AddDate(0, -6, 0), to
	case Range1Y:
		return to.AddDate(-1, 0, 0), to
	case Range2Y:
		return to.AddDate(-2, 0, 0), to
	case Range5Y:
		return to.AddDate(-5, 0, 0), to
	case Range10Y:
		return to.AddDate(-10, 0, 0), to
	case RangeYTD:
		return time.Date(to.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), to
	default:
		return to.AddDate(-20, 0, 0), to
	}
}

type RenderMode string

const (
	Candlestick RenderMode = "candlestick"
	Line        RenderMode = "line"
	OHLC        RenderMode = "ohlc"
)

const DefaultRenderMode = Candlestick

var RenderModes = []RenderMode{Candlestick, Line, OHLC}

func ParseRenderMode(s string) (RenderMode, error) {
	for _, m := range RenderModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown render mode %q", s)
}

func (m RenderMode) Label() string {
	switch m {
	case Candlestick:
		return "Candles"
	case Line:
		return "Line"
	default:
		return "OHLC"
	}
}
