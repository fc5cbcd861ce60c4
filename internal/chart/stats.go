package chart

import "math"

type Stats struct {
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Range        float64 `json:"range"`
	LatestVolume int64   `json:"latest_volume"`
}

// ComputeStats scans the whole series; an empty series yields zero stats.
func ComputeStats(series Series) Stats {
	if len(series) == 0 {
		return Stats{}
	}

	high := math.Inf(-1)
	low := math.Inf(1)
	for _, s := range series {
		if s.High > high {
			high = s.High
		}
		if s.Low < low {
			low = s.Low
		}
	}

	return Stats{
		High:         high,
		Low:          low,
		Range:        high - low,
		LatestVolume: series[len(series)-1].Volume,
	}
}
