package chart

import "time"

// RawSample is one undecoded entry of a chart payload. Keys may be
// capitalized (Date, Open, ...) or lowercase (date, open, ...).
type RawSample map[string]any

type Sample struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

func (s Sample) Up() bool {
	return s.Close >= s.Open
}

// Series is ordered by date, strictly increasing, weekends excluded.
type Series []Sample

func (s Series) Last() (Sample, bool) {
	if len(s) == 0 {
		return Sample{}, false
	}
	return s[len(s)-1], true
}
