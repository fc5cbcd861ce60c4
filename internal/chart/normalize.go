package chart

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

var _dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
}

// Normalize turns a raw payload into a Series.
//
// Every field is looked up by its capitalized key first and its lowercase key
// second; a key holding null counts as absent. Entries without a parseable
// date or dated on a weekend are dropped. Numeric fields that fail to parse
// become 0. When two entries share a date the later one in raw wins.
func Normalize(raw []RawSample) Series {
	byDate := make(map[time.Time]int, len(raw))
	series := make(Series, 0, len(raw))

	for _, item := range raw {
		date, ok := parseDate(lookup(item, "Date", "date"))
		if !ok {
			continue
		}
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		sample := Sample{
			Date:   date,
			Open:   parseNumber(lookup(item, "Open", "open")),
			High:   parseNumber(lookup(item, "High", "high")),
			Low:    parseNumber(lookup(item, "Low", "low")),
			Close:  parseNumber(lookup(item, "Close", "close")),
			Volume: parseVolume(lookup(item, "Volume", "volume")),
		}

		if i, exists := byDate[date]; exists {
			series[i] = sample
			continue
		}
		byDate[date] = len(series)
		series = append(series, sample)
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series
}

func lookup(item RawSample, keys ...string) any {
	for _, k := range keys {
		if v, ok := item[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func parseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range _dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return calendarDate(t), true
			}
		}
		return time.Time{}, false
	case time.Time:
		return calendarDate(d), true
	case float64:
		return epochMillis(d)
	case int64:
		return epochMillis(float64(d))
	case int:
		return epochMillis(float64(d))
	case json.Number:
		f, err := d.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return epochMillis(f)
	default:
		return time.Time{}, false
	}
}

func epochMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, false
	}
	return calendarDate(time.UnixMilli(int64(ms)).UTC()), true
}

// calendarDate keeps the date as written, dropping time of day and zone.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseNumber(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseVolume(v any) int64 {
	f := parseNumber(v)
	if f <= 0 {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(f)
}
