package model

import (
	"testing"
	"time"
)

func TestParseRange(t *testing.T) {
	for _, r := range Ranges {
		got, err := ParseRange(string(r))
		if err != nil {
			t.Fatalf("ParseRange(%q) error = %v", r, err)
		}
		if got != r {
			t.Fatalf("ParseRange(%q) = %q", r, got)
		}
	}
	if _, err := ParseRange("2mo"); err == nil {
		t.Fatal("expected error for unknown range")
	}
}

func TestParseRenderMode(t *testing.T) {
	if _, err := ParseRenderMode("area"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	m, err := ParseRenderMode("ohlc")
	if err != nil || m != OHLC {
		t.Fatalf("ParseRenderMode(ohlc) = %q, %v", m, err)
	}
}

func TestRangeWindow(t *testing.T) {
	now := time.Date(2024, time.March, 15, 13, 45, 0, 0, time.UTC)

	tests := []struct {
		r    Range
		from time.Time
	}{
		{Range5D, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)},
		{Range1M, time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)},
		{Range1Y, time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{RangeYTD, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		from, to := tt.r.Window(now)
		if !from.Equal(tt.from) {
			t.Errorf("%s: from = %s, want %s", tt.r, from, tt.from)
		}
		if want := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC); !to.Equal(want) {
			t.Errorf("%s: to = %s, want %s", tt.r, to, want)
		}
	}
}

func TestRangeLabel(t *testing.T) {
	if got := Range1M.Label(); got != "1M" {
		t.Fatalf("Label() = %q", got)
	}
	if got := Range10Y.Label(); got != "10Y" {
		t.Fatalf("Label() = %q", got)
	}
}
