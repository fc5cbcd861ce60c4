package tools

import (
	"math"
	"testing"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{11, "$11.00"},
		{123.456, "$123.46"},
		{0.1 + 0.2, "$0.30"},
		{math.NaN(), "$0.00"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatVolume(t *testing.T) {
	if got := FormatVolume(1234567); got != "1,234,567" {
		t.Fatalf("FormatVolume() = %q", got)
	}
	if got := FormatVolume(0); got != "0" {
		t.Fatalf("FormatVolume() = %q", got)
	}
}
