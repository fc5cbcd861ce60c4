package chart

import (
	"fmt"
	"math"
	"strings"
)

type point struct {
	x, y float64
}

// monotonePath builds a cubic path through points that preserves
// monotonicity in y between neighbours (Fritsch-Carlson tangents).
// Points must be ordered by x; fewer than two give an empty path.
func monotonePath(points []point) string {
	var b strings.Builder
	switch len(points) {
	case 0, 1:
		return ""
	case 2:
		fmt.Fprintf(&b, "M%.2f,%.2fL%.2f,%.2f", points[0].x, points[0].y, points[1].x, points[1].y)
		return b.String()
	}

	n := len(points)
	tangents := make([]float64, n)
	for i := 1; i < n-1; i++ {
		tangents[i] = interiorSlope(points[i-1], points[i], points[i+1])
	}
	tangents[0] = endSlope(points[0], points[1], tangents[1])
	tangents[n-1] = endSlope(points[n-2], points[n-1], tangents[n-2])

	fmt.Fprintf(&b, "M%.2f,%.2f", points[0].x, points[0].y)
	for i := 1; i < n; i++ {
		p0, p1 := points[i-1], points[i]
		dx := (p1.x - p0.x) / 3
		fmt.Fprintf(&b, "C%.2f,%.2f,%.2f,%.2f,%.2f,%.2f",
			p0.x+dx, p0.y+dx*tangents[i-1],
			p1.x-dx, p1.y-dx*tangents[i],
			p1.x, p1.y)
	}
	return b.String()
}

func interiorSlope(p0, p1, p2 point) float64 {
	h0 := p1.x - p0.x
	h1 := p2.x - p1.x
	if h0 == 0 || h1 == 0 {
		return 0
	}
	s0 := (p1.y - p0.y) / h0
	s1 := (p2.y - p1.y) / h1
	p := (s0*h1 + s1*h0) / (h0 + h1)
	t := (sign(s0) + sign(s1)) * math.Min(math.Min(math.Abs(s0), math.Abs(s1)), 0.5*math.Abs(p))
	if math.IsNaN(t) {
		return 0
	}
	return t
}

func endSlope(p0, p1 point, t float64) float64 {
	h := p1.x - p0.x
	if h == 0 {
		return t
	}
	return (3*(p1.y-p0.y)/h - t) / 2
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
