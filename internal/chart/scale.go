package chart

import "math"

// BandScale maps sample indexes onto equal-width slots, so consecutive
// trading days are always adjacent whatever the calendar gap between them.
type BandScale struct {
	n     int
	width float64
}

func NewBandScale(n int, width float64) BandScale {
	return BandScale{n: n, width: width}
}

func (b BandScale) Step() float64 {
	if b.n == 0 {
		return 0
	}
	return b.width / float64(b.n)
}

// Center is the x coordinate of the middle of slot i.
func (b BandScale) Center(i int) float64 {
	step := b.Step()
	return float64(i)*step + step/2
}

// Index returns the slot containing x, clamped to the valid index range.
func (b BandScale) Index(x float64) int {
	if b.n == 0 {
		return -1
	}
	i := int(math.Floor(x / b.Step()))
	if i < 0 {
		return 0
	}
	if i >= b.n {
		return b.n - 1
	}
	return i
}

// LinearScale maps a price domain onto an inverted pixel range:
// the domain minimum lands on height, the maximum on 0.
type LinearScale struct {
	min, max float64
	height   float64
}

func NewLinearScale(min, max, height float64) LinearScale {
	if max <= min {
		pad := math.Max(math.Abs(min)*0.01, 1)
		min, max = min-pad, max+pad
	}
	return LinearScale{min: min, max: max, height: height}
}

// PriceScale pads the series extent by 1% on each side.
func PriceScale(series Series, height float64) LinearScale {
	low := math.Inf(1)
	high := math.Inf(-1)
	for _, s := range series {
		low = math.Min(low, s.Low)
		high = math.Max(high, s.High)
	}
	if len(series) == 0 {
		low, high = 0, 0
	}
	return NewLinearScale(low*0.99, high*1.01, height)
}

func (l LinearScale) Y(v float64) float64 {
	return l.height - (v-l.min)/(l.max-l.min)*l.height
}

// Invert maps a pixel offset back to a price.
func (l LinearScale) Invert(y float64) float64 {
	return l.min + (l.height-y)/l.height*(l.max-l.min)
}

// Ticks returns round values inside the domain, about count of them,
// spaced by 1, 2 or 5 times a power of ten.
func (l LinearScale) Ticks(count int) []float64 {
	if count <= 0 {
		return nil
	}
	step := tickStep(l.min, l.max, count)
	if step == 0 {
		return nil
	}
	start := math.Ceil(l.min / step)
	stop := math.Floor(l.max / step)

	ticks := make([]float64, 0, int(stop-start)+1)
	for i := start; i <= stop; i++ {
		ticks = append(ticks, roundTo(i*step, step))
	}
	return ticks
}

func tickStep(min, max float64, count int) float64 {
	span := max - min
	if span <= 0 {
		return 0
	}
	raw := span / float64(count)
	power := math.Pow(10, math.Floor(math.Log10(raw)))
	switch ratio := raw / power; {
	case ratio >= 7.07:
		return 10 * power
	case ratio >= 3.16:
		return 5 * power
	case ratio >= 1.41:
		return 2 * power
	default:
		return power
	}
}

func roundTo(v, step float64) float64 {
	decimals := math.Max(0, -math.Floor(math.Log10(step)))
	p := math.Pow(10, decimals)
	return math.Round(v*p) / p
}
