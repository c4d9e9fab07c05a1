package scale

import "math"

// Linear maps a continuous domain [d0, d1] onto a range [r0, r1].
// Values outside the domain extrapolate.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear creates a linear scale.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain returns the input interval.
func (l Linear) Domain() (float64, float64) { return l.d0, l.d1 }

// Range returns the output interval.
func (l Linear) Range() (float64, float64) { return l.r0, l.r1 }

// Degenerate reports whether the domain has zero width.
func (l Linear) Degenerate() bool {
	return l.d0 == l.d1
}

// Map applies the scale. A degenerate domain maps everything to r0.
func (l Linear) Map(x float64) float64 {
	if l.Degenerate() {
		return l.r0
	}
	t := (x - l.d0) / (l.d1 - l.d0)
	// Interpolating as r0*(1-t) + r1*t keeps both endpoints exact.
	return l.r0*(1-t) + l.r1*t
}

// Ticks returns roughly count evenly spaced "nice" values inside the domain.
func (l Linear) Ticks(count int) []float64 {
	return Ticks(l.d0, l.d1, count)
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// Ticks returns values between start and stop (inclusive) spaced by 1, 2 or 5
// times a power of ten, aiming for count intervals.
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}

	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	rel := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case rel >= e10:
		factor = 10
	case rel >= e5:
		factor = 5
	case rel >= e2:
		factor = 2
	}

	var ticks []float64
	if power < 0 {
		// Work with the inverse increment so sub-unit steps stay exact.
		inv := math.Pow(10, -power) / factor
		i1 := math.Ceil(start * inv)
		i2 := math.Floor(stop * inv)
		for i := i1; i <= i2; i++ {
			ticks = append(ticks, i/inv)
		}
	} else {
		inc := factor * math.Pow(10, power)
		i1 := math.Ceil(start / inc)
		i2 := math.Floor(stop / inc)
		for i := i1; i <= i2; i++ {
			ticks = append(ticks, i*inc)
		}
	}

	if reverse {
		for i, j := 0, len(ticks)-1; i < j; i, j = i+1, j-1 {
			ticks[i], ticks[j] = ticks[j], ticks[i]
		}
	}
	return ticks
}
