package scale

import "math"

// Bucketizer maps a temperature onto a palette index.
type Bucketizer struct {
	linear Linear
	size   int
}

// NewBucketizer maps [minTemp, maxTemp] linearly onto [0, size].
func NewBucketizer(minTemp, maxTemp float64, size int) Bucketizer {
	return Bucketizer{
		linear: NewLinear(minTemp, maxTemp, 0, float64(size)),
		size:   size,
	}
}

// Size returns the number of buckets.
func (b Bucketizer) Size() int {
	return b.size
}

// Bucket returns the floored, clamped index in [0, size-1]. The domain
// maximum would otherwise floor to size, one past the last bucket. A
// zero-width domain and NaN both map to bucket 0.
func (b Bucketizer) Bucket(temp float64) int {
	if b.size <= 0 || b.linear.Degenerate() || math.IsNaN(temp) {
		return 0
	}
	// Clamp before converting: int() of ±Inf or a huge float is undefined.
	f := math.Floor(b.linear.Map(temp))
	return int(min(max(f, 0), float64(b.size-1)))
}

// Bounds returns the temperature interval covered by bucket i.
func (b Bucketizer) Bounds(i int) (lo, hi float64) {
	d0, d1 := b.linear.Domain()
	if b.size <= 0 {
		return d0, d1
	}
	width := (d1 - d0) / float64(b.size)
	return d0 + float64(i)*width, d0 + float64(i+1)*width
}
