package sensor

// DefaultCapacity is the default number of samples a Buffer retains.
// Three is enough to bracket the render instant at typical sensor rates
// without adding perceptible lag.
const DefaultCapacity = 3

// Buffer is a bounded FIFO of orientation samples belonging to one
// sensor stream. Push evicts the oldest entry once capacity is
// exceeded. Buffer is not safe for concurrent use; the owning stream
// serializes access.
type Buffer struct {
	samples []Sample
	cap     int
}

// NewBuffer creates a buffer with the given capacity. Capacities below
// one fall back to DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		samples: make([]Sample, 0, capacity),
		cap:     capacity,
	}
}

// Push appends a sample, evicting the oldest when full. Out-of-order
// timestamps are accepted; they simply become another bracket candidate
// for Interpolate.
func (b *Buffer) Push(s Sample) {
	if len(b.samples) == b.cap {
		copy(b.samples, b.samples[1:])
		b.samples = b.samples[:b.cap-1]
	}
	b.samples = append(b.samples, s)
}

// Len returns the number of buffered samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Clear drops all buffered samples.
func (b *Buffer) Clear() {
	b.samples = b.samples[:0]
}

// Latest returns the most recently pushed sample.
func (b *Buffer) Latest() (Sample, bool) {
	if len(b.samples) == 0 {
		return Sample{}, false
	}
	return b.samples[len(b.samples)-1], true
}

// Interpolate produces the best-estimate sample for the given instant
// (same clock and unit as Sample.Timestamp). The second return is false
// only when the buffer is empty.
//
// A single sample is returned as-is regardless of atTime. With two or
// more, the pair bracketing atTime is used, or the two most recent when
// atTime is past the newest; the blend factor is clamped to [0,1], so
// the buffer never extrapolates. Beta and gamma interpolate linearly;
// alpha interpolates along the shortest arc of the compass circle.
func (b *Buffer) Interpolate(atTime float64) (Sample, bool) {
	switch len(b.samples) {
	case 0:
		return Sample{}, false
	case 1:
		return b.samples[0], true
	}

	older, newer := b.bracket(atTime)

	span := newer.Timestamp - older.Timestamp
	if span == 0 {
		return newer, true
	}

	t := (atTime - older.Timestamp) / span
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	return Sample{
		Alpha:     wrap360(older.Alpha + headingDelta(older.Alpha, newer.Alpha)*t),
		Beta:      lerp(older.Beta, newer.Beta, t),
		Gamma:     lerp(older.Gamma, newer.Gamma, t),
		Timestamp: lerp(older.Timestamp, newer.Timestamp, t),
	}, true
}

// bracket picks the adjacent pair whose timestamps straddle atTime,
// falling back to the two most recent samples.
func (b *Buffer) bracket(atTime float64) (older, newer Sample) {
	for i := 0; i < len(b.samples)-1; i++ {
		lo, hi := b.samples[i], b.samples[i+1]
		if lo.Timestamp > hi.Timestamp {
			lo, hi = hi, lo
		}
		if lo.Timestamp <= atTime && atTime <= hi.Timestamp {
			return lo, hi
		}
	}

	lo, hi := b.samples[len(b.samples)-2], b.samples[len(b.samples)-1]
	if lo.Timestamp > hi.Timestamp {
		lo, hi = hi, lo
	}
	return lo, hi
}
