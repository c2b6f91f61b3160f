package scoring

import "math"

// minMaxNormalize maps a factor column to [0,1] via (v-min)/(max-min).
// A degenerate column (zero range, or min/max undefined because every
// entry is NaN) yields 0.5 for all entries so one pathological factor
// cannot invalidate the whole ranking. Individual NaN entries also
// resolve to 0.5.
func minMaxNormalize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	min, max := math.NaN(), math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}

	rng := max - min
	if math.IsNaN(rng) || rng == 0 {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}

	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = 0.5
			continue
		}
		out[i] = (v - min) / rng
	}
	return out
}
