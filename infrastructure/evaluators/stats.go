package evaluators

import "math"

// seriesStats summarizes one duration or response-time series.
// Stdev is the sample standard deviation and is only defined for series
// of at least two values.
type seriesStats struct {
	count    int
	min      float64
	max      float64
	mean     float64
	stdev    float64
	hasStdev bool
}

// summarize computes min/max/mean/stdev over values. It returns false
// for an empty series; callers emit no row in that case rather than a
// statistic over zero elements.
func summarize(values []float64) (seriesStats, bool) {
	if len(values) == 0 {
		return seriesStats{}, false
	}

	s := seriesStats{count: len(values), min: values[0], max: values[0]}
	var sum float64
	for _, v := range values {
		sum += v
		s.min = math.Min(s.min, v)
		s.max = math.Max(s.max, v)
	}
	s.mean = sum / float64(len(values))

	if len(values) >= 2 {
		var sq float64
		for _, v := range values {
			d := v - s.mean
			sq += d * d
		}
		s.stdev = math.Sqrt(sq / float64(len(values)-1))
		s.hasStdev = true
	}
	return s, true
}

// mean returns the arithmetic mean of values, or 0 for an empty list.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
