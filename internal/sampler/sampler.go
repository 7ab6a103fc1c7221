// Package sampler computes the set of timestamps to decode for text analysis.
package sampler

import (
	"math"
)

// Policy is the sampling policy for one analysis run.
type Policy struct {
	MaxKeyframes int     // cap on total samples
	IntervalSecs float64 // minimum spacing between samples
}

// Sample identifies one frame to decode.
type Sample struct {
	Index   int
	Seconds float64
}

// Plan computes sample timestamps for a video of the given duration.
// The effective interval is max(IntervalSecs, duration/MaxKeyframes) so the
// cap always holds. Samples start at t=0; a video shorter than the interval
// still yields one sample at t=0.
func Plan(duration float64, p Policy) []Sample {
	if p.MaxKeyframes < 1 || p.IntervalSecs <= 0 {
		return nil
	}

	if duration <= 0 || math.IsNaN(duration) {
		return []Sample{{Index: 0, Seconds: 0}}
	}

	interval := p.IntervalSecs
	if spread := duration / float64(p.MaxKeyframes); spread > interval {
		interval = spread
	}

	if duration < interval {
		return []Sample{{Index: 0, Seconds: 0}}
	}

	samples := make([]Sample, 0, p.MaxKeyframes)
	for i := 0; i < p.MaxKeyframes; i++ {
		ts := float64(i) * interval
		if ts >= duration {
			break
		}
		samples = append(samples, Sample{Index: i, Seconds: ts})
	}

	return samples
}

// EffectiveInterval returns the spacing Plan would use for the given duration.
func EffectiveInterval(duration float64, p Policy) float64 {
	interval := p.IntervalSecs
	if p.MaxKeyframes > 0 {
		if spread := duration / float64(p.MaxKeyframes); spread > interval {
			interval = spread
		}
	}
	return interval
}
