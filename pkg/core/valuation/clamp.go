package valuation

import "math"

// ClampRange converts a valuation band from MSEK to absolute SEK and enforces
// the band invariants. The model (and the fallback estimator) express ranges
// in millions; everything downstream works in kronor.
//
// The rule order is load-bearing and must not be rearranged:
//
//  1. repair mostLikely into [min, max] (midpoint reset)
//  2. if max/min > 2.5, recenter to mostLikely*0.7 .. mostLikely*1.75
//  3. if min < mostLikely*0.5, raise min to mostLikely*0.6
//  4. if max > mostLikely*2, lower max to mostLikely*1.8
//  5. round to whole kronor
//
// Steps 3-4 apply after the spread cap and can leave an asymmetric band, so
// the final max/min ratio is bounded but not strictly <= 2.5. Known quirk,
// kept for compatibility with historical valuations (pinned in clamp_test.go).
func ClampRange(r Range) Range {
	min := r.Min * 1_000_000
	max := r.Max * 1_000_000
	mostLikely := r.MostLikely * 1_000_000

	if mostLikely < min || mostLikely > max {
		mostLikely = (min + max) / 2
	}

	// min == 0 gives +Inf spread, which correctly forces a recenter.
	if max/min > 2.5 {
		min = mostLikely * 0.7
		max = mostLikely * 1.75
	}

	if min < mostLikely*0.5 {
		min = mostLikely * 0.6
	}
	if max > mostLikely*2 {
		max = mostLikely * 1.8
	}

	return Range{
		Min:        math.Round(min),
		Max:        math.Round(max),
		MostLikely: math.Round(mostLikely),
	}
}
