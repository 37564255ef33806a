// Package match evaluates paired numeric series against an open ratio
// interval.
package match

import "math"

// Bounds is the open interval a ratio must fall strictly inside to count
// as a match. Both ends are replaced together on every poll cycle.
type Bounds struct {
	Min float64
	Max float64
}

// Contains reports whether v lies strictly inside the interval. Equality
// at either end does not qualify, and NaN or infinite values never do.
func (b Bounds) Contains(v float64) bool {
	return b.Min < v && v < b.Max
}

// Confirmation reports that one index of one series of an event satisfied
// the bounds check.
type Confirmation struct {
	EventID string
	Set     string
	Index   int
	Ratio   float64
}

// Round3 rounds half away from zero to three decimal places. This is the
// precision every reported ratio carries on the wire.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Evaluate divides primary by reference index-wise, rounds each ratio to
// three decimals, and returns a confirmation for every ratio strictly
// inside bounds, in index order. Every index is checked; there is no
// early exit, so one call can yield several confirmations. The series
// must have equal length (the caller validates). A zero reference value
// yields an infinite or NaN ratio, which no finite open interval
// contains, so no separate branch is needed.
func Evaluate(primary, reference []float64, b Bounds, eventID, set string) []Confirmation {
	var hits []Confirmation
	for i, p := range primary {
		ratio := Round3(p / reference[i])
		if b.Contains(ratio) {
			hits = append(hits, Confirmation{
				EventID: eventID,
				Set:     set,
				Index:   i,
				Ratio:   ratio,
			})
		}
	}
	return hits
}
