package arrivals

import (
	"slices"
	"time"
)

// Rank orders records by arrival, drops those arriving sooner than threshold
// from now (and those with an unknown arrival), and keeps the first
// MaxPerDirection. The input slice is left untouched.
func Rank(records []ArrivalRecord, threshold time.Duration, now time.Time) []ArrivalRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b ArrivalRecord) int {
		switch {
		case a.Arrival < b.Arrival:
			return -1
		case a.Arrival > b.Arrival:
			return 1
		default:
			return 0
		}
	})

	ranked := make([]ArrivalRecord, 0, MaxPerDirection)
	for _, record := range sorted {
		if !arrivingAfter(record.Arrival, threshold, now) {
			continue
		}
		ranked = append(ranked, record)
		if len(ranked) == MaxPerDirection {
			break
		}
	}

	return ranked
}

// arrivingAfter reports whether an arrival is at least threshold away.
// Unknown arrivals never qualify.
func arrivingAfter(arrival Instant, threshold time.Duration, now time.Time) bool {
	if arrival.IsUnknown() {
		return false
	}
	return arrival.Until(now) >= threshold
}
