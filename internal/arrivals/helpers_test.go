package arrivals

import "time"

var now = time.Date(2026, time.March, 2, 8, 30, 0, 0, time.UTC)

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}

func walk(m float64) *time.Duration {
	d := minutes(m)
	return &d
}

// in returns the Instant m minutes after now.
func in(m float64) Instant {
	return InstantOf(now.Add(minutes(m)))
}

func record(direction Direction, arrival Instant, tripID string) ArrivalRecord {
	return ArrivalRecord{Direction: direction, Arrival: arrival, TripID: tripID}
}

func tripIDs(records []ArrivalRecord) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.TripID
	}
	return ids
}
