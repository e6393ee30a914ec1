package arrivals

import "leaveby.app/internal/feed"

// ResolveArrival picks the arrival time of a stop time update, falling back
// to the departure time, and to Unknown when neither is present.
func ResolveArrival(arrival, departure feed.Timestamp) Instant {
	switch {
	case arrival.Present():
		return Instant(arrival.Seconds * 1000)
	case departure.Present():
		return Instant(departure.Seconds * 1000)
	default:
		return Unknown
	}
}

// Match selects the updates stopping at line's station and splits them by
// direction. Records keep feed order.
func Match(updates []feed.StopTimeUpdate, line TrackedLine) (inbound, outbound []ArrivalRecord) {
	for _, update := range updates {
		ref, ok := ParseStopID(update.StopID)
		if !ok || ref.Station != line.Station {
			continue
		}

		record := ArrivalRecord{
			Direction:     ref.Direction,
			Arrival:       ResolveArrival(update.Arrival, update.Departure),
			HideThreshold: line.HideThreshold,
			TripID:        update.TripID,
			RouteID:       update.RouteID,
		}

		if ref.Direction == Inbound {
			inbound = append(inbound, record)
		} else {
			outbound = append(outbound, record)
		}
	}

	return inbound, outbound
}
