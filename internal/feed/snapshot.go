package feed

import "time"

// Timestamp is an optional epoch-seconds value carried by a stop time event.
type Timestamp struct {
	Seconds int64
	Valid   bool
}

// At returns a present Timestamp for the given epoch seconds.
func At(seconds int64) Timestamp {
	return Timestamp{Seconds: seconds, Valid: true}
}

// Present reports whether the timestamp carries a usable value. Zero is
// treated the same as absent since upstream feeds use it as "no estimate".
func (ts Timestamp) Present() bool {
	return ts.Valid && ts.Seconds != 0
}

// StopTimeUpdate is one stop time update flattened out of its trip update,
// together with the identifiers of the entity and trip that carried it.
type StopTimeUpdate struct {
	EntityID  string
	TripID    string
	RouteID   string
	StopID    string
	Arrival   Timestamp
	Departure Timestamp
}

// Snapshot is one decoded batch of trip update data. Updates keep the order
// in which they appeared in the feed.
type Snapshot struct {
	CreatedAt time.Time
	Updates   []StopTimeUpdate
}
