// Package arrivals turns decoded realtime snapshots into ranked per-line
// arrival lists, leave-time advice and live countdown views.
package arrivals

import (
	"math"
	"time"
)

// MaxPerDirection caps how many arrivals are kept per direction.
const MaxPerDirection = 3

// Direction of travel through a tracked station.
type Direction int

const (
	// Inbound trains stop at the "S" platform, toward Manhattan.
	Inbound Direction = iota
	// Outbound trains stop at the "N" platform.
	Outbound
)

func (d Direction) String() string {
	if d == Inbound {
		return "Inbound"
	}
	return "Outbound"
}

// Instant is an arrival time in milliseconds since the Unix epoch.
type Instant int64

// Unknown marks a record with neither an arrival nor a departure time. It
// sorts after every known instant.
const Unknown Instant = math.MaxInt64

// InstantOf converts t to an Instant.
func InstantOf(t time.Time) Instant {
	return Instant(t.UnixMilli())
}

// IsUnknown reports whether i is the Unknown sentinel.
func (i Instant) IsUnknown() bool {
	return i == Unknown
}

// Time returns i as a time.Time. Unknown maps to the zero time.
func (i Instant) Time() time.Time {
	if i.IsUnknown() {
		return time.Time{}
	}
	return time.UnixMilli(int64(i))
}

// maxMillis is the largest millisecond count a time.Duration can hold.
const maxMillis = math.MaxInt64 / int64(time.Millisecond)

// Until returns how long from now until i, saturating at the Duration
// limits. Callers must check IsUnknown first.
func (i Instant) Until(now time.Time) time.Duration {
	diff := int64(i) - now.UnixMilli()
	switch {
	case diff > maxMillis:
		return time.Duration(math.MaxInt64)
	case diff < -maxMillis:
		return time.Duration(math.MinInt64)
	}
	return time.Duration(diff) * time.Millisecond
}

// TrackedLine is one configured station/line pair. It is immutable after load.
type TrackedLine struct {
	ID      string
	Name    string
	Source  string
	Format  string
	Station string

	// HideThreshold suppresses arrivals sooner than this.
	HideThreshold time.Duration
	// WalkTime is the time needed to reach the platform. Lines without one get no advice.
	WalkTime *time.Duration
}

// ArrivalRecord is one matched stop time update.
type ArrivalRecord struct {
	Direction     Direction
	Arrival       Instant
	HideThreshold time.Duration
	TripID        string
	RouteID       string
}

// Status describes how a LineResult came to be.
type Status int

const (
	// StatusPending means no refresh cycle has completed for the line yet.
	StatusPending Status = iota
	// StatusOK means the last refresh cycle succeeded. The lists may be empty.
	StatusOK
	// StatusFailed means the last refresh cycle failed to fetch or decode.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

// LineResult is the published outcome of one refresh cycle for one line.
// Published results are shared between goroutines and must not be modified.
type LineResult struct {
	Line        TrackedLine
	Status      Status
	Err         error
	Inbound     []ArrivalRecord
	Outbound    []ArrivalRecord
	Advice      *LeaveAdvice
	RefreshedAt time.Time
	Generation  uint64
}

// Pending returns the placeholder result published before the first refresh.
func Pending(line TrackedLine) *LineResult {
	return &LineResult{Line: line, Status: StatusPending}
}

// Failed returns the error marker published when a refresh cycle fails.
func Failed(line TrackedLine, err error, now time.Time) *LineResult {
	return &LineResult{Line: line, Status: StatusFailed, Err: err, RefreshedAt: now}
}
