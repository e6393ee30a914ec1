package arrivals

import (
	"math"
	"time"
)

// AdviceKind tags a LeaveAdvice.
type AdviceKind int

const (
	// NoData means there is no inbound arrival to advise on.
	NoData AdviceKind = iota
	// TooLate means the leave time is now or already past.
	TooLate
	// LeaveBy means the rider has Minutes left before they must leave.
	LeaveBy
)

func (k AdviceKind) String() string {
	switch k {
	case TooLate:
		return "too_late"
	case LeaveBy:
		return "leave_by"
	default:
		return "no_data"
	}
}

// LeaveAdvice is the recommendation derived from the next inbound arrival.
// Minutes is only set, and always positive, for LeaveBy.
type LeaveAdvice struct {
	Kind    AdviceKind
	Minutes int
}

// Advise derives leave-time advice from the first known inbound arrival.
func Advise(inbound []ArrivalRecord, walk time.Duration, now time.Time) LeaveAdvice {
	for _, record := range inbound {
		if record.Arrival.IsUnknown() {
			continue
		}

		remaining := record.Arrival.Until(now)
		if remaining <= walk {
			return LeaveAdvice{Kind: TooLate}
		}
		leave := remaining - walk
		return LeaveAdvice{Kind: LeaveBy, Minutes: int(math.Ceil(leave.Minutes()))}
	}

	return LeaveAdvice{Kind: NoData}
}
