package arrivals

import (
	"math"
	"time"
)

// RecordView is an ArrivalRecord with its time-dependent fields derived for
// one countdown tick.
type RecordView struct {
	ArrivalRecord
	Remaining time.Duration
	Visible   bool
}

// LineView is the countdown rendering of one published LineResult.
type LineView struct {
	Result   *LineResult
	At       time.Time
	Inbound  []RecordView
	Outbound []RecordView
	Advice   *LeaveAdvice
}

// Countdown recomputes remaining time, visibility and advice for a published
// result at now. List membership and order are taken as-is from the result.
func Countdown(result *LineResult, now time.Time) LineView {
	view := LineView{
		Result:   result,
		At:       now,
		Inbound:  recordViews(result.Inbound, now),
		Outbound: recordViews(result.Outbound, now),
	}

	if result.Status == StatusOK && result.Line.WalkTime != nil {
		advice := Advise(result.Inbound, *result.Line.WalkTime, now)
		view.Advice = &advice
	}

	return view
}

func recordViews(records []ArrivalRecord, now time.Time) []RecordView {
	views := make([]RecordView, len(records))
	for i, record := range records {
		views[i] = recordView(record, now)
	}
	return views
}

func recordView(record ArrivalRecord, now time.Time) RecordView {
	if record.Arrival.IsUnknown() {
		return RecordView{ArrivalRecord: record, Remaining: math.MaxInt64}
	}

	remaining := record.Arrival.Until(now)
	return RecordView{
		ArrivalRecord: record,
		Remaining:     remaining,
		Visible:       remaining >= record.HideThreshold,
	}
}

// VisibleCount returns how many records in views are shown.
func VisibleCount(views []RecordView) int {
	n := 0
	for _, v := range views {
		if v.Visible {
			n++
		}
	}
	return n
}
