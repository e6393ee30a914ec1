package arrivals

import (
	"time"

	"leaveby.app/internal/feed"
)

// Evaluate runs one snapshot through matching, ranking and advice for line.
// The same snapshot and now always produce the same result.
func Evaluate(snapshot *feed.Snapshot, line TrackedLine, now time.Time) *LineResult {
	var updates []feed.StopTimeUpdate
	if snapshot != nil {
		updates = snapshot.Updates
	}

	inbound, outbound := Match(updates, line)

	result := &LineResult{
		Line:        line,
		Status:      StatusOK,
		Inbound:     Rank(inbound, line.HideThreshold, now),
		Outbound:    Rank(outbound, line.HideThreshold, now),
		RefreshedAt: now,
	}

	if line.WalkTime != nil {
		advice := Advise(result.Inbound, *line.WalkTime, now)
		result.Advice = &advice
	}

	return result
}
