// Package present turns countdown frames into the text shown to riders.
package present

import (
	"fmt"
	"time"

	"leaveby.app/internal/arrivals"
)

const (
	InboundHeading  = "Inbound (Manhattan-bound)"
	OutboundHeading = "Outbound (Queens-bound)"
)

// Tone classifies advice for display. The terminal colours alert red and ok green.
type Tone string

const (
	ToneAlert Tone = "alert"
	ToneOK    Tone = "ok"
)

// FormatRemaining renders a countdown as "{m}m {s}s", flooring to the second.
func FormatRemaining(record arrivals.RecordView) string {
	if record.Arrival.IsUnknown() {
		return "N/A"
	}
	if record.Remaining <= 0 {
		return "Arriving now"
	}

	seconds := int64(record.Remaining / time.Second)
	if seconds == 0 {
		return "Arriving now"
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// RecordText renders one arrival line, e.g. "Inbound: Arrives in 4m 12s".
func RecordText(record arrivals.RecordView) string {
	return fmt.Sprintf("%s: Arrives in %s", record.Direction, FormatRemaining(record))
}

// AdviceText renders leave-time advice.
func AdviceText(advice arrivals.LeaveAdvice) string {
	switch advice.Kind {
	case arrivals.TooLate:
		return "If you run, you might make it!"
	case arrivals.LeaveBy:
		if advice.Minutes == 1 {
			return "Leave in the next 1 minute"
		}
		return fmt.Sprintf("Leave in the next %d minutes", advice.Minutes)
	default:
		return "No inbound trains available."
	}
}

// AdviceTone reports how urgent advice is.
func AdviceTone(advice arrivals.LeaveAdvice) Tone {
	if advice.Kind == arrivals.LeaveBy {
		return ToneOK
	}
	return ToneAlert
}

// ErrorText is shown in place of arrivals when a line's last refresh failed.
func ErrorText(line arrivals.TrackedLine) string {
	return fmt.Sprintf("Error fetching data for %s.", line.Name)
}
