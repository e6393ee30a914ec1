package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leaveby.app/internal/arrivals"
)

var now = time.Date(2026, time.March, 2, 8, 30, 0, 0, time.UTC)

func trackedLine() arrivals.TrackedLine {
	walk := 16 * time.Minute
	return arrivals.TrackedLine{
		ID:            "r-roosevelt",
		Name:          "R Train at Roosevelt Ave",
		Station:       "G14",
		HideThreshold: 14 * time.Minute,
		WalkTime:      &walk,
	}
}

func TestNewLineModel(t *testing.T) {
	arrival := arrivals.InstantOf(now.Add(20*time.Minute + 30*time.Second))
	result := &arrivals.LineResult{
		Line:        trackedLine(),
		Status:      arrivals.StatusOK,
		RefreshedAt: now,
		Generation:  4,
		Inbound: []arrivals.ArrivalRecord{
			{Direction: arrivals.Inbound, Arrival: arrival, HideThreshold: 14 * time.Minute, TripID: "R-1", RouteID: "R"},
		},
		Outbound: []arrivals.ArrivalRecord{
			{Direction: arrivals.Outbound, Arrival: arrivals.Unknown, TripID: "R-2", RouteID: "R"},
		},
	}

	model := NewLineModel(arrivals.Countdown(result, now))

	assert.Equal(t, "r-roosevelt", model.LineID)
	assert.Equal(t, "ok", model.Status)
	assert.Equal(t, now.UnixMilli(), model.RefreshedAt)
	assert.Equal(t, uint64(4), model.Generation)
	assert.Empty(t, model.Error)

	require.Len(t, model.Inbound, 1)
	in := model.Inbound[0]
	assert.Equal(t, "R-1", in.TripID)
	assert.Equal(t, "Inbound", in.Direction)
	require.NotNil(t, in.ArrivalTime)
	assert.Equal(t, int64(arrival), *in.ArrivalTime)
	require.NotNil(t, in.RemainingSeconds)
	assert.Equal(t, int64(1230), *in.RemainingSeconds)
	assert.Equal(t, "20m 30s", in.Countdown)
	assert.Equal(t, "Inbound: Arrives in 20m 30s", in.Text)
	assert.True(t, in.Visible)

	require.Len(t, model.Outbound, 1)
	out := model.Outbound[0]
	assert.Nil(t, out.ArrivalTime)
	assert.Nil(t, out.RemainingSeconds)
	assert.Equal(t, "N/A", out.Countdown)
	assert.False(t, out.Visible)

	require.NotNil(t, model.Advice)
	assert.Equal(t, AdviceModel{Kind: "leave_by", Minutes: 5, Text: "Leave in the next 5 minutes", Tone: "ok"}, *model.Advice)
}

func TestNewLineModelFailed(t *testing.T) {
	result := arrivals.Failed(trackedLine(), errors.New("fetch x: HTTP 503"), now)

	model := NewLineModel(arrivals.Countdown(result, now))

	assert.Equal(t, "failed", model.Status)
	assert.Equal(t, "fetch x: HTTP 503", model.Error)
	assert.Equal(t, "Error fetching data for R Train at Roosevelt Ave.", model.ErrorText)
	assert.NotNil(t, model.Inbound)
	assert.Empty(t, model.Inbound)
	assert.Nil(t, model.Advice)
}

func TestNewLineModelPending(t *testing.T) {
	model := NewLineModel(arrivals.Countdown(arrivals.Pending(trackedLine()), now))

	assert.Equal(t, "pending", model.Status)
	assert.Zero(t, model.RefreshedAt)
}

func TestNewLineReferences(t *testing.T) {
	noWalk := arrivals.TrackedLine{ID: "g", Name: "G", Station: "G22", Format: "nyct"}
	refs := NewLineReferences(trackedLine(), noWalk)

	require.Len(t, refs.Lines, 2)
	assert.Equal(t, "gtfsrt", refs.Lines[0].Format)
	assert.Equal(t, 14.0, refs.Lines[0].HideThresholdMinutes)
	require.NotNil(t, refs.Lines[0].WalkTimeMinutes)
	assert.Equal(t, 16.0, *refs.Lines[0].WalkTimeMinutes)
	assert.Equal(t, "nyct", refs.Lines[1].Format)
	assert.Nil(t, refs.Lines[1].WalkTimeMinutes)
}
