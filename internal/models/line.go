package models

import (
	"time"

	"leaveby.app/internal/arrivals"
	"leaveby.app/internal/present"
)

// LineModel is the countdown state of one tracked line.
type LineModel struct {
	LineID      string         `json:"lineId"`
	Name        string         `json:"name"`
	Status      string         `json:"status"`
	Error       string         `json:"error,omitempty"`
	ErrorText   string         `json:"errorText,omitempty"`
	RefreshedAt int64          `json:"refreshedAt"`
	Generation  uint64         `json:"generation"`
	Inbound     []ArrivalModel `json:"inbound"`
	Outbound    []ArrivalModel `json:"outbound"`
	Advice      *AdviceModel   `json:"advice"`
}

// ArrivalModel is one ranked arrival. ArrivalTime and RemainingSeconds are
// null when the feed gave no time for the stop.
type ArrivalModel struct {
	TripID           string `json:"tripId"`
	RouteID          string `json:"routeId"`
	Direction        string `json:"direction"`
	ArrivalTime      *int64 `json:"arrivalTime"`
	RemainingSeconds *int64 `json:"remainingSeconds"`
	Countdown        string `json:"countdown"`
	Text             string `json:"text"`
	Visible          bool   `json:"visible"`
}

type AdviceModel struct {
	Kind    string `json:"kind"`
	Minutes int    `json:"minutes,omitempty"`
	Text    string `json:"text"`
	Tone    string `json:"tone"`
}

// NewLineModel builds the API model for one countdown view.
func NewLineModel(view arrivals.LineView) LineModel {
	result := view.Result
	model := LineModel{
		LineID:     result.Line.ID,
		Name:       result.Line.Name,
		Status:     result.Status.String(),
		Generation: result.Generation,
		Inbound:    newArrivalModels(view.Inbound),
		Outbound:   newArrivalModels(view.Outbound),
	}

	if !result.RefreshedAt.IsZero() {
		model.RefreshedAt = result.RefreshedAt.UnixMilli()
	}

	if result.Status == arrivals.StatusFailed {
		model.ErrorText = present.ErrorText(result.Line)
		if result.Err != nil {
			model.Error = result.Err.Error()
		}
	}

	if view.Advice != nil {
		model.Advice = &AdviceModel{
			Kind:    view.Advice.Kind.String(),
			Minutes: view.Advice.Minutes,
			Text:    present.AdviceText(*view.Advice),
			Tone:    string(present.AdviceTone(*view.Advice)),
		}
	}

	return model
}

// NewLineModels builds models for every view, in order.
func NewLineModels(views []arrivals.LineView) []LineModel {
	models := make([]LineModel, len(views))
	for i, view := range views {
		models[i] = NewLineModel(view)
	}
	return models
}

func newArrivalModels(records []arrivals.RecordView) []ArrivalModel {
	out := make([]ArrivalModel, len(records))
	for i, record := range records {
		out[i] = ArrivalModel{
			TripID:    record.TripID,
			RouteID:   record.RouteID,
			Direction: record.Direction.String(),
			Countdown: present.FormatRemaining(record),
			Text:      present.RecordText(record),
			Visible:   record.Visible,
		}
		if !record.Arrival.IsUnknown() {
			arrival := int64(record.Arrival)
			remaining := int64(record.Remaining / time.Second)
			out[i].ArrivalTime = &arrival
			out[i].RemainingSeconds = &remaining
		}
	}
	return out
}
