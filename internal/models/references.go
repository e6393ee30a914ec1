package models

import "leaveby.app/internal/arrivals"

// ReferencesModel References model for related data
type ReferencesModel struct {
	Lines []LineReference `json:"lines"`
}

// LineReference describes the configuration of a tracked line.
type LineReference struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Station              string   `json:"station"`
	Format               string   `json:"format"`
	HideThresholdMinutes float64  `json:"hideThresholdMinutes"`
	WalkTimeMinutes      *float64 `json:"walkTimeMinutes"`
}

// NewEmptyReferences creates a new empty References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{Lines: []LineReference{}}
}

// NewLineReferences creates references for lines, in order.
func NewLineReferences(lines ...arrivals.TrackedLine) ReferencesModel {
	refs := NewEmptyReferences()
	for _, line := range lines {
		refs.Lines = append(refs.Lines, NewLineReference(line))
	}
	return refs
}

func NewLineReference(line arrivals.TrackedLine) LineReference {
	format := line.Format
	if format == "" {
		format = "gtfsrt"
	}

	ref := LineReference{
		ID:                   line.ID,
		Name:                 line.Name,
		Station:              line.Station,
		Format:               format,
		HideThresholdMinutes: line.HideThreshold.Minutes(),
	}
	if line.WalkTime != nil {
		walk := line.WalkTime.Minutes()
		ref.WalkTimeMinutes = &walk
	}
	return ref
}
