package arrivals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvise(t *testing.T) {
	tests := []struct {
		name    string
		inbound []ArrivalRecord
		walk    float64
		want    LeaveAdvice
	}{
		{
			name: "no inbound arrivals",
			walk: 10,
			want: LeaveAdvice{Kind: NoData},
		},
		{
			name:    "only unknown arrivals",
			inbound: []ArrivalRecord{record(Inbound, Unknown, "x")},
			walk:    10,
			want:    LeaveAdvice{Kind: NoData},
		},
		{
			name:    "walk longer than wait",
			inbound: []ArrivalRecord{record(Inbound, in(10), "a")},
			walk:    16,
			want:    LeaveAdvice{Kind: TooLate},
		},
		{
			name:    "leave time exactly now",
			inbound: []ArrivalRecord{record(Inbound, in(16), "a")},
			walk:    16,
			want:    LeaveAdvice{Kind: TooLate},
		},
		{
			name:    "whole minutes left",
			inbound: []ArrivalRecord{record(Inbound, in(25), "a"), record(Inbound, in(40), "b")},
			walk:    10,
			want:    LeaveAdvice{Kind: LeaveBy, Minutes: 15},
		},
		{
			name:    "partial minutes round up",
			inbound: []ArrivalRecord{record(Inbound, in(10.25), "a")},
			walk:    10,
			want:    LeaveAdvice{Kind: LeaveBy, Minutes: 1},
		},
		{
			name:    "zero walk time",
			inbound: []ArrivalRecord{record(Inbound, in(4.5), "a")},
			walk:    0,
			want:    LeaveAdvice{Kind: LeaveBy, Minutes: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Advise(tt.inbound, minutes(tt.walk), now))
		})
	}
}

func TestAdviceKindString(t *testing.T) {
	assert.Equal(t, "no_data", NoData.String())
	assert.Equal(t, "too_late", TooLate.String())
	assert.Equal(t, "leave_by", LeaveBy.String())
}
