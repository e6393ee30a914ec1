package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewCurrentTimeData(t *testing.T) {
	testCases := []struct {
		name     string
		testTime time.Time
	}{
		{
			name:     "UTC Time",
			testTime: time.Date(2025, 5, 3, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "Local Time",
			testTime: time.Date(2025, 5, 3, 12, 0, 0, 0, time.Local),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := NewCurrentTimeData(tc.testTime)

			if result.Entry.Time != tc.testTime.UnixMilli() {
				t.Errorf("Expected time %d, got %d", tc.testTime.UnixMilli(), result.Entry.Time)
			}

			if result.Entry.ReadableTime != tc.testTime.Format(time.RFC3339) {
				t.Errorf("Expected readable time %s, got %s",
					tc.testTime.Format(time.RFC3339), result.Entry.ReadableTime)
			}

			if result.References.Lines == nil {
				t.Error("References.Lines should be initialized, not nil")
			}
		})
	}
}

func TestCurrentTimeDataEndToEnd(t *testing.T) {
	testTime := time.Date(2025, 5, 3, 12, 0, 0, 0, time.UTC)

	response := NewResponse(200, NewCurrentTimeData(testTime), "OK")

	jsonData, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("Failed to marshal response to JSON: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(jsonData, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	data, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected data to be an object, got %T", result["data"])
	}

	entry, ok := data["entry"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected entry to be an object, got %T", data["entry"])
	}

	if timeValue, ok := entry["time"].(float64); !ok || int64(timeValue) != testTime.UnixMilli() {
		t.Errorf("Expected time %d, got %v", testTime.UnixMilli(), entry["time"])
	}

	if readable, ok := entry["readableTime"].(string); !ok || readable != "2025-05-03T12:00:00Z" {
		t.Errorf("Expected readableTime 2025-05-03T12:00:00Z, got %v", entry["readableTime"])
	}

	refs, ok := data["references"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected references to be an object, got %T", data["references"])
	}
	if lines, ok := refs["lines"].([]interface{}); !ok || len(lines) != 0 {
		t.Errorf("Expected empty lines reference list, got %v", refs["lines"])
	}
}
