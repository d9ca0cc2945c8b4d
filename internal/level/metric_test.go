package level

import (
	"encoding/json"
	"math"
	"testing"
)

func TestMetric_AtLeast(t *testing.T) {
	tests := []struct {
		name      string
		m         Metric
		threshold Metric
		want      bool
	}{
		{"above", Some(5), Some(3), true},
		{"equal", Some(3), Some(3), true},
		{"below", Some(2), Some(3), false},
		{"missing value", None(), Some(0), false},
		{"nan value", Some(math.NaN()), Some(0), false},
		{"no threshold", None(), None(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.AtLeast(tt.threshold); got != tt.want {
				t.Errorf("AtLeast = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetric_JSON(t *testing.T) {
	var s Stats
	data := []byte(`{"total_attempts": 40, "recent_correct_rate": "0.75", "stable_concept_ratio": null}`)
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatal(err)
	}
	if v, ok := s.TotalAttempts.Get(); !ok || v != 40 {
		t.Errorf("total attempts = %v", s.TotalAttempts)
	}
	if v, ok := s.RecentCorrectRate.Get(); !ok || v != 0.75 {
		t.Errorf("rate = %v", s.RecentCorrectRate)
	}
	if s.StableConceptRatio.Valid() || s.LowBoxConceptCount.Valid() {
		t.Error("null and absent fields should be missing")
	}

	out, err := json.Marshal(struct {
		A Metric `json:"a"`
		B Metric `json:"b"`
	}{Some(0.5), None()})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"a":0.5,"b":null}` {
		t.Errorf("marshal = %s", out)
	}
}

func TestNormalizeRate(t *testing.T) {
	tests := []struct {
		in   Metric
		want Metric
	}{
		{Some(85), Some(0.85)},
		{Some(0.85), Some(0.85)},
		{Some(1), Some(1)},
		{Some(100), Some(1)},
		{None(), None()},
	}
	for _, tt := range tests {
		if got := NormalizeRate(tt.in); got != tt.want {
			t.Errorf("NormalizeRate(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
