package level

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Metric is an optional number. A missing metric never satisfies a
// threshold it is compared against. Non-finite values are stored as missing.
type Metric struct {
	value float64
	valid bool
}

// Some returns a present metric, or a missing one when v is NaN or infinite.
func Some(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Metric{}
	}
	return Metric{value: v, valid: true}
}

// SomeInt is Some for counts.
func SomeInt(n int) Metric { return Some(float64(n)) }

// None returns a missing metric.
func None() Metric { return Metric{} }

// FromPtr converts a nullable value, as decoded from YAML or a database row.
func FromPtr(p *float64) Metric {
	if p == nil {
		return None()
	}
	return Some(*p)
}

// Get returns the value and whether it is present.
func (m Metric) Get() (float64, bool) { return m.value, m.valid }

// Valid reports whether the metric is present.
func (m Metric) Valid() bool { return m.valid }

// Or returns the value, or def when missing.
func (m Metric) Or(def float64) float64 {
	if !m.valid {
		return def
	}
	return m.value
}

// AtLeast reports whether m >= threshold. A missing m fails. A missing
// threshold imposes no requirement.
func (m Metric) AtLeast(threshold Metric) bool {
	if !threshold.valid {
		return true
	}
	return m.valid && m.value >= threshold.value
}

// Below reports whether m < limit. Either side missing reports false.
func (m Metric) Below(limit Metric) bool {
	return m.valid && limit.valid && m.value < limit.value
}

// String formats the metric for reasons and logs.
func (m Metric) String() string {
	if !m.valid {
		return "missing"
	}
	return strconv.FormatFloat(m.value, 'f', -1, 64)
}

// MarshalJSON encodes a missing metric as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}

// UnmarshalJSON accepts numbers, numeric strings and null. Anything that
// does not parse as a finite number decodes as missing.
func (m *Metric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*m = Some(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*m = None()
		return nil
	}
	*m = parseMetric(s)
	return nil
}

func parseMetric(s string) Metric {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return None()
	}
	return Some(v)
}

// NormalizeRate converts a percentage given as 0-100 into a 0-1 fraction.
// Values greater than 1 are divided by 100; 1 itself stays 1 (100%).
func NormalizeRate(m Metric) Metric {
	if m.valid && m.value > 1 {
		return Some(m.value / 100)
	}
	return m
}
