package indicator

import (
	"encoding/json"
	"math"
)

// Value is an optional float64. Indicator functions return it instead of
// NaN or sentinel values, so missing data cannot leak into arithmetic.
type Value struct {
	V     float64
	Valid bool
}

func Some(v float64) Value { return Value{V: v, Valid: true} }
func None() Value          { return Value{} }

// MarshalJSON renders undefined values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.V)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = None()
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

// MA computes the trailing n-period simple moving average per position.
// Positions before the window fills are undefined.
func MA(series []float64, n int) []Value {
	out := make([]Value, len(series))
	if n < 1 || len(series) < n {
		return out
	}

	var sum float64
	for i, v := range series {
		sum += v
		if i >= n {
			sum -= series[i-n]
		}
		if i >= n-1 {
			out[i] = Some(sum / float64(n))
		}
	}
	return out
}

// RollingStd computes the trailing n-period population standard deviation
// per position. Positions before the window fills are undefined.
func RollingStd(series []float64, n int) []Value {
	out := make([]Value, len(series))
	if n < 1 {
		return out
	}

	for i := range series {
		if i+1 < n {
			continue
		}
		window := series[i+1-n : i+1]
		out[i] = Some(populationStd(window))
	}
	return out
}

func populationStd(window []float64) float64 {
	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(len(window))

	variance := 0.0
	for _, v := range window {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(window))

	return math.Sqrt(variance)
}

// ZScoreLast measures how far the last value sits from the mean of the
// trailing n values, in population standard deviations. A flat window is
// neutral (0.0), not undefined.
func ZScoreLast(series []float64, n int) Value {
	if n < 1 || len(series) < n {
		return None()
	}

	window := series[len(series)-n:]
	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(n)

	std := populationStd(window)
	if std == 0 {
		return Some(0.0)
	}
	return Some((series[len(series)-1] - mean) / std)
}

// PctChange returns the percentage move of the last value against the value
// lookback steps back. Undefined when the series is too short or the
// reference value is zero.
func PctChange(series []float64, lookback int) Value {
	if lookback < 0 || len(series) <= lookback {
		return None()
	}
	curr := series[len(series)-1]
	prev := series[len(series)-1-lookback]
	if prev == 0 {
		return None()
	}
	return Some(100.0 * (curr/prev - 1.0))
}

// LastValid scans backward and returns the most recent defined value.
func LastValid(seq []Value) Value {
	for i := len(seq) - 1; i >= 0; i-- {
		if seq[i].Valid {
			return seq[i]
		}
	}
	return None()
}
