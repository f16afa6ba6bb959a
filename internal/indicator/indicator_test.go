package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMA(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		n      int
		want   []Value
	}{
		{
			name:   "window fills midway",
			series: []float64{1, 2, 3, 4},
			n:      3,
			want:   []Value{None(), None(), Some(2), Some(3)},
		},
		{
			name:   "series shorter than window",
			series: []float64{1, 2},
			n:      3,
			want:   []Value{None(), None()},
		},
		{
			name:   "window of one",
			series: []float64{5, 7},
			n:      1,
			want:   []Value{Some(5), Some(7)},
		},
		{
			name:   "empty series",
			series: nil,
			n:      3,
			want:   []Value{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MA(tt.series, tt.n)
			require.Len(t, got, len(tt.series))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].Valid, got[i].Valid, "position %d", i)
				if tt.want[i].Valid {
					assert.InDelta(t, tt.want[i].V, got[i].V, 1e-12, "position %d", i)
				}
			}
		})
	}
}

func TestRollingStd(t *testing.T) {
	series := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	got := RollingStd(series, 8)
	require.Len(t, got, 8)
	for i := 0; i < 7; i++ {
		assert.False(t, got[i].Valid, "position %d before window fills", i)
	}
	require.True(t, got[7].Valid)
	// Known population std of this series is exactly 2.
	assert.InDelta(t, 2.0, got[7].V, 1e-12)
}

func TestRollingStd_ShortSeries(t *testing.T) {
	got := RollingStd([]float64{1, 2}, 5)
	require.Len(t, got, 2)
	for i, v := range got {
		assert.False(t, v.Valid, "position %d", i)
	}
}

func TestZScoreLast(t *testing.T) {
	tests := []struct {
		name      string
		series    []float64
		n         int
		wantValid bool
		want      float64
	}{
		{
			name:      "constant series is neutral not undefined",
			series:    []float64{3, 3, 3, 3, 3},
			n:         5,
			wantValid: true,
			want:      0.0,
		},
		{
			name:      "too short",
			series:    []float64{1, 2, 3},
			n:         5,
			wantValid: false,
		},
		{
			name: "last value below the mean",
			// window mean 3, population std sqrt(2), last 1 → z = -sqrt(2)
			series:    []float64{5, 3, 4, 2, 1},
			n:         5,
			wantValid: true,
			want:      -1.414213562373095,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ZScoreLast(tt.series, tt.n)
			assert.Equal(t, tt.wantValid, got.Valid)
			if tt.wantValid {
				assert.InDelta(t, tt.want, got.V, 1e-9)
			}
		})
	}
}

func TestPctChange(t *testing.T) {
	tests := []struct {
		name      string
		series    []float64
		lookback  int
		wantValid bool
		want      float64
	}{
		{
			name:      "three steps back",
			series:    []float64{100, 90, 95, 110},
			lookback:  3,
			wantValid: true,
			want:      10.0,
		},
		{
			name:      "series not longer than lookback",
			series:    []float64{100, 110},
			lookback:  2,
			wantValid: false,
		},
		{
			name:      "zero reference never divides",
			series:    []float64{0, 50, 100},
			lookback:  2,
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PctChange(tt.series, tt.lookback)
			assert.Equal(t, tt.wantValid, got.Valid)
			if tt.wantValid {
				assert.InDelta(t, tt.want, got.V, 1e-9)
			}
		})
	}
}

func TestLastValid(t *testing.T) {
	assert.Equal(t, Some(7), LastValid([]Value{None(), Some(3), Some(7), None()}))
	assert.Equal(t, None(), LastValid([]Value{None(), None()}))
	assert.Equal(t, None(), LastValid(nil))
}
