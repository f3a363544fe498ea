package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestCompare(t *testing.T) {
	testCases := []struct {
		name     string
		current  float64
		previous *float64
		wantPct  float64
		wantDir  Direction
		wantOK   bool
	}{
		{
			name:     "increase",
			current:  90,
			previous: floatPtr(85),
			wantPct:  5.882352941176471,
			wantDir:  DirectionUp,
			wantOK:   true,
		},
		{
			name:     "decrease",
			current:  80,
			previous: floatPtr(100),
			wantPct:  -20,
			wantDir:  DirectionDown,
			wantOK:   true,
		},
		{
			name:     "unchanged",
			current:  50,
			previous: floatPtr(50),
			wantPct:  0,
			wantDir:  DirectionFlat,
			wantOK:   true,
		},
		{
			name:     "nil previous is undefined",
			current:  90,
			previous: nil,
			wantOK:   false,
		},
		{
			name:     "zero previous is undefined",
			current:  90,
			previous: floatPtr(0),
			wantOK:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmp, ok := Compare(tc.current, tc.previous)
			if !tc.wantOK {
				assert.False(t, ok)
				return
			}

			require.True(t, ok)
			assert.InDelta(t, tc.wantPct, cmp.Percentage, 1e-9)
			assert.Equal(t, tc.wantDir, cmp.Direction)
		})
	}
}

func TestComparisonDisplay(t *testing.T) {
	testCases := []struct {
		name string
		pct  float64
		want string
	}{
		{name: "positive gets explicit sign", pct: 5.882352941176471, want: "+5.9%"},
		{name: "negative", pct: -20, want: "-20.0%"},
		{name: "zero", pct: 0, want: "+0.0%"},
		{name: "rounds to one decimal", pct: 5.96, want: "+6.0%"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Comparison{Percentage: tc.pct}.Display())
		})
	}
}

func TestDirectionOf(t *testing.T) {
	assert.Equal(t, DirectionUp, DirectionOf(0.1))
	assert.Equal(t, DirectionDown, DirectionOf(-0.1))
	assert.Equal(t, DirectionFlat, DirectionOf(0))
}
