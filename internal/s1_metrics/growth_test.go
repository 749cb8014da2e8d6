package s1_metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrowthRate(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     *float64
	}{
		{"zero base", 100, 0, nil},
		{"zero base, zero current", 0, 0, nil},
		{"zero base, negative current", -10, 0, nil},
		{"turn to profit", 30, -50, ptr(100.0)},
		{"turn to loss", -30, 50, ptr(-100.0)},
		{"revenue growth", 1000, 800, ptr(25.0)},
		{"decline", 600, 800, ptr(-25.0)},
		{"loss narrowed", -20, -50, ptr(60.0)},
		{"loss widened", -75, -50, ptr(-50.0)},
		{"to zero from positive", 0, 50, ptr(-100.0)},
		{"to zero from negative", 0, -50, ptr(100.0)},
		{"unchanged", 500, 500, ptr(0.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GrowthRate(tt.current, tt.previous)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestGrowthRate_SignFlipIsExact(t *testing.T) {
	pairs := [][2]float64{{1, -1}, {1e12, -0.01}, {0.0001, -1e9}}
	for _, p := range pairs {
		got := GrowthRate(p[0], p[1])
		require.NotNil(t, got)
		assert.Equal(t, 100.0, *got)

		got = GrowthRate(-p[0], -p[1])
		require.NotNil(t, got)
		assert.Equal(t, -100.0, *got)
	}
}

func TestGrowthRate_SameSignFormula(t *testing.T) {
	pairs := [][2]float64{{1000, 800}, {3, 7}, {-20, -50}, {-1234.5, -99.25}, {1e9, 3}}
	for _, p := range pairs {
		cur, prev := p[0], p[1]
		got := GrowthRate(cur, prev)
		require.NotNil(t, got)
		assert.Equal(t, ((cur-prev)/math.Abs(prev))*100, *got)
	}
}
