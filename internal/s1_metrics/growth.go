package s1_metrics

import "math"

// GrowthRate returns the percentage growth from previous to current
//
// Rules, in priority order:
//   - previous == 0: nil (기준값 0이면 성장률 정의 불가)
//   - previous < 0 && current > 0: 100.0 (흑자전환)
//   - previous > 0 && current < 0: -100.0 (적자전환)
//   - otherwise: (current - previous) / |previous| * 100
func GrowthRate(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}

	if previous < 0 && current > 0 {
		return ptr(100.0)
	}
	if previous > 0 && current < 0 {
		return ptr(-100.0)
	}

	g := (current - previous) / math.Abs(previous) * 100
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return nil
	}
	return &g
}

func ptr(v float64) *float64 {
	return &v
}
