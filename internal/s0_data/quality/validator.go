package quality

import (
	"sort"

	"github.com/wonny/aegis-fin/backend/internal/s1_metrics"
)

// Gate checks that aggregated filings carry the accounts the ratio engine reads
// 누락 계정은 비율 계산 시 0으로 처리되므로 (null 비율) 사전에 감지
type Gate struct {
	accounts s1_metrics.AccountNames
	config   Config
}

// Config holds quality gate thresholds
type Config struct {
	MinScore float64 `yaml:"min_score"` // 0.80
}

// DefaultConfig returns the default thresholds
func DefaultConfig() Config {
	return Config{MinScore: 0.80}
}

// Snapshot is the result of one quality check
type Snapshot struct {
	Years    []string            `json:"years"`
	Coverage map[string]float64  `json:"coverage"` // field key -> 대상 연도 중 존재 비율
	Missing  map[string][]string `json:"missing"`  // year -> 누락 field key
	Score    float64             `json:"score"`
	Passed   bool                `json:"passed"`
}

// NewGate creates a new Gate instance
func NewGate(accounts s1_metrics.AccountNames, config Config) *Gate {
	return &Gate{
		accounts: accounts,
		config:   config,
	}
}

// Check validates field coverage over the aggregation's target years
// ⭐ SSOT: S0 → S1 재무 데이터 품질 검증
func (g *Gate) Check(agg *s1_metrics.Aggregation) *Snapshot {
	snapshot := &Snapshot{
		Years:    []string{},
		Coverage: make(map[string]float64),
		Missing:  make(map[string][]string),
	}
	if agg == nil || agg.IsEmpty() {
		return snapshot
	}

	snapshot.Years = append(snapshot.Years, agg.TargetYears...)
	fields := g.accounts.Fields()
	present := make(map[string]int, len(fields))

	for _, year := range agg.TargetYears {
		view := agg.Years[year].CurrentView()
		for _, f := range fields {
			if f.Present(view) {
				present[f.Key]++
				continue
			}
			snapshot.Missing[year] = append(snapshot.Missing[year], f.Key)
		}
	}

	n := float64(len(agg.TargetYears))
	for _, f := range fields {
		snapshot.Coverage[f.Key] = float64(present[f.Key]) / n
	}

	snapshot.Score = g.calculateScore(snapshot.Coverage)
	snapshot.Passed = snapshot.Score >= g.config.MinScore
	return snapshot
}

// MissingYears returns years with at least one missing field, descending
func (s *Snapshot) MissingYears() []string {
	years := make([]string, 0, len(s.Missing))
	for y := range s.Missing {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years
}

// calculateScore calculates overall quality score using weighted average
func (g *Gate) calculateScore(coverage map[string]float64) float64 {
	// 가중치 (합계 = 1.0)
	weights := map[string]float64{
		"revenue":             0.20, // 매출 (이익률/성장률 분모)
		"net_income":          0.20, // 순이익 (ROE/ROA/순이익률)
		"total_equity":        0.15, // 자본 (부채비율/ROE 분모)
		"total_assets":        0.15, // 자산 (ROA/부채의존도 분모)
		"total_liabilities":   0.10,
		"operating_profit":    0.10,
		"current_assets":      0.05,
		"current_liabilities": 0.05,
	}

	score := 0.0
	for key, weight := range weights {
		if cov, exists := coverage[key]; exists {
			score += cov * weight
		}
	}

	return score
}
