package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-fin/backend/internal/contracts"
	"github.com/wonny/aegis-fin/backend/internal/s1_metrics"
)

func line(year, account string, cur, prior, pp float64) contracts.AccountLineItem {
	return contracts.AccountLineItem{
		CorpCode:         "00126380",
		FiscalYear:       year,
		AccountName:      account,
		CurrentAmount:    cur,
		PriorAmount:      prior,
		PriorPriorAmount: pp,
	}
}

func fullFiling(year string) []contracts.AccountLineItem {
	return []contracts.AccountLineItem{
		line(year, "자산총계", 1000, 900, 800),
		line(year, "부채총계", 400, 380, 360),
		line(year, "유동자산", 500, 450, 400),
		line(year, "유동부채", 200, 190, 180),
		line(year, "자본총계", 600, 520, 440),
		line(year, "매출액", 2000, 1800, 1500),
		line(year, "영업이익", 200, 180, 150),
		line(year, "당기순이익", 150, 120, 100),
	}
}

func TestGate_Check_FullCoverage(t *testing.T) {
	gate := NewGate(s1_metrics.DefaultAccountNames(), DefaultConfig())

	snapshot := gate.Check(s1_metrics.Aggregate(fullFiling("2023"), 3))

	assert.Equal(t, []string{"2023", "2022", "2021"}, snapshot.Years)
	assert.InDelta(t, 1.0, snapshot.Score, 1e-9)
	assert.True(t, snapshot.Passed)
	assert.Empty(t, snapshot.Missing)
	assert.Empty(t, snapshot.MissingYears())
}

func TestGate_Check_MissingIncomeStatement(t *testing.T) {
	gate := NewGate(s1_metrics.DefaultAccountNames(), DefaultConfig())

	items := fullFiling("2023")[:5] // 재무상태표만
	snapshot := gate.Check(s1_metrics.Aggregate(items, 3))

	require.Len(t, snapshot.Missing, 3)
	assert.Equal(t, []string{"revenue", "operating_profit", "net_income"}, snapshot.Missing["2023"])
	assert.Equal(t, 0.0, snapshot.Coverage["revenue"])
	assert.Equal(t, 1.0, snapshot.Coverage["total_assets"])
	assert.InDelta(t, 0.5, snapshot.Score, 1e-9)
	assert.False(t, snapshot.Passed)
	assert.Equal(t, []string{"2023", "2022", "2021"}, snapshot.MissingYears())
}

func TestGate_Check_Empty(t *testing.T) {
	gate := NewGate(s1_metrics.DefaultAccountNames(), DefaultConfig())

	snapshot := gate.Check(s1_metrics.Aggregate(nil, 3))
	assert.Empty(t, snapshot.Years)
	assert.Zero(t, snapshot.Score)
	assert.False(t, snapshot.Passed)

	assert.NotPanics(t, func() { gate.Check(nil) })
}

func TestGate_calculateScore(t *testing.T) {
	gate := &Gate{config: Config{}}

	tests := []struct {
		name     string
		coverage map[string]float64
		want     float64
	}{
		{"nothing", map[string]float64{}, 0},
		{"revenue only", map[string]float64{"revenue": 1}, 0.20},
		{"half everywhere", map[string]float64{
			"revenue": 0.5, "net_income": 0.5, "total_equity": 0.5, "total_assets": 0.5,
			"total_liabilities": 0.5, "operating_profit": 0.5, "current_assets": 0.5, "current_liabilities": 0.5,
		}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, gate.calculateScore(tt.coverage), 1e-9)
		})
	}
}
