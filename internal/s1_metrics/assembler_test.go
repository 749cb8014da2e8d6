package s1_metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-fin/backend/internal/contracts"
)

func TestAssembler_SingleFilingScenario(t *testing.T) {
	items := []contracts.AccountLineItem{
		item("2023", "매출액", 1000, 800, 600),
		item("2023", "당기순이익", 100, 80, -50),
	}

	resp := NewAssembler(DefaultAccountNames(), DefaultTargetYears).Build(items).Response("샘플전자")

	assert.Equal(t, "샘플전자", resp.CompanyName)
	assert.Equal(t, []string{"2023", "2022", "2021"}, resp.FinancialMetrics.Years)
	assert.Equal(t, []string{"2023", "2022"}, resp.GrowthData.Years)

	nm := resp.FinancialMetrics.NetMargin
	require.Len(t, nm, 3)
	require.NotNil(t, nm[0])
	assert.InDelta(t, 10.0, *nm[0], 1e-9)
	require.NotNil(t, nm[1])
	assert.InDelta(t, 10.0, *nm[1], 1e-9)
	require.NotNil(t, nm[2])
	assert.InDelta(t, -50.0/600.0*100, *nm[2], 1e-9)

	rg := resp.GrowthData.RevenueGrowth
	require.Len(t, rg, 2)
	require.NotNil(t, rg[0])
	assert.InDelta(t, 25.0, *rg[0], 1e-9)
	require.NotNil(t, rg[1])
	assert.InDelta(t, (800.0-600.0)/600.0*100, *rg[1], 1e-9)

	// 2022(80) vs 2021(-50): 흑자전환
	ng := resp.GrowthData.NetIncomeGrowth
	require.NotNil(t, ng[1])
	assert.Equal(t, 100.0, *ng[1])

	// 자본/자산 계정이 없으므로 ROE, ROA, 부채비율, 유동비율은 null
	for i := range resp.FinancialMetrics.Years {
		assert.Nil(t, resp.FinancialMetrics.ROE[i])
		assert.Nil(t, resp.FinancialMetrics.ROA[i])
		assert.Nil(t, resp.DebtLiquidityData.DebtRatio[i])
		assert.Nil(t, resp.DebtLiquidityData.CurrentRatio[i])
	}
}

func TestAssembler_EmptyInput(t *testing.T) {
	table := NewAssembler(DefaultAccountNames(), 0).Build(nil)
	resp := table.Response("없는회사")

	assert.True(t, table.IsEmpty())
	assert.True(t, resp.IsEmpty())
	assert.Equal(t, contracts.NewEmptyMetricsResponse("없는회사"), resp)
	assert.Empty(t, table.Records("00000000"))
	assert.Empty(t, table.YearlyRatios())
}

func TestAssembler_LengthInvariant(t *testing.T) {
	tests := []struct {
		name      string
		items     []contracts.AccountLineItem
		wantYears int
	}{
		{"one non-numeric year", []contracts.AccountLineItem{item("FY23", "매출액", 1, 1, 1)}, 1},
		{"single filing", []contracts.AccountLineItem{item("2023", "매출액", 3, 2, 1)}, 3},
		{
			name: "three filings",
			items: []contracts.AccountLineItem{
				item("2023", "매출액", 3, 2, 1),
				item("2022", "매출액", 2, 1, 0),
				item("2021", "매출액", 1, 0, 0),
			},
			wantYears: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewAssembler(DefaultAccountNames(), DefaultTargetYears).Build(tt.items).Response("x")
			n := len(resp.FinancialMetrics.Years)
			assert.Equal(t, tt.wantYears, n)

			for _, series := range [][]*float64{
				resp.FinancialMetrics.OperatingMargin, resp.FinancialMetrics.NetMargin,
				resp.FinancialMetrics.ROE, resp.FinancialMetrics.ROA,
				resp.DebtLiquidityData.DebtRatio, resp.DebtLiquidityData.CurrentRatio,
			} {
				assert.Len(t, series, n)
			}

			wantGrowth := n - 1
			if n <= 1 {
				wantGrowth = 0
			}
			assert.Len(t, resp.GrowthData.Years, wantGrowth)
			assert.Len(t, resp.GrowthData.RevenueGrowth, wantGrowth)
			assert.Len(t, resp.GrowthData.NetIncomeGrowth, wantGrowth)
			assert.Equal(t, resp.FinancialMetrics.Years, resp.DebtLiquidityData.Years)
		})
	}
}

func TestAssembler_FullBalanceSheet(t *testing.T) {
	items := []contracts.AccountLineItem{
		item("2023", "자산총계", 2000, 1800, 1500),
		item("2023", "부채총계", 800, 900, 1500),
		item("2023", "자본총계", 1200, 900, 0),
		item("2023", "유동자산", 600, 500, 400),
		item("2023", "유동부채", 300, 250, 0),
		item("2023", "매출액", 1000, 0, 500),
		item("2023", "영업이익", 150, -20, 30),
		item("2023", "당기순이익", 120, -10, 20),
	}

	table := NewAssembler(DefaultAccountNames(), DefaultTargetYears).Build(items)
	require.Len(t, table.Rows, 3)

	// 2021: 자본 0, 유동부채 0
	row2021, ok := table.Row("2021")
	require.True(t, ok)
	assert.Nil(t, row2021.Ratios.DebtRatio)
	assert.Nil(t, row2021.Ratios.ROE)
	assert.Nil(t, row2021.Ratios.CurrentRatio)
	require.NotNil(t, row2021.Ratios.DebtDependency)
	assert.InDelta(t, 100.0, *row2021.Ratios.DebtDependency, 1e-9)
	assert.Nil(t, row2021.Growth, "oldest year has no growth")

	// 2022: 매출 0 -> 이익률 null, 2023 매출 성장률 null (기준값 0)
	row2022, _ := table.Row("2022")
	assert.Nil(t, row2022.Ratios.OperatingProfitRatio)
	assert.Nil(t, row2022.Ratios.NetProfitRatio)

	row2023, _ := table.Row("2023")
	require.NotNil(t, row2023.Growth)
	assert.Nil(t, row2023.Growth.RevenueGrowth)
	require.NotNil(t, row2023.Growth.OperatingProfitGrowth)
	assert.Equal(t, 100.0, *row2023.Growth.OperatingProfitGrowth)

	// 2022 vs 2021: 영업이익 30 -> -20 적자전환
	require.NotNil(t, row2022.Growth)
	require.NotNil(t, row2022.Growth.OperatingProfitGrowth)
	assert.Equal(t, -100.0, *row2022.Growth.OperatingProfitGrowth)
}

func TestMetricsTable_Records(t *testing.T) {
	items := []contracts.AccountLineItem{
		item("2023", "매출액", 1000, 800, 600),
		item("2023", "당기순이익", 100, 80, -50),
	}

	records := NewAssembler(DefaultAccountNames(), DefaultTargetYears).Build(items).Records("00126380")

	byKey := make(map[string]contracts.MetricRecord)
	for _, r := range records {
		assert.Equal(t, "00126380", r.CorpCode)
		assert.Equal(t, contracts.MetricUnitPercent, r.Unit)
		byKey[r.FiscalYear+"/"+r.MetricName] = r
	}

	assert.Contains(t, byKey, "2023/net_profit_ratio")
	assert.Contains(t, byKey, "2023/sales_growth")
	assert.Contains(t, byKey, "2022/eps_growth")
	assert.NotContains(t, byKey, "2021/sales_growth", "oldest year has no growth")
	assert.NotContains(t, byKey, "2023/roe", "null metrics are not written")
	assert.InDelta(t, 25.0, byKey["2023/sales_growth"].Value, 1e-9)
}

func TestMetricsTable_YearlyRatios(t *testing.T) {
	items := []contracts.AccountLineItem{
		item("2023", "매출액", 1000, 800, 600),
	}

	rows := NewAssembler(DefaultAccountNames(), DefaultTargetYears).Build(items).YearlyRatios()

	require.Len(t, rows, 3)
	assert.Equal(t, "2023", rows[0].FiscalYear)
	require.NotNil(t, rows[0].RevenueGrowth)
	assert.InDelta(t, 25.0, *rows[0].RevenueGrowth, 1e-9)
	assert.Nil(t, rows[2].RevenueGrowth)
}
