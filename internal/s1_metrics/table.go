package s1_metrics

import (
	"github.com/wonny/aegis-fin/backend/internal/contracts"
)

// MetricsRow is one fiscal year of the aligned table
// Growth is nil for the oldest year (비교 연도 없음)
type MetricsRow struct {
	FiscalYear string
	Ratios     contracts.RatioSet
	Growth     *contracts.GrowthSet
}

// MetricsTable holds rows ordered by fiscal year descending
type MetricsTable struct {
	Rows []MetricsRow
}

// Years returns the fiscal years of the table
func (t *MetricsTable) Years() []string {
	years := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		years = append(years, row.FiscalYear)
	}
	return years
}

// IsEmpty reports whether the table has no rows
func (t *MetricsTable) IsEmpty() bool {
	return len(t.Rows) == 0
}

// Row returns the row for a fiscal year
func (t *MetricsTable) Row(year string) (*MetricsRow, bool) {
	for i := range t.Rows {
		if t.Rows[i].FiscalYear == year {
			return &t.Rows[i], true
		}
	}
	return nil, false
}

// Response flattens the table into the parallel-array contract
func (t *MetricsTable) Response(companyName string) *contracts.FinancialMetricsResponse {
	resp := contracts.NewEmptyMetricsResponse(companyName)
	if t.IsEmpty() {
		return resp
	}

	years := t.Years()
	resp.FinancialMetrics.Years = years
	resp.DebtLiquidityData.Years = years
	resp.GrowthData.Years = years[:len(years)-1] // 성장률은 마지막 연도 제외

	for _, row := range t.Rows {
		r := row.Ratios
		resp.FinancialMetrics.OperatingMargin = append(resp.FinancialMetrics.OperatingMargin, r.OperatingProfitRatio)
		resp.FinancialMetrics.NetMargin = append(resp.FinancialMetrics.NetMargin, r.NetProfitRatio)
		resp.FinancialMetrics.ROE = append(resp.FinancialMetrics.ROE, r.ROE)
		resp.FinancialMetrics.ROA = append(resp.FinancialMetrics.ROA, r.ROA)
		resp.DebtLiquidityData.DebtRatio = append(resp.DebtLiquidityData.DebtRatio, r.DebtRatio)
		resp.DebtLiquidityData.CurrentRatio = append(resp.DebtLiquidityData.CurrentRatio, r.CurrentRatio)

		if row.Growth != nil {
			resp.GrowthData.RevenueGrowth = append(resp.GrowthData.RevenueGrowth, row.Growth.RevenueGrowth)
			resp.GrowthData.NetIncomeGrowth = append(resp.GrowthData.NetIncomeGrowth, row.Growth.NetIncomeGrowth)
		}
	}

	return resp
}

// YearlyRatios returns one flattened row per fiscal year
func (t *MetricsTable) YearlyRatios() []contracts.YearlyRatios {
	out := make([]contracts.YearlyRatios, 0, len(t.Rows))
	for _, row := range t.Rows {
		yr := contracts.YearlyRatios{
			FiscalYear:           row.FiscalYear,
			DebtRatio:            row.Ratios.DebtRatio,
			CurrentRatio:         row.Ratios.CurrentRatio,
			OperatingProfitRatio: row.Ratios.OperatingProfitRatio,
			NetProfitRatio:       row.Ratios.NetProfitRatio,
			ROE:                  row.Ratios.ROE,
			ROA:                  row.Ratios.ROA,
		}
		if row.Growth != nil {
			yr.RevenueGrowth = row.Growth.RevenueGrowth
			yr.NetIncomeGrowth = row.Growth.NetIncomeGrowth
		}
		out = append(out, yr)
	}
	return out
}

// Records returns the non-null metrics of the table as upsert rows
func (t *MetricsTable) Records(corpCode string) []contracts.MetricRecord {
	var records []contracts.MetricRecord

	add := func(year, name string, v *float64) {
		if v == nil {
			return
		}
		records = append(records, contracts.MetricRecord{
			CorpCode:   corpCode,
			FiscalYear: year,
			MetricName: name,
			Value:      *v,
			Unit:       contracts.MetricUnitPercent,
		})
	}

	for _, row := range t.Rows {
		r := row.Ratios
		add(row.FiscalYear, contracts.MetricDebtRatio, r.DebtRatio)
		add(row.FiscalYear, contracts.MetricCurrentRatio, r.CurrentRatio)
		add(row.FiscalYear, contracts.MetricDebtDependency, r.DebtDependency)
		add(row.FiscalYear, contracts.MetricOperatingProfitRatio, r.OperatingProfitRatio)
		add(row.FiscalYear, contracts.MetricNetProfitRatio, r.NetProfitRatio)
		add(row.FiscalYear, contracts.MetricROE, r.ROE)
		add(row.FiscalYear, contracts.MetricROA, r.ROA)

		if g := row.Growth; g != nil {
			add(row.FiscalYear, contracts.MetricSalesGrowth, g.RevenueGrowth)
			add(row.FiscalYear, contracts.MetricOperatingProfitGrowth, g.OperatingProfitGrowth)
			add(row.FiscalYear, contracts.MetricEPSGrowth, g.NetIncomeGrowth)
		}
	}

	return records
}
