package s1_metrics

import (
	"github.com/wonny/aegis-fin/backend/internal/contracts"
)

// Assembler builds the aligned multi-year metrics table
// ⭐ SSOT: 다년도 재무지표 정렬/조립은 여기서만
type Assembler struct {
	calc        *Calculator
	targetYears int
}

// NewAssembler creates an assembler; targetYears <= 0 uses DefaultTargetYears
func NewAssembler(accounts AccountNames, targetYears int) *Assembler {
	if targetYears <= 0 {
		targetYears = DefaultTargetYears
	}
	return &Assembler{
		calc:        NewCalculator(accounts),
		targetYears: targetYears,
	}
}

// TargetYears returns the series length the assembler aims for
func (a *Assembler) TargetYears() int {
	return a.targetYears
}

// Build aggregates line items and assembles the table in one step
func (a *Assembler) Build(items []contracts.AccountLineItem) *MetricsTable {
	return a.Assemble(Aggregate(items, a.targetYears))
}

// Assemble computes ratios per target year and growth per adjacent year pair
func (a *Assembler) Assemble(agg *Aggregation) *MetricsTable {
	table := &MetricsTable{Rows: []MetricsRow{}}
	if agg == nil || agg.IsEmpty() {
		return table
	}

	accounts := a.calc.Accounts()
	inputs := make(map[string]Inputs, len(agg.TargetYears))

	// 1. 연도별 재무비율
	for _, year := range agg.TargetYears {
		row := MetricsRow{FiscalYear: year}
		if yearMap, ok := agg.Years[year]; ok {
			in := accounts.Extract(yearMap.CurrentView())
			inputs[year] = in
			row.Ratios = ComputeRatios(in)
		}
		table.Rows = append(table.Rows, row)
	}

	// 2. 인접 연도 성장률 (당해 vs 전년)
	for i := 0; i < len(agg.TargetYears)-1; i++ {
		cur, curOK := inputs[agg.TargetYears[i]]
		prev, prevOK := inputs[agg.TargetYears[i+1]]

		growth := &contracts.GrowthSet{}
		if curOK && prevOK {
			growth.RevenueGrowth = GrowthRate(cur.Revenue, prev.Revenue)
			growth.OperatingProfitGrowth = GrowthRate(cur.OperatingProfit, prev.OperatingProfit)
			growth.NetIncomeGrowth = GrowthRate(cur.NetIncome, prev.NetIncome)
		}
		table.Rows[i].Growth = growth
	}

	return table
}
