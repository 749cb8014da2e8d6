package s1_metrics

import (
	"math"

	"github.com/wonny/aegis-fin/backend/internal/contracts"
)

// Calculator computes one fiscal year's RatioSet
// ⭐ SSOT: 재무비율 계산은 여기서만 (Assembler도 이 경로를 사용)
type Calculator struct {
	accounts AccountNames
}

// NewCalculator creates a ratio calculator over the given vocabulary
func NewCalculator(accounts AccountNames) *Calculator {
	return &Calculator{accounts: accounts}
}

// Accounts returns the vocabulary the calculator reads
func (c *Calculator) Accounts() AccountNames {
	return c.accounts
}

// Compute maps an account name -> current amount view to ratios
func (c *Calculator) Compute(view map[string]float64) contracts.RatioSet {
	return ComputeRatios(c.accounts.Extract(view))
}

// ComputeRatios computes all ratios in percent from extracted inputs
func ComputeRatios(in Inputs) contracts.RatioSet {
	return contracts.RatioSet{
		// 안정성
		DebtRatio:      percent(in.TotalLiabilities, in.TotalEquity),
		CurrentRatio:   percent(in.CurrentAssets, in.CurrentLiabilities),
		DebtDependency: percent(in.TotalLiabilities, in.TotalAssets),

		// 수익성
		OperatingProfitRatio: percent(in.OperatingProfit, in.Revenue),
		NetProfitRatio:       percent(in.NetIncome, in.Revenue),
		ROE:                  percent(in.NetIncome, in.TotalEquity),
		ROA:                  percent(in.NetIncome, in.TotalAssets),
	}
}

// percent returns numerator/denominator*100, or nil when the division is undefined
func percent(numerator, denominator float64) *float64 {
	if denominator == 0 {
		return nil
	}

	v := numerator / denominator * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
