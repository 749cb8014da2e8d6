package contracts

// RatioSet holds one fiscal year's ratios in percent
// nil = 분모가 0이거나 계산 불가
type RatioSet struct {
	DebtRatio            *float64 `json:"debtRatio"`            // 부채비율
	CurrentRatio         *float64 `json:"currentRatio"`         // 유동비율
	DebtDependency       *float64 `json:"debtDependency"`       // 부채의존도
	OperatingProfitRatio *float64 `json:"operatingProfitRatio"` // 영업이익률
	NetProfitRatio       *float64 `json:"netProfitRatio"`       // 순이익률
	ROE                  *float64 `json:"roe"`
	ROA                  *float64 `json:"roa"`
}

// GrowthSet holds growth rates between one year and the previous one
type GrowthSet struct {
	RevenueGrowth         *float64 `json:"revenueGrowth"`         // 매출액 증가율
	OperatingProfitGrowth *float64 `json:"operatingProfitGrowth"` // 영업이익 증가율
	NetIncomeGrowth       *float64 `json:"netIncomeGrowth"`       // 순이익 증가율
}

// Metric names persisted to fin.metrics
const (
	MetricDebtRatio             = "debt_ratio"
	MetricCurrentRatio          = "current_ratio"
	MetricDebtDependency        = "debt_dependency"
	MetricOperatingProfitRatio  = "operating_profit_ratio"
	MetricNetProfitRatio        = "net_profit_ratio"
	MetricROE                   = "roe"
	MetricROA                   = "roa"
	MetricSalesGrowth           = "sales_growth"
	MetricOperatingProfitGrowth = "operating_profit_growth"
	MetricEPSGrowth             = "eps_growth"

	MetricUnitPercent = "%"
)

// MetricRecord is one upsert row for the metric store
type MetricRecord struct {
	CorpCode   string  `json:"corp_code"`
	FiscalYear string  `json:"bsns_year"`
	MetricName string  `json:"metric_name"`
	Value      float64 `json:"metric_value"`
	Unit       string  `json:"metric_unit"`
}

// FinancialMetricsResponse is the external multi-series contract
// ⭐ SSOT: 재무지표 응답 포맷은 여기서만
type FinancialMetricsResponse struct {
	CompanyName       string            `json:"companyName"`
	FinancialMetrics  FinancialMetrics  `json:"financialMetrics"`
	GrowthData        GrowthData        `json:"growthData"`
	DebtLiquidityData DebtLiquidityData `json:"debtLiquidityData"`
}

// FinancialMetrics is the profitability group (수익성)
type FinancialMetrics struct {
	OperatingMargin []*float64 `json:"operatingMargin"`
	NetMargin       []*float64 `json:"netMargin"`
	ROE             []*float64 `json:"roe"`
	ROA             []*float64 `json:"roa"`
	Years           []string   `json:"years"`
}

// GrowthData is the growth group (성장성), one shorter than the ratio years
type GrowthData struct {
	RevenueGrowth   []*float64 `json:"revenueGrowth"`
	NetIncomeGrowth []*float64 `json:"netIncomeGrowth"`
	Years           []string   `json:"years"`
}

// DebtLiquidityData is the stability group (안정성)
type DebtLiquidityData struct {
	DebtRatio    []*float64 `json:"debtRatio"`
	CurrentRatio []*float64 `json:"currentRatio"`
	Years        []string   `json:"years"`
}

// NewEmptyMetricsResponse returns the canonical "no data" response
func NewEmptyMetricsResponse(companyName string) *FinancialMetricsResponse {
	return &FinancialMetricsResponse{
		CompanyName: companyName,
		FinancialMetrics: FinancialMetrics{
			OperatingMargin: []*float64{},
			NetMargin:       []*float64{},
			ROE:             []*float64{},
			ROA:             []*float64{},
			Years:           []string{},
		},
		GrowthData: GrowthData{
			RevenueGrowth:   []*float64{},
			NetIncomeGrowth: []*float64{},
			Years:           []string{},
		},
		DebtLiquidityData: DebtLiquidityData{
			DebtRatio:    []*float64{},
			CurrentRatio: []*float64{},
			Years:        []string{},
		},
	}
}

// IsEmpty reports whether the response carries no years
func (r *FinancialMetricsResponse) IsEmpty() bool {
	return len(r.FinancialMetrics.Years) == 0
}

// YearlyRatios is one flattened row of the ratio listing
type YearlyRatios struct {
	FiscalYear           string   `json:"bsnsYear"`
	DebtRatio            *float64 `json:"debtRatio"`
	CurrentRatio         *float64 `json:"currentRatio"`
	OperatingProfitRatio *float64 `json:"operatingProfitRatio"`
	NetProfitRatio       *float64 `json:"netProfitRatio"`
	ROE                  *float64 `json:"roe"`
	ROA                  *float64 `json:"roa"`
	RevenueGrowth        *float64 `json:"revenueGrowth,omitempty"`
	NetIncomeGrowth      *float64 `json:"netIncomeGrowth,omitempty"`
}
