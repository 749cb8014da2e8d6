package contracts

import "strconv"

// AccountLineItem is one disclosed account row from one annual filing
// ⭐ SSOT: 재무제표 계정 한 줄 (당기/전기/전전기 금액)
type AccountLineItem struct {
	CorpCode         string  `json:"corp_code"`
	FiscalYear       string  `json:"bsns_year"`
	StatementDiv     string  `json:"sj_div"` // BS: 재무상태표, IS: 손익계산서
	AccountName      string  `json:"account_nm"`
	Ord              int     `json:"ord"`
	CurrentAmount    float64 `json:"thstrm_amount"`    // 당기
	PriorAmount      float64 `json:"frmtrm_amount"`    // 전기
	PriorPriorAmount float64 `json:"bfefrmtrm_amount"` // 전전기
}

// Statement divisions used by the ratio engine
const (
	StatementBalanceSheet = "BS"
	StatementIncome       = "IS"
)

// PeriodAmounts holds the three comparative amounts of one account
type PeriodAmounts struct {
	Current    float64 `json:"current"`
	Prior      float64 `json:"prior"`
	PriorPrior float64 `json:"prior_prior"`
}

// YearlyAccountMap maps account name to its amounts for one fiscal year
type YearlyAccountMap map[string]PeriodAmounts

// CurrentView flattens the map into account name -> current amount
func (m YearlyAccountMap) CurrentView() map[string]float64 {
	view := make(map[string]float64, len(m))
	for name, amounts := range m {
		view[name] = amounts.Current
	}
	return view
}

// Company is a DART-registered corporation
type Company struct {
	CorpCode   string `json:"corp_code"`
	CorpName   string `json:"corp_name"`
	StockCode  string `json:"stock_code,omitempty"`
	IndutyCode string `json:"induty_code,omitempty"` // 업종코드
	Listed     bool   `json:"listed"`
	ModifyDate string `json:"modify_date,omitempty"` // DART 최종변경일자 (YYYYMMDD)
}

// ShiftYear returns the fiscal year offset by delta years ("2023", -1 -> "2022")
// Non-numeric years yield ok=false
func ShiftYear(year string, delta int) (string, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return "", false
	}
	return strconv.Itoa(y + delta), true
}
