package s1_metrics

// AccountNames is the closed vocabulary of DART account names the ratio engine reads
// 각 필드는 허용되는 계정명 목록이며, 연도별 데이터에 먼저 존재하는 이름을 사용
type AccountNames struct {
	TotalAssets        []string // 자산총계
	TotalLiabilities   []string // 부채총계
	CurrentAssets      []string // 유동자산
	CurrentLiabilities []string // 유동부채
	TotalEquity        []string // 자본총계
	Revenue            []string // 매출액
	OperatingProfit    []string // 영업이익
	NetIncome          []string // 당기순이익
}

// DefaultAccountNames returns the account names used by DART 주요계정 (fnlttSinglAcnt)
func DefaultAccountNames() AccountNames {
	return AccountNames{
		TotalAssets:        []string{"자산총계"},
		TotalLiabilities:   []string{"부채총계"},
		CurrentAssets:      []string{"유동자산"},
		CurrentLiabilities: []string{"유동부채"},
		TotalEquity:        []string{"자본총계"},
		Revenue:            []string{"매출액"},
		OperatingProfit:    []string{"영업이익"},
		NetIncome:          []string{"당기순이익"},
	}
}

// Inputs are the amounts a RatioSet is computed from
type Inputs struct {
	TotalAssets        float64
	TotalLiabilities   float64
	CurrentAssets      float64
	CurrentLiabilities float64
	TotalEquity        float64
	Revenue            float64
	OperatingProfit    float64
	NetIncome          float64
}

// Extract reads the recognized accounts out of a current-value view
// Absent accounts are 0, unrecognized names are ignored
func (a AccountNames) Extract(view map[string]float64) Inputs {
	return Inputs{
		TotalAssets:        lookup(view, a.TotalAssets),
		TotalLiabilities:   lookup(view, a.TotalLiabilities),
		CurrentAssets:      lookup(view, a.CurrentAssets),
		CurrentLiabilities: lookup(view, a.CurrentLiabilities),
		TotalEquity:        lookup(view, a.TotalEquity),
		Revenue:            lookup(view, a.Revenue),
		OperatingProfit:    lookup(view, a.OperatingProfit),
		NetIncome:          lookup(view, a.NetIncome),
	}
}

// Recognizes reports whether name belongs to the vocabulary
func (a AccountNames) Recognizes(name string) bool {
	for _, names := range a.groups() {
		for _, n := range names {
			if n == name {
				return true
			}
		}
	}
	return false
}

// AccountField is one canonical input with its accepted names
type AccountField struct {
	Key   string
	Names []string
}

// Fields returns the canonical inputs in a stable order
func (a AccountNames) Fields() []AccountField {
	return []AccountField{
		{"total_assets", a.TotalAssets},
		{"total_liabilities", a.TotalLiabilities},
		{"current_assets", a.CurrentAssets},
		{"current_liabilities", a.CurrentLiabilities},
		{"total_equity", a.TotalEquity},
		{"revenue", a.Revenue},
		{"operating_profit", a.OperatingProfit},
		{"net_income", a.NetIncome},
	}
}

// Present reports whether any accepted name of the field exists in view
func (f AccountField) Present(view map[string]float64) bool {
	for _, name := range f.Names {
		if _, ok := view[name]; ok {
			return true
		}
	}
	return false
}

func (a AccountNames) groups() [][]string {
	return [][]string{
		a.TotalAssets, a.TotalLiabilities, a.CurrentAssets, a.CurrentLiabilities,
		a.TotalEquity, a.Revenue, a.OperatingProfit, a.NetIncome,
	}
}

func lookup(view map[string]float64, names []string) float64 {
	for _, name := range names {
		if v, ok := view[name]; ok {
			return v
		}
	}
	return 0
}
