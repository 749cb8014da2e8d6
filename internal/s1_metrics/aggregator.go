package s1_metrics

import (
	"sort"
	"strconv"

	"github.com/wonny/aegis-fin/backend/internal/contracts"
)

// DefaultTargetYears is the number of fiscal years in a metrics series (당기, 전기, 전전기)
const DefaultTargetYears = 3

// Aggregation is the per-year account view of one company's line items
type Aggregation struct {
	// Filed holds directly filed years only
	Filed map[string]contracts.YearlyAccountMap
	// Years holds filed years merged with years implied by comparative columns
	Years map[string]contracts.YearlyAccountMap
	// AnchorYears are the most recent filed years, descending
	AnchorYears []string
	// TargetYears are the most recent years of Years, descending
	TargetYears []string

	// implied[year][account] = anchor year the value was taken from
	implied map[string]map[string]string
}

// IsEmpty reports whether no line items were aggregated
func (a *Aggregation) IsEmpty() bool {
	return len(a.Filed) == 0
}

// IsImplied reports whether year/account was reconstructed from another filing
func (a *Aggregation) IsImplied(year, account string) bool {
	_, ok := a.implied[year][account]
	return ok
}

// ImpliedSource returns the anchor year an implied value came from
func (a *Aggregation) ImpliedSource(year, account string) (string, bool) {
	anchor, ok := a.implied[year][account]
	return anchor, ok
}

// Aggregate merges line items into per-year account maps
// ⭐ SSOT: 연도별 계정 맵 구성 및 전기/전전기 보정은 여기서만
//
// 1. 연도별로 계정을 모은다 (같은 계정 중복 시 마지막 값 사용)
// 2. 최근 targetYears개 공시 연도를 기준 연도로 잡는다
// 3. 기준 연도 Y의 전기 금액은 Y-1, 전전기 금액은 Y-2의 당기 금액으로 보정한다
//    (해당 연도에 직접 공시된 계정이 있으면 공시값 우선, 보정값끼리는 최신 기준 연도 우선)
// 4. 공시 + 보정 연도 중 최근 targetYears개를 대상 연도로 한다
func Aggregate(items []contracts.AccountLineItem, targetYears int) *Aggregation {
	if targetYears <= 0 {
		targetYears = DefaultTargetYears
	}

	agg := &Aggregation{
		Filed:       make(map[string]contracts.YearlyAccountMap),
		Years:       make(map[string]contracts.YearlyAccountMap),
		AnchorYears: []string{},
		TargetYears: []string{},
		implied:     make(map[string]map[string]string),
	}

	// 1. 공시 연도별 그룹핑
	for _, item := range items {
		yearMap, ok := agg.Filed[item.FiscalYear]
		if !ok {
			yearMap = make(contracts.YearlyAccountMap)
			agg.Filed[item.FiscalYear] = yearMap
		}
		yearMap[item.AccountName] = contracts.PeriodAmounts{
			Current:    item.CurrentAmount,
			Prior:      item.PriorAmount,
			PriorPrior: item.PriorPriorAmount,
		}
	}

	if len(agg.Filed) == 0 {
		return agg
	}

	for year, yearMap := range agg.Filed {
		merged := make(contracts.YearlyAccountMap, len(yearMap))
		for name, amounts := range yearMap {
			merged[name] = amounts
		}
		agg.Years[year] = merged
	}

	// 2. 기준 연도
	agg.AnchorYears = topYears(keys(agg.Filed), targetYears)

	// 3. 전기/전전기 보정
	for _, anchor := range agg.AnchorYears {
		for name, amounts := range agg.Filed[anchor] {
			agg.imply(anchor, -1, name, amounts.Prior)
			agg.imply(anchor, -2, name, amounts.PriorPrior)
		}
	}

	// 4. 대상 연도
	agg.TargetYears = topYears(keys(agg.Years), targetYears)

	return agg
}

// imply sets year(anchor+delta)[account].Current unless the year filed that account
// or a more recent anchor already implied it
func (a *Aggregation) imply(anchor string, delta int, account string, amount float64) {
	year, ok := contracts.ShiftYear(anchor, delta)
	if !ok {
		return
	}

	if filed, ok := a.Filed[year]; ok {
		if _, exists := filed[account]; exists {
			return
		}
	}
	if _, exists := a.implied[year][account]; exists {
		return
	}

	yearMap, ok := a.Years[year]
	if !ok {
		yearMap = make(contracts.YearlyAccountMap)
		a.Years[year] = yearMap
	}
	yearMap[account] = contracts.PeriodAmounts{Current: amount}

	if a.implied[year] == nil {
		a.implied[year] = make(map[string]string)
	}
	a.implied[year][account] = anchor
}

func keys(m map[string]contracts.YearlyAccountMap) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// topYears sorts years descending and keeps at most n
func topYears(years []string, n int) []string {
	sortYearsDesc(years)
	if len(years) > n {
		years = years[:n]
	}
	return years
}

// sortYearsDesc orders numeric years descending, non-numeric labels after them
func sortYearsDesc(years []string) {
	sort.Slice(years, func(i, j int) bool {
		yi, errI := strconv.Atoi(years[i])
		yj, errJ := strconv.Atoi(years[j])
		switch {
		case errI == nil && errJ == nil:
			return yi > yj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return years[i] > years[j]
		}
	})
}
