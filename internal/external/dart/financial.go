package dart

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/wonny/aegis-fin/backend/internal/contracts"
)

// FetchSingleAccounts fetches 단일회사 주요계정 for one annual filing
// ⭐ SSOT: DART 재무제표 호출은 이 함수에서만
// fsDiv 행이 없으면 (별도만 공시한 회사 등) 전체 행 사용, BS/IS 이외 행은 제외
func (c *Client) FetchSingleAccounts(ctx context.Context, corpCode, year, reportCode, fsDiv string) ([]contracts.AccountLineItem, error) {
	if reportCode == "" {
		reportCode = ReportAnnual
	}
	if fsDiv == "" {
		fsDiv = FsConsolidated
	}

	params := url.Values{}
	params.Set("corp_code", corpCode)
	params.Set("bsns_year", year)
	params.Set("reprt_code", reportCode)

	var resp SingleAccountResponse
	if err := c.http.GetJSON(ctx, c.endpoint("fnlttSinglAcnt.json", params), &resp); err != nil {
		return nil, fmt.Errorf("fetch single accounts %s/%s: %w", corpCode, year, err)
	}
	if err := resp.check(); err != nil {
		return nil, err
	}

	rows := selectRows(resp.List, fsDiv)

	items := make([]contracts.AccountLineItem, 0, len(rows))
	for _, row := range rows {
		item, err := row.toLineItem(corpCode)
		if err != nil {
			return nil, fmt.Errorf("convert %s/%s %s: %w", corpCode, year, row.AccountNm, err)
		}
		items = append(items, item)
	}

	c.logger.WithFields(map[string]interface{}{
		"corp_code": corpCode,
		"year":      year,
		"fs_div":    fsDiv,
		"rows":      len(items),
	}).Debug("Fetched DART single accounts")

	return items, nil
}

// selectRows keeps BS/IS rows of the requested fs_div
func selectRows(list []SingleAccount, fsDiv string) []SingleAccount {
	var matched, all []SingleAccount
	for _, row := range list {
		if row.SjDiv != contracts.StatementBalanceSheet && row.SjDiv != contracts.StatementIncome {
			continue
		}
		all = append(all, row)
		if row.FsDiv == fsDiv {
			matched = append(matched, row)
		}
	}
	if len(matched) == 0 {
		return all
	}
	return matched
}

func (r SingleAccount) toLineItem(corpCode string) (contracts.AccountLineItem, error) {
	current, err := ParseAmount(r.ThstrmAmount)
	if err != nil {
		return contracts.AccountLineItem{}, err
	}
	prior, err := ParseAmount(r.FrmtrmAmount)
	if err != nil {
		return contracts.AccountLineItem{}, err
	}
	priorPrior, err := ParseAmount(r.BfefrmtrmAmount)
	if err != nil {
		return contracts.AccountLineItem{}, err
	}

	ord, _ := strconv.Atoi(r.Ord)
	if r.CorpCode != "" {
		corpCode = r.CorpCode
	}

	return contracts.AccountLineItem{
		CorpCode:         corpCode,
		FiscalYear:       r.BsnsYear,
		StatementDiv:     r.SjDiv,
		AccountName:      r.AccountNm,
		Ord:              ord,
		CurrentAmount:    current,
		PriorAmount:      prior,
		PriorPriorAmount: priorPrior,
	}, nil
}
