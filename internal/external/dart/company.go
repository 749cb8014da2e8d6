package dart

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wonny/aegis-fin/backend/internal/contracts"
)

// FetchCompany fetches 기업개황 for a corp code
func (c *Client) FetchCompany(ctx context.Context, corpCode string) (*contracts.Company, error) {
	params := url.Values{}
	params.Set("corp_code", corpCode)

	var resp CompanyResponse
	if err := c.http.GetJSON(ctx, c.endpoint("company.json", params), &resp); err != nil {
		return nil, fmt.Errorf("fetch company %s: %w", corpCode, err)
	}
	if err := resp.check(); err != nil {
		return nil, err
	}

	stockCode := strings.TrimSpace(resp.StockCode)
	return &contracts.Company{
		CorpCode:   corpCode,
		CorpName:   resp.CorpName,
		StockCode:  stockCode,
		IndutyCode: resp.IndutyCode,
		// 유가/코스닥/코넥스 = 상장
		Listed: stockCode != "" && resp.CorpCls != "E",
	}, nil
}
