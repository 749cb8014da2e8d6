package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-fin/backend/pkg/config"
	"github.com/wonny/aegis-fin/backend/pkg/httputil"
	"github.com/wonny/aegis-fin/backend/pkg/logger"
)

const singleAccountBody = `{
  "status": "000",
  "message": "정상",
  "list": [
    {"bsns_year": "2023", "corp_code": "00126380", "reprt_code": "11011", "account_nm": "자산총계",
     "fs_div": "CFS", "sj_div": "BS", "thstrm_amount": "455,905,980,000,000", "frmtrm_amount": "448,424,507,000,000",
     "bfefrmtrm_amount": "426,621,158,000,000", "ord": "11"},
    {"bsns_year": "2023", "corp_code": "00126380", "reprt_code": "11011", "account_nm": "자산총계",
     "fs_div": "OFS", "sj_div": "BS", "thstrm_amount": "1", "frmtrm_amount": "1", "bfefrmtrm_amount": "1", "ord": "11"},
    {"bsns_year": "2023", "corp_code": "00126380", "reprt_code": "11011", "account_nm": "당기순이익",
     "fs_div": "CFS", "sj_div": "IS", "thstrm_amount": "15,487,100,000,000", "frmtrm_amount": "55,654,077,000,000",
     "bfefrmtrm_amount": "-", "ord": "27"},
    {"bsns_year": "2023", "corp_code": "00126380", "reprt_code": "11011", "account_nm": "이익잉여금",
     "fs_div": "CFS", "sj_div": "CF", "thstrm_amount": "9", "frmtrm_amount": "9", "bfefrmtrm_amount": "9", "ord": "30"}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	hc := httputil.New(logger.Nop()).WithRetry(1, time.Millisecond)
	return NewClientWithHTTP("test-key", server.URL+"/api", hc, logger.Nop())
}

func TestFetchSingleAccounts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/fnlttSinglAcnt.json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("crtfc_key"))
		assert.Equal(t, "00126380", q.Get("corp_code"))
		assert.Equal(t, "2023", q.Get("bsns_year"))
		assert.Equal(t, ReportAnnual, q.Get("reprt_code"))
		w.Write([]byte(singleAccountBody))
	})

	items, err := client.FetchSingleAccounts(context.Background(), "00126380", "2023", "", FsConsolidated)
	require.NoError(t, err)
	require.Len(t, items, 2, "OFS and CF rows are dropped")

	assets := items[0]
	assert.Equal(t, "자산총계", assets.AccountName)
	assert.Equal(t, "BS", assets.StatementDiv)
	assert.Equal(t, 11, assets.Ord)
	assert.Equal(t, 455905980000000.0, assets.CurrentAmount)
	assert.Equal(t, 426621158000000.0, assets.PriorPriorAmount)

	income := items[1]
	assert.Equal(t, "IS", income.StatementDiv)
	assert.Equal(t, 0.0, income.PriorPriorAmount, `"-" parses as zero`)
}

func TestFetchSingleAccounts_FallbackToAvailableFsDiv(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"000","message":"정상","list":[
			{"bsns_year":"2023","account_nm":"매출액","fs_div":"OFS","sj_div":"IS","thstrm_amount":"100","frmtrm_amount":"80","bfefrmtrm_amount":"60","ord":"1"}
		]}`))
	})

	items, err := client.FetchSingleAccounts(context.Background(), "00999999", "2023", ReportAnnual, FsConsolidated)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "00999999", items[0].CorpCode)
	assert.Equal(t, 100.0, items[0].CurrentAmount)
}

func TestFetchSingleAccounts_Statuses(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr func(t *testing.T, err error)
	}{
		{
			name: "no data",
			body: `{"status":"013","message":"조회된 데이타가 없습니다."}`,
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoData)
			},
		},
		{
			name: "limit exceeded",
			body: `{"status":"020","message":"요청 제한을 초과하였습니다."}`,
			wantErr: func(t *testing.T, err error) {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, "020", apiErr.Status)
			},
		},
		{
			name: "malformed amount",
			body: `{"status":"000","list":[{"bsns_year":"2023","account_nm":"매출액","fs_div":"CFS","sj_div":"IS","thstrm_amount":"12a","ord":"1"}]}`,
			wantErr: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "parse amount")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			_, err := client.FetchSingleAccounts(context.Background(), "00126380", "2023", "", "")
			require.Error(t, err)
			tt.wantErr(t, err)
		})
	}
}

func TestFetchCompany(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/company.json", r.URL.Path)
		w.Write([]byte(`{"status":"000","message":"정상","corp_name":"삼성전자(주)","stock_code":"005930","corp_cls":"Y","induty_code":"264"}`))
	})

	company, err := client.FetchCompany(context.Background(), "00126380")
	require.NoError(t, err)
	assert.Equal(t, "00126380", company.CorpCode)
	assert.Equal(t, "005930", company.StockCode)
	assert.Equal(t, "264", company.IndutyCode)
	assert.True(t, company.Listed)
}

func corpCodeZip(t *testing.T, xmlBody string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("CORPCODE.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(xmlBody))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestFetchCorpCodes(t *testing.T) {
	archive := corpCodeZip(t, `<?xml version="1.0" encoding="UTF-8"?>
<result>
  <list><corp_code>00126380</corp_code><corp_name>삼성전자</corp_name><stock_code>005930</stock_code><modify_date>20240315</modify_date></list>
  <list><corp_code>00434003</corp_code><corp_name>다코</corp_name><stock_code> </stock_code><modify_date>20170630</modify_date></list>
  <list><corp_code> </corp_code><corp_name>빈코드</corp_name></list>
</result>`)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/corpCode.xml", r.URL.Path)
		w.Header().Set("Content-Type", "application/zip")
		w.Write(archive)
	})

	companies, err := client.FetchCorpCodes(context.Background())
	require.NoError(t, err)
	require.Len(t, companies, 2)

	assert.Equal(t, "삼성전자", companies[0].CorpName)
	assert.True(t, companies[0].Listed)
	assert.Equal(t, "20240315", companies[0].ModifyDate)

	assert.Equal(t, "다코", companies[1].CorpName)
	assert.Empty(t, companies[1].StockCode)
	assert.False(t, companies[1].Listed)
}

func TestFetchCorpCodes_ErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><result><status>010</status><message>등록되지 않은 키입니다.</message></result>`))
	})

	_, err := client.FetchCorpCodes(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "010", apiErr.Status)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1,234,567", 1234567, false},
		{"-52,000", -52000, false},
		{"(1,000)", -1000, false},
		{"", 0, false},
		{"-", 0, false},
		{"  42  ", 42, false},
		{"12.5", 12.5, false},
		{"N/A", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(config.DARTConfig{APIKey: "k", RatePerSec: 0.5}, logger.Nop(), nil)
	assert.Equal(t, DefaultBaseURL, client.baseURL)

	client = NewClient(config.DARTConfig{APIKey: "k", BaseURL: "http://localhost/api/"}, logger.Nop(), nil)
	assert.Equal(t, "http://localhost/api", client.baseURL)

	tr := newLegacyCompatibleTransport()
	assert.False(t, tr.ForceAttemptHTTP2)
	assert.Contains(t, tr.TLSClientConfig.CipherSuites, uint16(0x009c)) // TLS_RSA_WITH_AES_128_GCM_SHA256
}
