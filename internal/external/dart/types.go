package dart

import (
	"errors"
	"fmt"
)

// ErrNoData is returned for DART status 013 (조회된 데이터가 없음)
var ErrNoData = errors.New("dart: no data")

// Status codes
// 000 = 정상, 013 = 조회된 데이터 없음, 그 외 = 오류 (010 미등록 키, 020 요청 제한 초과 등)
const (
	StatusOK     = "000"
	StatusNoData = "013"
)

// Report codes (reprt_code)
const (
	ReportAnnual = "11011" // 사업보고서
	ReportHalf   = "11012" // 반기보고서
	ReportQ1     = "11013" // 1분기보고서
	ReportQ3     = "11014" // 3분기보고서
)

// Financial statement divisions (fs_div)
const (
	FsConsolidated = "CFS" // 연결재무제표
	FsSeparate     = "OFS" // 재무제표(별도)
)

// APIError is a non-success DART status
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dart API error: %s - %s", e.Status, e.Message)
}

// envelope is the status header shared by DART JSON responses
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// check converts the envelope into ErrNoData / APIError
func (e envelope) check() error {
	switch e.Status {
	case StatusOK:
		return nil
	case StatusNoData:
		return ErrNoData
	default:
		return &APIError{Status: e.Status, Message: e.Message}
	}
}

// SingleAccountResponse represents fnlttSinglAcnt.json (단일회사 주요계정)
type SingleAccountResponse struct {
	envelope
	List []SingleAccount `json:"list"`
}

// SingleAccount is one row of 주요계정
type SingleAccount struct {
	RceptNo         string `json:"rcept_no"`
	BsnsYear        string `json:"bsns_year"`
	CorpCode        string `json:"corp_code"`
	StockCode       string `json:"stock_code"`
	ReprtCode       string `json:"reprt_code"`
	AccountNm       string `json:"account_nm"`
	FsDiv           string `json:"fs_div"`
	FsNm            string `json:"fs_nm"`
	SjDiv           string `json:"sj_div"`
	SjNm            string `json:"sj_nm"`
	ThstrmNm        string `json:"thstrm_nm"`
	ThstrmAmount    string `json:"thstrm_amount"`
	FrmtrmNm        string `json:"frmtrm_nm"`
	FrmtrmAmount    string `json:"frmtrm_amount"`
	BfefrmtrmNm     string `json:"bfefrmtrm_nm"`
	BfefrmtrmAmount string `json:"bfefrmtrm_amount"`
	Ord             string `json:"ord"`
	Currency        string `json:"currency"`
}

// CompanyResponse represents company.json (기업개황)
type CompanyResponse struct {
	envelope
	CorpName    string `json:"corp_name"`
	CorpNameEng string `json:"corp_name_eng"`
	StockName   string `json:"stock_name"`
	StockCode   string `json:"stock_code"`
	CeoNm       string `json:"ceo_nm"`
	CorpCls     string `json:"corp_cls"` // Y: 유가, K: 코스닥, N: 코넥스, E: 기타
	IndutyCode  string `json:"induty_code"`
	EstDt       string `json:"est_dt"`
	AccMt       string `json:"acc_mt"` // 결산월
}
