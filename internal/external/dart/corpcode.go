package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/wonny/aegis-fin/backend/internal/contracts"
)

// corpCodeFile is the single entry inside corpCode.xml zip
const corpCodeFile = "CORPCODE.xml"

type corpCodeResult struct {
	XMLName xml.Name       `xml:"result"`
	List    []corpCodeItem `xml:"list"`
}

type corpCodeItem struct {
	CorpCode   string `xml:"corp_code"`
	CorpName   string `xml:"corp_name"`
	StockCode  string `xml:"stock_code"`
	ModifyDate string `xml:"modify_date"`
}

// FetchCorpCodes downloads the 고유번호 master (zip of CORPCODE.xml)
// 에러 시 DART는 zip 대신 JSON/XML 상태 본문을 반환
func (c *Client) FetchCorpCodes(ctx context.Context) ([]*contracts.Company, error) {
	body, err := c.http.GetBytes(ctx, c.endpoint("corpCode.xml", nil))
	if err != nil {
		return nil, fmt.Errorf("fetch corp codes: %w", err)
	}

	if !bytes.HasPrefix(body, []byte("PK")) {
		return nil, parseStatusBody(body)
	}

	return ParseCorpCodeZip(body)
}

// ParseCorpCodeZip extracts companies from the corpCode.xml archive
func ParseCorpCodeZip(data []byte) ([]*contracts.Company, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open corp code zip: %w", err)
	}

	for _, f := range zr.File {
		if !strings.EqualFold(f.Name, corpCodeFile) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		defer rc.Close()
		return parseCorpCodeXML(rc)
	}

	return nil, fmt.Errorf("%s not found in archive", corpCodeFile)
}

func parseCorpCodeXML(r io.Reader) ([]*contracts.Company, error) {
	var result corpCodeResult
	if err := xml.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode corp code xml: %w", err)
	}

	companies := make([]*contracts.Company, 0, len(result.List))
	for _, item := range result.List {
		code := strings.TrimSpace(item.CorpCode)
		if code == "" {
			continue
		}
		stock := strings.TrimSpace(item.StockCode)
		companies = append(companies, &contracts.Company{
			CorpCode:   code,
			CorpName:   strings.TrimSpace(item.CorpName),
			StockCode:  stock,
			Listed:     stock != "",
			ModifyDate: strings.TrimSpace(item.ModifyDate),
		})
	}
	return companies, nil
}

// parseStatusBody reads the error envelope DART returns instead of a zip
func parseStatusBody(body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Status != "" {
		if err := env.check(); err != nil {
			return err
		}
	}

	var xenv struct {
		Status  string `xml:"status"`
		Message string `xml:"message"`
	}
	if err := xml.Unmarshal(body, &xenv); err == nil && xenv.Status != "" {
		if err := (envelope{Status: xenv.Status, Message: xenv.Message}).check(); err != nil {
			return err
		}
	}

	return fmt.Errorf("unexpected corp code payload (%d bytes)", len(body))
}
