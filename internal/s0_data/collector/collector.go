package collector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/aegis-fin/backend/internal/contracts"
	"github.com/wonny/aegis-fin/backend/internal/external/dart"
	"github.com/wonny/aegis-fin/backend/pkg/logger"
)

// DefaultYears is the number of annual filings fetched per company
const DefaultYears = 3

// maxYearFetches bounds concurrent DART calls for one company
const maxYearFetches = 3

// FilingSource is the DART surface the collector uses
type FilingSource interface {
	FetchSingleAccounts(ctx context.Context, corpCode, year, reportCode, fsDiv string) ([]contracts.AccountLineItem, error)
	FetchCorpCodes(ctx context.Context) ([]*contracts.Company, error)
	FetchCompany(ctx context.Context, corpCode string) (*contracts.Company, error)
}

// Collector orchestrates data collection from DART
// ⭐ SSOT: 데이터 수집 오케스트레이션은 이 패키지에서만
type Collector struct {
	source     FilingSource
	items      contracts.LineItemStore
	companies  contracts.CompanyRepository
	logger     *logger.Logger
	reportCode string
	fsDiv      string
	now        func() time.Time
}

// Config holds collector configuration
type Config struct {
	Workers int // Number of concurrent workers
	Years   int // 회사당 조회할 사업연도 수
}

// NewCollector creates a new Collector instance
func NewCollector(
	source FilingSource,
	items contracts.LineItemStore,
	companies contracts.CompanyRepository,
	reportCode, fsDiv string,
	log *logger.Logger,
) *Collector {
	return &Collector{
		source:     source,
		items:      items,
		companies:  companies,
		logger:     log.WithField("module", "collector"),
		reportCode: reportCode,
		fsDiv:      fsDiv,
		now:        time.Now,
	}
}

// FetchResult represents the result of a fetch operation
type FetchResult struct {
	CorpCode    string
	Years       []string // 공시가 있었던 연도
	NoDataYears []string // DART 013
	ItemCount   int
	Error       error
}

// RecentYears returns the n business years before the current year, descending
// 사업보고서는 익년 3월에 공시되므로 올해는 제외
func (c *Collector) RecentYears(n int) []string {
	if n <= 0 {
		n = DefaultYears
	}
	last := c.now().Year() - 1
	years := make([]string, n)
	for i := 0; i < n; i++ {
		years[i] = strconv.Itoa(last - i)
	}
	return years
}

// CollectFinancials fetches annual filings for the given years and stores them
// years가 비어 있으면 RecentYears(DefaultYears). 013(데이터 없음) 연도는 건너뜀
func (c *Collector) CollectFinancials(ctx context.Context, corpCode string, years []string) (*FetchResult, error) {
	if len(years) == 0 {
		years = c.RecentYears(DefaultYears)
	}

	result := &FetchResult{CorpCode: corpCode}
	perYear := make([][]contracts.AccountLineItem, len(years))
	noData := make([]bool, len(years))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxYearFetches)

	for i, year := range years {
		i, year := i, year
		g.Go(func() error {
			items, err := c.source.FetchSingleAccounts(gctx, corpCode, year, c.reportCode, c.fsDiv)
			if errors.Is(err, dart.ErrNoData) {
				noData[i] = true
				return nil
			}
			if err != nil {
				return fmt.Errorf("fetch %s/%s: %w", corpCode, year, err)
			}
			perYear[i] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		result.Error = err
		return result, err
	}

	var all []contracts.AccountLineItem
	for i, year := range years {
		if noData[i] {
			result.NoDataYears = append(result.NoDataYears, year)
			continue
		}
		if len(perYear[i]) > 0 {
			result.Years = append(result.Years, year)
			all = append(all, perYear[i]...)
		}
	}
	result.ItemCount = len(all)

	if err := c.items.SaveLineItems(ctx, all); err != nil {
		result.Error = fmt.Errorf("save line items: %w", err)
		return result, result.Error
	}

	c.logger.WithFields(map[string]interface{}{
		"corp_code":     corpCode,
		"years":         result.Years,
		"no_data_years": result.NoDataYears,
		"items":         result.ItemCount,
	}).Info("Collected financial statements")

	return result, nil
}

// CollectAll collects filings for many companies with a worker pool
func (c *Collector) CollectAll(ctx context.Context, corpCodes []string, cfg Config) []FetchResult {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	years := c.RecentYears(cfg.Years)

	c.logger.WithFields(map[string]interface{}{
		"corp_count": len(corpCodes),
		"years":      years,
		"workers":    cfg.Workers,
	}).Info("Starting financial collection")

	resultCh := make(chan FetchResult, len(corpCodes))
	codeCh := make(chan string, len(corpCodes))

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			c.financialWorker(ctx, workerID, codeCh, resultCh, years)
		}(i)
	}

	for _, code := range corpCodes {
		codeCh <- code
	}
	close(codeCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]FetchResult, 0, len(corpCodes))
	failCount := 0
	for result := range resultCh {
		results = append(results, result)
		if result.Error != nil {
			failCount++
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"success": len(results) - failCount,
		"failed":  failCount,
		"total":   len(results),
	}).Info("Financial collection completed")

	return results
}

// financialWorker processes companies from codeCh
func (c *Collector) financialWorker(ctx context.Context, workerID int, codeCh <-chan string, resultCh chan<- FetchResult, years []string) {
	for code := range codeCh {
		select {
		case <-ctx.Done():
			resultCh <- FetchResult{CorpCode: code, Error: ctx.Err()}
			continue
		default:
		}

		result, err := c.CollectFinancials(ctx, code, years)
		if err != nil {
			c.logger.WithError(err).WithFields(map[string]interface{}{
				"worker":    workerID,
				"corp_code": code,
			}).Error("Failed to collect financials")
		}
		resultCh <- *result
	}
}

// SyncCorpCodes downloads the DART corp code master and stores it
func (c *Collector) SyncCorpCodes(ctx context.Context) (int, error) {
	companies, err := c.source.FetchCorpCodes(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch corp codes: %w", err)
	}

	if err := c.companies.SaveCorpCodes(ctx, companies); err != nil {
		return 0, fmt.Errorf("save corp codes: %w", err)
	}

	c.logger.WithField("count", len(companies)).Info("Synced DART corp codes")
	return len(companies), nil
}

// RefreshProfile updates 기업개황 (업종코드, 종목코드) for one company
func (c *Collector) RefreshProfile(ctx context.Context, corpCode string) (*contracts.Company, error) {
	company, err := c.source.FetchCompany(ctx, corpCode)
	if err != nil {
		return nil, fmt.Errorf("fetch company %s: %w", corpCode, err)
	}

	if err := c.companies.SaveProfile(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}
