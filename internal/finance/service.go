package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/aegis-fin/backend/internal/contracts"
	"github.com/wonny/aegis-fin/backend/internal/s0_data/collector"
	"github.com/wonny/aegis-fin/backend/internal/s0_data/quality"
	"github.com/wonny/aegis-fin/backend/internal/s1_metrics"
	"github.com/wonny/aegis-fin/backend/pkg/logger"
	"github.com/wonny/aegis-fin/backend/pkg/redis"
)

// ErrPersistence wraps metric write failures
// 응답은 계산되어 함께 반환되며, 저장은 전체 롤백된 상태
var ErrPersistence = errors.New("metrics persistence failed")

// Cache is the response cache (pkg/redis.Cache)
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) (int, error)
}

// Refresher pulls filings from DART into the line item store
type Refresher interface {
	CollectFinancials(ctx context.Context, corpCode string, years []string) (*collector.FetchResult, error)
}

// Config holds service settings
type Config struct {
	Accounts    s1_metrics.AccountNames
	TargetYears int
	CacheTTL    time.Duration
	Quality     quality.Config
}

// Service composes company lookup, line items, the ratio engine and metric storage
// ⭐ SSOT: 재무지표 조회/계산/저장 흐름은 여기서만
type Service struct {
	companies contracts.CompanyRepository
	items     contracts.LineItemSource
	metrics   contracts.MetricRepository
	refresher Refresher
	cache     Cache
	assembler *s1_metrics.Assembler
	gate      *quality.Gate
	cfg       Config
	logger    *logger.Logger
}

// NewService creates a new Service
// refresher/cache는 nil 허용 (DART 미연동, 캐시 미사용)
func NewService(
	companies contracts.CompanyRepository,
	items contracts.LineItemSource,
	metrics contracts.MetricRepository,
	refresher Refresher,
	cache Cache,
	cfg Config,
	log *logger.Logger,
) *Service {
	if cfg.TargetYears <= 0 {
		cfg.TargetYears = s1_metrics.DefaultTargetYears
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = redis.TTLLong
	}

	return &Service{
		companies: companies,
		items:     items,
		metrics:   metrics,
		refresher: refresher,
		cache:     cache,
		assembler: s1_metrics.NewAssembler(cfg.Accounts, cfg.TargetYears),
		gate:      quality.NewGate(cfg.Accounts, cfg.Quality),
		cfg:       cfg,
		logger:    log.WithField("module", "finance"),
	}
}

// Result is one computed metrics table with its provenance
type Result struct {
	Company *contracts.Company
	Table   *s1_metrics.MetricsTable
	Quality *quality.Snapshot
	Saved   int
}

// GetFinancialMetrics returns the multi-year series for a company
// 저장된 공시가 없으면 DART에서 수집 후 재시도, 그래도 없으면 빈 응답
func (s *Service) GetFinancialMetrics(ctx context.Context, companyName string) (*contracts.FinancialMetricsResponse, error) {
	company, err := s.companies.ResolveByName(ctx, companyName)
	if err != nil {
		return nil, err
	}

	key := redis.FinancialMetricsKey(company.CorpCode)
	var cached contracts.FinancialMetricsResponse
	if s.cache != nil {
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.WithError(err).Warn("Metrics cache read failed")
		}
		if found {
			cached.CompanyName = companyName
			return &cached, nil
		}
	}

	result, err := s.compute(ctx, company, "", true)
	if result == nil {
		return nil, err
	}

	resp := result.Table.Response(companyName)
	if err != nil {
		return resp, err
	}

	if s.cache != nil && !resp.IsEmpty() {
		if err := s.cache.Set(ctx, key, resp, s.cfg.CacheTTL); err != nil {
			s.logger.WithError(err).Warn("Metrics cache write failed")
		}
	}

	return resp, nil
}

// GetFinancialRatios returns one row per fiscal year
// year == "" → 전체 대상 연도, 그 외 → 해당 연도 행만 (없으면 빈 목록)
func (s *Service) GetFinancialRatios(ctx context.Context, companyName, year string) ([]contracts.YearlyRatios, error) {
	company, err := s.companies.ResolveByName(ctx, companyName)
	if err != nil {
		return nil, err
	}

	key := redis.FinancialRatiosKey(company.CorpCode, year)
	if s.cache != nil {
		var cached []contracts.YearlyRatios
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.WithError(err).Warn("Ratios cache read failed")
		}
		if found {
			return cached, nil
		}
	}

	result, err := s.compute(ctx, company, "", true)
	if result == nil {
		return nil, err
	}

	rows := result.Table.YearlyRatios()
	if year != "" {
		filtered := []contracts.YearlyRatios{}
		for _, r := range rows {
			if r.FiscalYear == year {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}
	if err != nil {
		return rows, err
	}

	if s.cache != nil && len(rows) > 0 {
		if err := s.cache.Set(ctx, key, rows, s.cfg.CacheTTL); err != nil {
			s.logger.WithError(err).Warn("Ratios cache write failed")
		}
	}
	return rows, nil
}

// Analyze resolves a company and computes its table without the response cache
// 콘솔 출력용 (품질 스냅샷 포함)
func (s *Service) Analyze(ctx context.Context, companyName string) (*Result, error) {
	company, err := s.companies.ResolveByName(ctx, companyName)
	if err != nil {
		return nil, err
	}
	return s.compute(ctx, company, "", true)
}

// CalculateAndSaveRatios recomputes metrics from stored line items and persists them
// year == "" → 최근 공시들 전체 저장, 그 외 → 해당 연도 공시로 계산하고 그 연도 지표만 저장
func (s *Service) CalculateAndSaveRatios(ctx context.Context, corpCode, year string) (*Result, error) {
	company := &contracts.Company{CorpCode: corpCode}
	result, err := s.compute(ctx, company, year, false)
	if err != nil {
		return result, err
	}
	s.invalidate(ctx, corpCode)
	return result, nil
}

// Refresh re-collects a company's filings from DART and recomputes its metrics
func (s *Service) Refresh(ctx context.Context, companyName string) (*Result, *collector.FetchResult, error) {
	if s.refresher == nil {
		return nil, nil, fmt.Errorf("refresh: DART collector not configured")
	}

	company, err := s.companies.ResolveByName(ctx, companyName)
	if err != nil {
		return nil, nil, err
	}

	fetched, err := s.refresher.CollectFinancials(ctx, company.CorpCode, nil)
	if err != nil {
		return nil, fetched, fmt.Errorf("refresh %s: %w", company.CorpCode, err)
	}

	result, err := s.CalculateAndSaveRatios(ctx, company.CorpCode, "")
	if result != nil {
		result.Company = company
	}
	return result, fetched, err
}

// StoredMetrics returns persisted metric rows of a company
func (s *Service) StoredMetrics(ctx context.Context, corpCode, year string) ([]contracts.MetricRecord, error) {
	records, err := s.metrics.GetMetrics(ctx, corpCode, year)
	if err != nil {
		return nil, fmt.Errorf("load metrics: %w", err)
	}
	return records, nil
}

// ListCompanies returns companies with stored filings
func (s *Service) ListCompanies(ctx context.Context, limit int) ([]*contracts.Company, error) {
	return s.companies.List(ctx, limit)
}

// compute loads line items, runs the engine and persists the records
// 반환된 Result는 저장 실패(ErrPersistence) 시에도 유효
func (s *Service) compute(ctx context.Context, company *contracts.Company, year string, allowFetch bool) (*Result, error) {
	log := s.logger.WithField("corp_code", company.CorpCode)

	items, err := s.items.GetLineItems(ctx, company.CorpCode, year)
	if err != nil {
		return nil, fmt.Errorf("load line items: %w", err)
	}

	if len(items) == 0 && allowFetch && s.refresher != nil {
		log.Info("No stored filings, collecting from DART")
		if _, err := s.refresher.CollectFinancials(ctx, company.CorpCode, nil); err != nil {
			return nil, fmt.Errorf("collect financials: %w", err)
		}
		if items, err = s.items.GetLineItems(ctx, company.CorpCode, year); err != nil {
			return nil, fmt.Errorf("reload line items: %w", err)
		}
	}

	agg := s1_metrics.Aggregate(items, s.assembler.TargetYears())
	result := &Result{
		Company: company,
		Table:   s.assembler.Assemble(agg),
		Quality: s.gate.Check(agg),
	}

	if result.Table.IsEmpty() {
		return result, nil
	}

	if !result.Quality.Passed {
		log.WithFields(map[string]interface{}{
			"score":   result.Quality.Score,
			"missing": result.Quality.Missing,
		}).Warn("Financial data quality below threshold")
	}

	records := result.Table.Records(company.CorpCode)
	if year != "" {
		records = recordsForYear(records, year)
	}
	if err := s.metrics.SaveMetrics(ctx, records); err != nil {
		log.WithError(err).Error("Failed to save metrics")
		return result, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	result.Saved = len(records)

	log.WithFields(map[string]interface{}{
		"years":   result.Table.Years(),
		"records": result.Saved,
	}).Debug("Financial metrics computed")

	return result, nil
}

// recordsForYear keeps only one fiscal year's records
// 연도 지정 재계산은 전기/전전기 추정치로 기존 공시 기반 지표를 덮어쓰지 않음
func recordsForYear(records []contracts.MetricRecord, year string) []contracts.MetricRecord {
	out := make([]contracts.MetricRecord, 0, len(records))
	for _, r := range records {
		if r.FiscalYear == year {
			out = append(out, r)
		}
	}
	return out
}

// invalidate drops every cached response of a company
func (s *Service) invalidate(ctx context.Context, corpCode string) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.DeletePattern(ctx, redis.FinancialPattern(corpCode)); err != nil {
		s.logger.WithError(err).Warn("Cache invalidation failed")
	}
}
