package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/aegis-fin/backend/internal/finance"
	"github.com/wonny/aegis-fin/backend/internal/s0_data/collector"
	"github.com/wonny/aegis-fin/backend/pkg/logger"
)

// DefaultRefreshSchedule runs daily at 07:00 (with seconds)
const DefaultRefreshSchedule = "0 0 7 * * *"

// FinancialCollector collects filings for many companies
type FinancialCollector interface {
	CollectAll(ctx context.Context, corpCodes []string, cfg collector.Config) []collector.FetchResult
}

// MetricsRecomputer recomputes and persists one company's metrics
type MetricsRecomputer interface {
	CalculateAndSaveRatios(ctx context.Context, corpCode, year string) (*finance.Result, error)
}

// FinancialRefreshJob re-collects tracked companies and recomputes their metrics
// ⭐ SSOT: 재무지표 정기 갱신은 이 Job에서만
type FinancialRefreshJob struct {
	collector FinancialCollector
	metrics   MetricsRecomputer
	corpCodes []string
	schedule  string
	config    collector.Config
	logger    *logger.Logger
}

// NewFinancialRefreshJob creates a new financial refresh job
func NewFinancialRefreshJob(
	col FinancialCollector,
	metrics MetricsRecomputer,
	corpCodes []string,
	schedule string,
	cfg collector.Config,
	log *logger.Logger,
) *FinancialRefreshJob {
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}
	return &FinancialRefreshJob{
		collector: col,
		metrics:   metrics,
		corpCodes: corpCodes,
		schedule:  schedule,
		config:    cfg,
		logger:    log,
	}
}

// Name returns the job name
func (j *FinancialRefreshJob) Name() string {
	return "financial_refresh"
}

// Schedule returns the cron schedule
func (j *FinancialRefreshJob) Schedule() string {
	return j.schedule
}

// Run collects filings, then recomputes metrics for every company that collected cleanly
// 일부 회사 실패 시에도 나머지는 갱신, 실패가 있으면 에러 반환 (재시도 대상)
func (j *FinancialRefreshJob) Run(ctx context.Context) error {
	if len(j.corpCodes) == 0 {
		j.logger.Debug("No tracked companies, skipping financial refresh")
		return nil
	}

	j.logger.WithField("companies", len(j.corpCodes)).Info("Starting scheduled financial refresh")

	// 1. DART 공시 수집
	results := j.collector.CollectAll(ctx, j.corpCodes, j.config)

	// 2. 지표 재계산
	var failed []string
	recomputed := 0
	for _, r := range results {
		if r.Error != nil {
			failed = append(failed, r.CorpCode)
			continue
		}
		if _, err := j.metrics.CalculateAndSaveRatios(ctx, r.CorpCode, ""); err != nil {
			j.logger.WithError(err).WithField("corp_code", r.CorpCode).Error("Failed to recompute metrics")
			failed = append(failed, r.CorpCode)
			continue
		}
		recomputed++
	}

	j.logger.WithFields(map[string]interface{}{
		"recomputed": recomputed,
		"failed":     len(failed),
	}).Info("Scheduled financial refresh completed")

	if len(failed) > 0 {
		return fmt.Errorf("financial refresh failed for %d companies: %v", len(failed), failed)
	}
	return nil
}
