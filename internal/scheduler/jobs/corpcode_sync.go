package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/aegis-fin/backend/pkg/logger"
)

// DefaultCorpCodeSchedule runs every Monday at 06:00
const DefaultCorpCodeSchedule = "0 0 6 * * 1"

// CorpCodeSyncer refreshes the DART corp code master
type CorpCodeSyncer interface {
	SyncCorpCodes(ctx context.Context) (int, error)
}

// CorpCodeSyncJob keeps fin.companies in line with DART
type CorpCodeSyncJob struct {
	syncer CorpCodeSyncer
	logger *logger.Logger
}

// NewCorpCodeSyncJob creates a new corp code sync job
func NewCorpCodeSyncJob(syncer CorpCodeSyncer, log *logger.Logger) *CorpCodeSyncJob {
	return &CorpCodeSyncJob{
		syncer: syncer,
		logger: log,
	}
}

// Name returns the job name
func (j *CorpCodeSyncJob) Name() string {
	return "corp_code_sync"
}

// Schedule returns the cron schedule
func (j *CorpCodeSyncJob) Schedule() string {
	return DefaultCorpCodeSchedule
}

// Run executes the sync
func (j *CorpCodeSyncJob) Run(ctx context.Context) error {
	count, err := j.syncer.SyncCorpCodes(ctx)
	if err != nil {
		return fmt.Errorf("sync corp codes: %w", err)
	}

	j.logger.WithField("count", count).Info("Corp code sync completed")
	return nil
}
