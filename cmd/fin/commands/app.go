package commands

import (
	"context"
	"fmt"

	"github.com/wonny/aegis-fin/backend/internal/cache"
	"github.com/wonny/aegis-fin/backend/internal/external/dart"
	"github.com/wonny/aegis-fin/backend/internal/finance"
	"github.com/wonny/aegis-fin/backend/internal/metricsconfig"
	"github.com/wonny/aegis-fin/backend/internal/s0_data"
	"github.com/wonny/aegis-fin/backend/internal/s0_data/collector"
	"github.com/wonny/aegis-fin/backend/internal/s0_data/quality"
	"github.com/wonny/aegis-fin/backend/pkg/config"
	"github.com/wonny/aegis-fin/backend/pkg/database"
	"github.com/wonny/aegis-fin/backend/pkg/logger"
	"github.com/wonny/aegis-fin/backend/pkg/redis"
)

// app bundles the wired dependencies shared by the commands
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *database.DB
	redis     *redis.Client
	vocab     *metricsconfig.Config
	dart      *dart.Client
	companies *s0_data.CompanyRepository
	items     *s0_data.Repository
	metrics   *s0_data.MetricRepository
	collector *collector.Collector
	service   *finance.Service
	memCache  *cache.MemoryCache // Redis 비활성 시에만 사용
}

// newApp loads config and wires storage, DART and the finance service
// ⭐ SSOT: 의존성 조립은 여기서만
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	path := accountsFile
	if path == "" {
		path = cfg.Finance.AccountsFile
	}
	vocab, err := metricsconfig.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("load account vocabulary: %w", err)
	}
	// 어휘 파일이 없으면 FIN_TARGET_YEARS 사용
	targetYears := vocab.TargetYears
	if path == "" {
		targetYears = cfg.Finance.TargetYears
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// Redis 장애 시 캐시/분산 리밋 없이 동작
	rdb, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, continuing without cache")
		rdb = redis.Disabled()
	}

	limiter := redis.NewRateLimiter(rdb, "aegis-fin")
	dartClient := dart.NewClient(cfg.DART, log, limiter)

	companies := s0_data.NewCompanyRepository(db)
	items := s0_data.NewRepository(db)
	metrics := s0_data.NewMetricRepository(db)

	var respCache finance.Cache = redis.NewCache(rdb, "aegis-fin")
	var memCache *cache.MemoryCache
	if !rdb.Enabled() {
		memCache = cache.NewMemoryCache(log)
		respCache = memCache
	}

	col := collector.NewCollector(dartClient, items, companies, cfg.DART.ReportCode, cfg.DART.FsDiv, log)

	svc := finance.NewService(
		companies,
		items,
		metrics,
		col,
		respCache,
		finance.Config{
			Accounts:    vocab.AccountNames(),
			TargetYears: targetYears,
			CacheTTL:    cfg.Finance.CacheTTL,
			Quality:     quality.DefaultConfig(),
		},
		log,
	)

	log.WithFields(map[string]interface{}{
		"vocabulary":   vocab.Meta.VocabularyID,
		"target_years": targetYears,
		"redis":        rdb.Enabled(),
	}).Debug("Application wired")

	return &app{
		cfg:       cfg,
		log:       log,
		db:        db,
		redis:     rdb,
		vocab:     vocab,
		dart:      dartClient,
		companies: companies,
		items:     items,
		metrics:   metrics,
		collector: col,
		service:   svc,
		memCache:  memCache,
	}, nil
}

// Close releases database and redis connections
func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
	a.db.Close()
}
