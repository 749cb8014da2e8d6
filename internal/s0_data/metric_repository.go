package s0_data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/aegis-fin/backend/internal/contracts"
	"github.com/wonny/aegis-fin/backend/pkg/database"
)

// MetricRepository stores computed ratios and growth rates (fin.metrics)
type MetricRepository struct {
	db *database.DB
}

// NewMetricRepository creates a new metric repository
func NewMetricRepository(db *database.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

var _ contracts.MetricRepository = (*MetricRepository)(nil)

// SaveMetrics upserts all records in one transaction
// 하나라도 실패하면 전체 롤백
func (r *MetricRepository) SaveMetrics(ctx context.Context, records []contracts.MetricRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO fin.metrics (corp_code, bsns_year, metric_name, value, unit, computed_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (corp_code, bsns_year, metric_name) DO UPDATE SET
			value = EXCLUDED.value,
			unit = EXCLUDED.unit,
			computed_at = NOW()
	`

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		for _, rec := range records {
			unit := rec.Unit
			if unit == "" {
				unit = contracts.MetricUnitPercent
			}
			if _, err := tx.Exec(ctx, query, rec.CorpCode, rec.FiscalYear, rec.MetricName, rec.Value, unit); err != nil {
				return fmt.Errorf("upsert metric %s/%s %s: %w", rec.CorpCode, rec.FiscalYear, rec.MetricName, err)
			}
		}
		return nil
	})
}

// GetMetrics returns stored metrics for a company (year == "" → all years)
func (r *MetricRepository) GetMetrics(ctx context.Context, corpCode string, year string) ([]contracts.MetricRecord, error) {
	query := `
		SELECT corp_code, bsns_year, metric_name, value, unit
		FROM fin.metrics
		WHERE corp_code = $1 AND ($2 = '' OR bsns_year = $2)
		ORDER BY bsns_year DESC, metric_name
	`

	rows, err := r.db.Pool.Query(ctx, query, corpCode, year)
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()

	var records []contracts.MetricRecord
	for rows.Next() {
		var rec contracts.MetricRecord
		if err := rows.Scan(&rec.CorpCode, &rec.FiscalYear, &rec.MetricName, &rec.Value, &rec.Unit); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
