package s0_data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/aegis-fin/backend/internal/contracts"
	"github.com/wonny/aegis-fin/backend/pkg/database"
)

// recentFilingYears is the number of filing years loaded when no year is given
const recentFilingYears = 3

// Repository persists DART line items (fin.financials)
// ⭐ SSOT: 재무제표 계정 저장소는 여기서만
type Repository struct {
	db *database.DB
}

// NewRepository creates a new Repository instance
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

var _ contracts.LineItemStore = (*Repository)(nil)

// GetLineItems returns BS/IS rows for a company
// year == "" → 최근 3개 공시 연도, 그 외 → 해당 연도 공시만
func (r *Repository) GetLineItems(ctx context.Context, corpCode string, year string) ([]contracts.AccountLineItem, error) {
	query := `
		SELECT corp_code, bsns_year, sj_div, account_nm, ord,
		       COALESCE(thstrm_amount, 0)::float8,
		       COALESCE(frmtrm_amount, 0)::float8,
		       COALESCE(bfefrmtrm_amount, 0)::float8
		FROM fin.financials
		WHERE corp_code = $1
		  AND sj_div IN ('BS', 'IS')
		  AND bsns_year = $2
		ORDER BY bsns_year DESC, sj_div, ord
	`
	args := []interface{}{corpCode, year}

	if year == "" {
		query = `
			SELECT corp_code, bsns_year, sj_div, account_nm, ord,
			       COALESCE(thstrm_amount, 0)::float8,
			       COALESCE(frmtrm_amount, 0)::float8,
			       COALESCE(bfefrmtrm_amount, 0)::float8
			FROM fin.financials
			WHERE corp_code = $1
			  AND sj_div IN ('BS', 'IS')
			  AND bsns_year IN (
			      SELECT DISTINCT bsns_year FROM fin.financials
			      WHERE corp_code = $1
			      ORDER BY bsns_year DESC
			      LIMIT $2
			  )
			ORDER BY bsns_year DESC, sj_div, ord
		`
		args = []interface{}{corpCode, recentFilingYears}
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	defer rows.Close()

	var items []contracts.AccountLineItem
	for rows.Next() {
		var it contracts.AccountLineItem
		if err := rows.Scan(
			&it.CorpCode, &it.FiscalYear, &it.StatementDiv, &it.AccountName, &it.Ord,
			&it.CurrentAmount, &it.PriorAmount, &it.PriorPriorAmount,
		); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

// SaveLineItems upserts line items in one transaction
func (r *Repository) SaveLineItems(ctx context.Context, items []contracts.AccountLineItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO fin.financials (
			corp_code, bsns_year, sj_div, account_nm, ord,
			thstrm_amount, frmtrm_amount, bfefrmtrm_amount, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (corp_code, bsns_year, sj_div, account_nm) DO UPDATE SET
			ord = EXCLUDED.ord,
			thstrm_amount = EXCLUDED.thstrm_amount,
			frmtrm_amount = EXCLUDED.frmtrm_amount,
			bfefrmtrm_amount = EXCLUDED.bfefrmtrm_amount,
			updated_at = NOW()
	`

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, it := range items {
			batch.Queue(query,
				it.CorpCode, it.FiscalYear, it.StatementDiv, it.AccountName, it.Ord,
				it.CurrentAmount, it.PriorAmount, it.PriorPriorAmount,
			)
		}

		br := tx.SendBatch(ctx, batch)
		for _, it := range items {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("upsert line item %s/%s %s: %w", it.CorpCode, it.FiscalYear, it.AccountName, err)
			}
		}
		return br.Close()
	})
}

// LatestFilingYear returns the most recent stored bsns_year ("" when none)
func (r *Repository) LatestFilingYear(ctx context.Context, corpCode string) (string, error) {
	var year *string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT MAX(bsns_year) FROM fin.financials WHERE corp_code = $1`, corpCode,
	).Scan(&year)
	if err != nil {
		return "", fmt.Errorf("query latest filing year: %w", err)
	}
	if year == nil {
		return "", nil
	}
	return *year, nil
}
