package s0_data

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/aegis-fin/backend/internal/contracts"
	"github.com/wonny/aegis-fin/backend/pkg/database"
)

// CompanyRepository stores the DART corp code master (fin.companies)
type CompanyRepository struct {
	db *database.DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *database.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

var _ contracts.CompanyRepository = (*CompanyRepository)(nil)

const companyColumns = `corp_code, corp_name, COALESCE(stock_code, ''), COALESCE(induty_code, ''), listed, COALESCE(modify_date, '')`

func scanCompany(row pgx.Row) (*contracts.Company, error) {
	var c contracts.Company
	if err := row.Scan(&c.CorpCode, &c.CorpName, &c.StockCode, &c.IndutyCode, &c.Listed, &c.ModifyDate); err != nil {
		return nil, err
	}
	return &c, nil
}

// ResolveByName finds a company by name
// 8자리 고유번호 → 코드 조회, 그 외 정확히 일치 → 접두 일치 순, 상장사 우선
func (r *CompanyRepository) ResolveByName(ctx context.Context, name string) (*contracts.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, contracts.ErrCompanyNotFound
	}
	if isCorpCode(name) {
		return r.GetByCorpCode(ctx, name)
	}

	queries := []struct {
		sql string
		arg string
	}{
		{`SELECT ` + companyColumns + ` FROM fin.companies WHERE corp_name = $1 ORDER BY listed DESC, corp_code LIMIT 1`, name},
		{`SELECT ` + companyColumns + ` FROM fin.companies WHERE corp_name LIKE $1 ORDER BY listed DESC, LENGTH(corp_name), corp_code LIMIT 1`, escapeLike(name) + "%"},
	}

	for _, q := range queries {
		c, err := scanCompany(r.db.Pool.QueryRow(ctx, q.sql, q.arg))
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("resolve company %q: %w", name, err)
		}
	}

	return nil, fmt.Errorf("%w: %s", contracts.ErrCompanyNotFound, name)
}

// GetByCorpCode returns a company by corp code
func (r *CompanyRepository) GetByCorpCode(ctx context.Context, corpCode string) (*contracts.Company, error) {
	c, err := scanCompany(r.db.Pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM fin.companies WHERE corp_code = $1`, corpCode))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", contracts.ErrCompanyNotFound, corpCode)
	}
	if err != nil {
		return nil, fmt.Errorf("get company %s: %w", corpCode, err)
	}
	return c, nil
}

// List returns companies that have stored filings, most recently updated first
// limit <= 0 → 100
func (r *CompanyRepository) List(ctx context.Context, limit int) ([]*contracts.Company, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT ` + companyColumns + `
		FROM fin.companies c
		WHERE EXISTS (SELECT 1 FROM fin.financials f WHERE f.corp_code = c.corp_code)
		ORDER BY c.updated_at DESC, c.corp_name
		LIMIT $1
	`

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	companies := []*contracts.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// SaveCorpCodes upserts the corp code master in batches
func (r *CompanyRepository) SaveCorpCodes(ctx context.Context, companies []*contracts.Company) error {
	if len(companies) == 0 {
		return nil
	}

	query := `
		INSERT INTO fin.companies (corp_code, corp_name, stock_code, listed, modify_date, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), NOW(), NOW())
		ON CONFLICT (corp_code) DO UPDATE SET
			corp_name = EXCLUDED.corp_name,
			stock_code = EXCLUDED.stock_code,
			listed = EXCLUDED.listed,
			modify_date = EXCLUDED.modify_date,
			updated_at = NOW()
		WHERE fin.companies.modify_date IS DISTINCT FROM EXCLUDED.modify_date
	`

	// 약 10만 건이므로 배치 단위로 커밋
	const batchSize = 1000
	for start := 0; start < len(companies); start += batchSize {
		end := start + batchSize
		if end > len(companies) {
			end = len(companies)
		}
		chunk := companies[start:end]

		err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
			batch := &pgx.Batch{}
			for _, c := range chunk {
				batch.Queue(query, c.CorpCode, c.CorpName, c.StockCode, c.Listed, c.ModifyDate)
			}
			return tx.SendBatch(ctx, batch).Close()
		})
		if err != nil {
			return fmt.Errorf("save corp codes (batch %d): %w", start/batchSize, err)
		}
	}

	return nil
}

// SaveProfile updates profile fields from 기업개황 (inserting when unknown)
func (r *CompanyRepository) SaveProfile(ctx context.Context, c *contracts.Company) error {
	query := `
		INSERT INTO fin.companies (corp_code, corp_name, stock_code, induty_code, listed, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NOW(), NOW())
		ON CONFLICT (corp_code) DO UPDATE SET
			stock_code = COALESCE(EXCLUDED.stock_code, fin.companies.stock_code),
			induty_code = COALESCE(EXCLUDED.induty_code, fin.companies.induty_code),
			listed = EXCLUDED.listed,
			updated_at = NOW()
	`

	if _, err := r.db.Pool.Exec(ctx, query, c.CorpCode, c.CorpName, c.StockCode, c.IndutyCode, c.Listed); err != nil {
		return fmt.Errorf("save company profile %s: %w", c.CorpCode, err)
	}
	return nil
}

// escapeLike escapes LIKE wildcards in user input
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// isCorpCode reports whether s looks like a DART 고유번호 (8 digits)
func isCorpCode(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
