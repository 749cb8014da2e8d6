package contracts

import (
	"context"
	"errors"
)

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만

// ErrCompanyNotFound is returned when a company name cannot be resolved
var ErrCompanyNotFound = errors.New("company not found")

// LineItemSource supplies raw account line items for a company
// year == "" means the most recent filings
type LineItemSource interface {
	GetLineItems(ctx context.Context, corpCode string, year string) ([]AccountLineItem, error)
}

// LineItemStore persists line items retrieved from DART
type LineItemStore interface {
	LineItemSource
	SaveLineItems(ctx context.Context, items []AccountLineItem) error
}

// CompanyResolver maps a company name to a stable corp code
type CompanyResolver interface {
	ResolveByName(ctx context.Context, name string) (*Company, error)
}

// CompanyRepository manages company master data
type CompanyRepository interface {
	CompanyResolver
	List(ctx context.Context, limit int) ([]*Company, error)
	SaveCorpCodes(ctx context.Context, companies []*Company) error
	SaveProfile(ctx context.Context, company *Company) error
}

// MetricWriter upserts computed metrics keyed by (corp_code, bsns_year, metric_name)
// All records of one call commit or roll back together
type MetricWriter interface {
	SaveMetrics(ctx context.Context, records []MetricRecord) error
}

// MetricRepository reads and writes computed metrics
type MetricRepository interface {
	MetricWriter
	GetMetrics(ctx context.Context, corpCode string, year string) ([]MetricRecord, error)
}
