package collector

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-fin/backend/internal/contracts"
	"github.com/wonny/aegis-fin/backend/internal/external/dart"
	"github.com/wonny/aegis-fin/backend/pkg/logger"
)

// MockFilingSource is a mock implementation of FilingSource for testing
type MockFilingSource struct {
	mock.Mock
}

func (m *MockFilingSource) FetchSingleAccounts(ctx context.Context, corpCode, year, reportCode, fsDiv string) ([]contracts.AccountLineItem, error) {
	args := m.Called(ctx, corpCode, year, reportCode, fsDiv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]contracts.AccountLineItem), args.Error(1)
}

func (m *MockFilingSource) FetchCorpCodes(ctx context.Context) ([]*contracts.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*contracts.Company), args.Error(1)
}

func (m *MockFilingSource) FetchCompany(ctx context.Context, corpCode string) (*contracts.Company, error) {
	args := m.Called(ctx, corpCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.Company), args.Error(1)
}

// memStore is an in-memory LineItemStore + CompanyRepository
type memStore struct {
	mu        sync.Mutex
	items     []contracts.AccountLineItem
	companies []*contracts.Company
	profiles  []*contracts.Company
	saveErr   error
}

func (s *memStore) GetLineItems(ctx context.Context, corpCode, year string) ([]contracts.AccountLineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []contracts.AccountLineItem
	for _, it := range s.items {
		if it.CorpCode == corpCode && (year == "" || it.FiscalYear == year) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *memStore) SaveLineItems(ctx context.Context, items []contracts.AccountLineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.items = append(s.items, items...)
	return nil
}

func (s *memStore) ResolveByName(ctx context.Context, name string) (*contracts.Company, error) {
	return nil, contracts.ErrCompanyNotFound
}

func (s *memStore) List(ctx context.Context, limit int) ([]*contracts.Company, error) {
	return s.companies, nil
}

func (s *memStore) SaveCorpCodes(ctx context.Context, companies []*contracts.Company) error {
	s.companies = append(s.companies, companies...)
	return nil
}

func (s *memStore) SaveProfile(ctx context.Context, company *contracts.Company) error {
	s.profiles = append(s.profiles, company)
	return nil
}

func filing(corp, year string) []contracts.AccountLineItem {
	return []contracts.AccountLineItem{
		{CorpCode: corp, FiscalYear: year, StatementDiv: "BS", AccountName: "자산총계", CurrentAmount: 100},
		{CorpCode: corp, FiscalYear: year, StatementDiv: "IS", AccountName: "매출액", CurrentAmount: 50},
	}
}

func newTestCollector(source FilingSource, store *memStore) *Collector {
	c := NewCollector(source, store, store, dart.ReportAnnual, dart.FsConsolidated, logger.Nop())
	c.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestRecentYears(t *testing.T) {
	c := newTestCollector(new(MockFilingSource), &memStore{})

	assert.Equal(t, []string{"2023", "2022", "2021"}, c.RecentYears(0))
	assert.Equal(t, []string{"2023"}, c.RecentYears(1))
}

func TestCollectFinancials(t *testing.T) {
	source := new(MockFilingSource)
	store := &memStore{}
	c := newTestCollector(source, store)

	source.On("FetchSingleAccounts", mock.Anything, "00126380", "2023", "11011", "CFS").Return(filing("00126380", "2023"), nil)
	source.On("FetchSingleAccounts", mock.Anything, "00126380", "2022", "11011", "CFS").Return(filing("00126380", "2022"), nil)
	source.On("FetchSingleAccounts", mock.Anything, "00126380", "2021", "11011", "CFS").Return(nil, dart.ErrNoData)

	result, err := c.CollectFinancials(context.Background(), "00126380", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"2023", "2022"}, result.Years)
	assert.Equal(t, []string{"2021"}, result.NoDataYears)
	assert.Equal(t, 4, result.ItemCount)
	assert.Len(t, store.items, 4)
	source.AssertExpectations(t)
}

func TestCollectFinancials_FetchError(t *testing.T) {
	source := new(MockFilingSource)
	store := &memStore{}
	c := newTestCollector(source, store)

	apiErr := &dart.APIError{Status: "020", Message: "요청 제한을 초과하였습니다."}
	source.On("FetchSingleAccounts", mock.Anything, "00126380", "2023", mock.Anything, mock.Anything).Return(nil, apiErr)
	source.On("FetchSingleAccounts", mock.Anything, "00126380", mock.Anything, mock.Anything, mock.Anything).Return(filing("00126380", "2022"), nil).Maybe()

	result, err := c.CollectFinancials(context.Background(), "00126380", []string{"2023", "2022"})
	require.Error(t, err)

	var got *dart.APIError
	assert.True(t, errors.As(err, &got))
	assert.Equal(t, err, result.Error)
	assert.Empty(t, store.items, "nothing is stored when a year fails")
}

func TestCollectFinancials_SaveError(t *testing.T) {
	source := new(MockFilingSource)
	store := &memStore{saveErr: errors.New("db down")}
	c := newTestCollector(source, store)

	source.On("FetchSingleAccounts", mock.Anything, "00126380", "2023", mock.Anything, mock.Anything).Return(filing("00126380", "2023"), nil)

	_, err := c.CollectFinancials(context.Background(), "00126380", []string{"2023"})
	assert.ErrorContains(t, err, "save line items")
}

func TestCollectAll(t *testing.T) {
	source := new(MockFilingSource)
	store := &memStore{}
	c := newTestCollector(source, store)

	for _, corp := range []string{"00000001", "00000002", "00000003"} {
		corp := corp
		source.On("FetchSingleAccounts", mock.Anything, corp, "2023", mock.Anything, mock.Anything).Return(filing(corp, "2023"), nil)
	}
	source.On("FetchSingleAccounts", mock.Anything, "00000004", "2023", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset by peer"))

	results := c.CollectAll(context.Background(), []string{"00000001", "00000002", "00000003", "00000004"}, Config{Workers: 2, Years: 1})
	require.Len(t, results, 4)

	sort.Slice(results, func(i, j int) bool { return results[i].CorpCode < results[j].CorpCode })
	for _, r := range results[:3] {
		assert.NoError(t, r.Error)
		assert.Equal(t, 2, r.ItemCount)
	}
	assert.Error(t, results[3].Error)
	assert.Len(t, store.items, 6)
}

func TestCollectAll_Cancelled(t *testing.T) {
	source := new(MockFilingSource)
	c := newTestCollector(source, &memStore{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := c.CollectAll(ctx, []string{"00000001", "00000002"}, Config{Workers: 1, Years: 1})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.ErrorIs(t, r.Error, context.Canceled)
	}
	source.AssertNotCalled(t, "FetchSingleAccounts", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncCorpCodes(t *testing.T) {
	source := new(MockFilingSource)
	store := &memStore{}
	c := newTestCollector(source, store)

	source.On("FetchCorpCodes", mock.Anything).Return([]*contracts.Company{
		{CorpCode: "00126380", CorpName: "삼성전자", StockCode: "005930", Listed: true},
		{CorpCode: "00434003", CorpName: "다코"},
	}, nil)

	n, err := c.SyncCorpCodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, store.companies, 2)
}

func TestRefreshProfile(t *testing.T) {
	source := new(MockFilingSource)
	store := &memStore{}
	c := newTestCollector(source, store)

	source.On("FetchCompany", mock.Anything, "00126380").Return(&contracts.Company{CorpCode: "00126380", CorpName: "삼성전자(주)", IndutyCode: "264"}, nil)
	source.On("FetchCompany", mock.Anything, "00000000").Return(nil, dart.ErrNoData)

	company, err := c.RefreshProfile(context.Background(), "00126380")
	require.NoError(t, err)
	assert.Equal(t, "264", company.IndutyCode)
	assert.Len(t, store.profiles, 1)

	_, err = c.RefreshProfile(context.Background(), "00000000")
	assert.ErrorIs(t, err, dart.ErrNoData)
}
