package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/aegis-fin/backend/internal/contracts"
	"github.com/wonny/aegis-fin/backend/internal/external/dart"
	"github.com/wonny/aegis-fin/backend/internal/finance"
	"github.com/wonny/aegis-fin/backend/internal/s0_data/collector"
	"github.com/wonny/aegis-fin/backend/pkg/logger"
)

// FinancialService is the finance facade used by the handlers
type FinancialService interface {
	GetFinancialMetrics(ctx context.Context, companyName string) (*contracts.FinancialMetricsResponse, error)
	GetFinancialRatios(ctx context.Context, companyName, year string) ([]contracts.YearlyRatios, error)
	Refresh(ctx context.Context, companyName string) (*finance.Result, *collector.FetchResult, error)
	StoredMetrics(ctx context.Context, corpCode, year string) ([]contracts.MetricRecord, error)
	ListCompanies(ctx context.Context, limit int) ([]*contracts.Company, error)
}

// FinancialHandler handles financial metrics API endpoints
// ⭐ SSOT: 재무지표 API 핸들러는 이 구조체에서만
type FinancialHandler struct {
	service FinancialService
	logger  *logger.Logger
}

// NewFinancialHandler creates a new financial handler
func NewFinancialHandler(service FinancialService, log *logger.Logger) *FinancialHandler {
	return &FinancialHandler{
		service: service,
		logger:  log,
	}
}

// CompanyRequest is the body of POST /api/financial and /api/financial/refresh
type CompanyRequest struct {
	CompanyName string `json:"company_name"`
}

// RefreshResponse reports one collect + recompute run
type RefreshResponse struct {
	Status       string   `json:"status"`
	CorpCode     string   `json:"corp_code"`
	CorpName     string   `json:"corp_name"`
	Years        []string `json:"years"`
	NoDataYears  []string `json:"no_data_years,omitempty"`
	ItemCount    int      `json:"item_count"`
	MetricCount  int      `json:"metric_count"`
	QualityScore float64  `json:"quality_score"`
}

// ListCompanies returns companies with stored filings
// GET /api/financial?limit=
func (h *FinancialHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid 'limit' (expected positive integer)")
			return
		}
		limit = n
	}

	companies, err := h.service.ListCompanies(r.Context(), limit)
	if err != nil {
		h.fail(w, err, "Failed to list companies")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(companies),
		"companies": companies,
	})
}

// GetMetrics returns the multi-year metrics series
// POST /api/financial {"company_name": "..."}
func (h *FinancialHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeCompany(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetFinancialMetrics(r.Context(), name)
	if err != nil {
		h.fail(w, err, "Failed to compute financial metrics")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetRatios returns one ratio row per fiscal year
// GET /api/financial/ratios?company_name=&year=
func (h *FinancialHandler) GetRatios(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := strings.TrimSpace(q.Get("company_name"))
	if name == "" {
		respondError(w, http.StatusBadRequest, "'company_name' is required")
		return
	}

	year := q.Get("year")
	if year != "" {
		if _, err := strconv.Atoi(year); err != nil || len(year) != 4 {
			respondError(w, http.StatusBadRequest, "Invalid 'year' format (expected YYYY)")
			return
		}
	}

	rows, err := h.service.GetFinancialRatios(r.Context(), name, year)
	if err != nil {
		h.fail(w, err, "Failed to compute financial ratios")
		return
	}

	respondJSON(w, http.StatusOK, rows)
}

// GetStoredMetrics returns persisted metric rows
// GET /api/financial/{corp_code}/metrics?year=
func (h *FinancialHandler) GetStoredMetrics(w http.ResponseWriter, r *http.Request) {
	corpCode := mux.Vars(r)["corp_code"]

	records, err := h.service.StoredMetrics(r.Context(), corpCode, r.URL.Query().Get("year"))
	if err != nil {
		h.fail(w, err, "Failed to retrieve metrics")
		return
	}
	if records == nil {
		records = []contracts.MetricRecord{}
	}

	respondJSON(w, http.StatusOK, records)
}

// Refresh re-collects filings from DART and recomputes metrics
// POST /api/financial/refresh {"company_name": "..."}
func (h *FinancialHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeCompany(w, r)
	if !ok {
		return
	}

	result, fetched, err := h.service.Refresh(r.Context(), name)
	if err != nil {
		h.fail(w, err, "Failed to refresh financial data")
		return
	}

	resp := RefreshResponse{Status: "success"}
	if fetched != nil {
		resp.CorpCode = fetched.CorpCode
		resp.Years = fetched.Years
		resp.NoDataYears = fetched.NoDataYears
		resp.ItemCount = fetched.ItemCount
	}
	if result != nil {
		if result.Company != nil {
			resp.CorpCode = result.Company.CorpCode
			resp.CorpName = result.Company.CorpName
		}
		resp.MetricCount = result.Saved
		if result.Quality != nil {
			resp.QualityScore = result.Quality.Score
		}
	}
	if resp.Years == nil {
		resp.Years = []string{}
	}

	respondJSON(w, http.StatusOK, resp)
}

// fail maps a service error onto an HTTP status
// 회사 미존재 → 404, DART 데이터 없음 → 404, 그 외 → 500
func (h *FinancialHandler) fail(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, contracts.ErrCompanyNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, dart.ErrNoData):
		respondError(w, http.StatusNotFound, "No financial data available")
	default:
		h.logger.WithError(err).Error(message)
		if errors.Is(err, finance.ErrPersistence) {
			message = "Failed to save financial metrics"
		}
		respondError(w, http.StatusInternalServerError, message)
	}
}

func decodeCompany(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req CompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return "", false
	}

	name := strings.TrimSpace(req.CompanyName)
	if name == "" {
		respondError(w, http.StatusBadRequest, "'company_name' is required")
		return "", false
	}
	return name, true
}
