package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// fetcherCmd represents the fetcher command
var fetcherCmd = &cobra.Command{
	Use:   "fetcher",
	Short: "DART 데이터 수집 도구",
	Long: `DART OpenAPI에서 기업코드와 재무제표를 수집합니다.

Example:
  go run ./cmd/fin fetcher corpcodes
  go run ./cmd/fin fetcher financials 삼성전자
  go run ./cmd/fin fetcher financials 삼성전자 --years 2023,2022,2021`,
}

var fetcherCorpCodesCmd = &cobra.Command{
	Use:   "corpcodes",
	Short: "기업 고유번호 전체 동기화 (corpCode.xml)",
	Args:  cobra.NoArgs,
	RunE:  runFetchCorpCodes,
}

var fetcherFinancialsCmd = &cobra.Command{
	Use:   "financials <company>",
	Short: "단일회사 재무제표 수집 (fnlttSinglAcnt)",
	Args:  cobra.ExactArgs(1),
	RunE:  runFetchFinancials,
}

var (
	fetchYears   []string
	fetchProfile bool
)

func init() {
	rootCmd.AddCommand(fetcherCmd)
	fetcherCmd.AddCommand(fetcherCorpCodesCmd)
	fetcherCmd.AddCommand(fetcherFinancialsCmd)

	fetcherFinancialsCmd.Flags().StringSliceVar(&fetchYears, "years", nil, "사업연도 목록 (default: 최근 3개 연도)")
	fetcherFinancialsCmd.Flags().BoolVar(&fetchProfile, "profile", false, "기업개황(업종/종목코드)도 갱신")
}

func runFetchCorpCodes(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	PrintSectionHeader("DART Corp Code Sync")
	start := time.Now()

	count, err := a.collector.SyncCorpCodes(ctx)
	if err != nil {
		PrintError(err.Error())
		return err
	}

	PrintKeyValue("Companies", fmt.Sprintf("%d", count), 10)
	PrintSuccess(fmt.Sprintf("Synced in %.2fs", time.Since(start).Seconds()))
	return nil
}

func runFetchFinancials(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	company, err := a.companies.ResolveByName(ctx, args[0])
	if err != nil {
		PrintError(err.Error())
		return err
	}

	PrintSectionHeader("DART Financial Statements")
	PrintKeyValue("Company", fmt.Sprintf("%s (%s)", company.CorpName, company.CorpCode), 10)

	if fetchProfile {
		if _, err := a.collector.RefreshProfile(ctx, company.CorpCode); err != nil {
			PrintWarning(fmt.Sprintf("기업개황 갱신 실패: %v", err))
		}
	}

	result, err := a.collector.CollectFinancials(ctx, company.CorpCode, fetchYears)
	if err != nil {
		PrintError(err.Error())
		return err
	}

	PrintKeyValue("Years", joinOrDash(result.Years), 10)
	PrintKeyValue("No data", joinOrDash(result.NoDataYears), 10)
	PrintKeyValue("Items", fmt.Sprintf("%d", result.ItemCount), 10)

	if latest, err := a.items.LatestFilingYear(ctx, company.CorpCode); err == nil && latest != "" {
		PrintKeyValue("Latest", latest, 10)
	}

	// 수집 직후 지표 재계산
	calc, err := a.service.CalculateAndSaveRatios(ctx, company.CorpCode, "")
	if err != nil {
		PrintError(err.Error())
		return err
	}
	PrintKeyValue("Metrics", fmt.Sprintf("%d saved", calc.Saved), 10)
	PrintSuccess("Collection completed")
	return nil
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
