package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// metricsCmd prints the aligned multi-year metrics table of a company
var metricsCmd = &cobra.Command{
	Use:   "metrics <company>",
	Short: "다년도 재무지표 계산 및 출력",
	Long: `저장된 공시(없으면 DART 수집)로 재무지표를 계산하고 저장합니다.

Example:
  go run ./cmd/fin metrics 삼성전자
  go run ./cmd/fin metrics 삼성전자 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runMetrics,
}

var metricsJSON bool

func init() {
	rootCmd.AddCommand(metricsCmd)

	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "API 응답 포맷(JSON)으로 출력")
}

func runMetrics(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.service.Analyze(ctx, args[0])
	if result == nil {
		PrintError(err.Error())
		return err
	}

	if metricsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(result.Table.Response(args[0])); encErr != nil {
			return encErr
		}
		return err
	}

	PrintSectionHeader(fmt.Sprintf("%s (%s)", args[0], result.Company.CorpCode))
	if result.Table.IsEmpty() {
		PrintWarning("재무 데이터 없음")
		return err
	}

	WriteMetricsTable(os.Stdout, result.Table)
	PrintSeparator()

	q := result.Quality
	PrintKeyValue("Quality", fmt.Sprintf("%.2f (passed: %v)", q.Score, q.Passed), 8)
	for _, year := range q.MissingYears() {
		PrintKeyValue(year, "누락: "+strings.Join(q.Missing[year], ", "), 8)
	}

	if err != nil {
		PrintError(err.Error())
		return err
	}
	PrintKeyValue("Saved", fmt.Sprintf("%d metrics", result.Saved), 8)
	return nil
}
