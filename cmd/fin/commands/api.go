package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis-fin/backend/internal/api"
	"github.com/wonny/aegis-fin/backend/internal/api/handlers"
	"github.com/wonny/aegis-fin/backend/internal/scheduler"
	"github.com/wonny/aegis-fin/backend/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                          - Health check
  GET  /api/financial                   - 공시 보유 회사 목록
  POST /api/financial                   - 다년도 재무지표 {"company_name": "..."}
  GET  /api/financial/ratios            - 연도별 재무비율 (?company_name=&year=)
  POST /api/financial/refresh           - DART 재수집 + 재계산
  GET  /api/financial/{corp_code}/metrics - 저장된 지표 조회

Example:
  go run ./cmd/fin api
  go run ./cmd/fin api --port 8090`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	// 메모리 캐시 사용 시 만료 항목 정리
	if a.memCache != nil {
		sched := scheduler.New(a.log)
		if err := sched.AddJob(jobs.NewCacheCleanupJob(a.memCache, a.log)); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	handler := handlers.NewFinancialHandler(a.service, a.log)
	server := api.New(a.cfg, a.log, api.NewRouter(handler, a.log))

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Run(ctx); err != nil {
		return err
	}

	a.log.Info("Server stopped")
	return nil
}
