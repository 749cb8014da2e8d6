package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis-fin/backend/internal/s0_data/collector"
	"github.com/wonny/aegis-fin/backend/internal/scheduler"
	"github.com/wonny/aegis-fin/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `재무지표 정기 갱신 스케줄러를 시작하거나 작업을 관리합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행 (완료까지 대기)

Example:
  go run ./cmd/fin scheduler start
  go run ./cmd/fin scheduler list
  go run ./cmd/fin scheduler run financial_refresh`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- financial_refresh: FIN_REFRESH_SCHEDULE (기본 매일 07:00), FIN_TRACKED_CORPS 재수집 + 재계산
- corp_code_sync: 매주 월요일 06:00 (기업 고유번호 동기화)
- cache_cleanup: 5분마다 (Redis 비활성 시 메모리 캐시 정리)

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := buildScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	sched.Start()

	PrintSuccess("Scheduler started")
	printJobs(sched)
	fmt.Println("\nPress Ctrl+C to stop")

	<-ctx.Done()

	sched.Stop()
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := buildScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	// 다음 실행 시각 계산을 위해 잠시 시작
	sched.Start()
	defer sched.Stop()

	printJobs(sched)
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := buildScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	result, err := sched.RunNow(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	PrintKeyValue("Job", result.JobName, 9)
	PrintKeyValue("Attempts", fmt.Sprintf("%d", result.Attempts), 9)
	PrintKeyValue("Duration", result.Duration.Round(time.Millisecond).String(), 9)
	if !result.Success {
		PrintError(result.Error)
		return fmt.Errorf("job %s failed", result.JobName)
	}
	PrintSuccess("Job completed")
	return nil
}

func printJobs(sched *scheduler.Scheduler) {
	stats := sched.GetJobStats()

	fmt.Println("Registered jobs:")
	for _, name := range sched.GetAllJobs() {
		st := stats[name]
		next := "-"
		if st.NextRun != nil {
			next = st.NextRun.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("  - %-18s %-14s next: %s\n", name, st.Schedule, next)
	}
}

func buildScheduler(a *app) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log, scheduler.WithRetry(2, 5*time.Minute))

	refresh := jobs.NewFinancialRefreshJob(
		a.collector,
		a.service,
		a.cfg.Finance.TrackedCorps,
		a.cfg.Finance.RefreshSchedule,
		collector.Config{Workers: 3, Years: collector.DefaultYears},
		a.log,
	)
	if err := sched.AddJob(refresh); err != nil {
		return nil, err
	}

	if err := sched.AddJob(jobs.NewCorpCodeSyncJob(a.collector, a.log)); err != nil {
		return nil, err
	}

	if a.memCache != nil {
		if err := sched.AddJob(jobs.NewCacheCleanupJob(a.memCache, a.log)); err != nil {
			return nil, err
		}
	}

	return sched, nil
}
