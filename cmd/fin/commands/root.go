package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	accountsFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fin",
	Short: "Aegis Fin - DART 기반 재무비율/재무지표 서비스",
	Long: `Aegis Fin Unified CLI

DART 단일회사 전체 재무제표를 수집해
수익성/성장성/안정성 지표를 다년도로 계산합니다.

Usage:
  go run ./cmd/fin [command]

Examples:
  go run ./cmd/fin api
  go run ./cmd/fin fetcher corpcodes
  go run ./cmd/fin fetcher financials 삼성전자 --years 2023,2022
  go run ./cmd/fin metrics 삼성전자
  go run ./cmd/fin test-db --migrate`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Ctrl+C / SIGTERM은 command context 취소로 전달
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&accountsFile, "accounts", "", "account vocabulary YAML (default: FIN_ACCOUNTS_FILE or built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug log level)")
}
