package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	env     string
	verbose bool
	useMock bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Stock AI 대시보드 - 거래대금 순위와 AI 주가 예측",
	Long: `Stock AI Dashboard CLI

예측 백엔드(/rankings, /predict, /health)를 호출하는 대시보드.
브라우저용 BFF 서버와 터미널 화면을 함께 제공합니다.

Usage:
  go run ./cmd/dashboard [command]

Examples:
  go run ./cmd/dashboard serve
  go run ./cmd/dashboard rankings
  go run ./cmd/dashboard predict 005930.KS
  go run ./cmd/dashboard watch --mock
  go run ./cmd/dashboard mock-server`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment (development|staging|production), 기본값은 ENV")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (요청/응답 로그)")
	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false, "백엔드 대신 목업 데이터 사용 (USE_MOCK_DATA)")
}
