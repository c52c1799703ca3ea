package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/stockai/dashboard/internal/mockapi"
	"github.com/wonny/stockai/dashboard/pkg/logger"
)

// mockServerCmd represents the mock-server command
var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "목업 예측 백엔드 시작",
	Long: `예측 백엔드와 같은 형식으로 목업 데이터를 제공하는 서버를 시작합니다.
백엔드 없이 대시보드를 개발할 때 API_BASE_URL을 이 서버로 지정하세요.

Endpoints:
  GET  /health    - Health check
  GET  /rankings  - 거래대금 상위 10종목 (snake_case)
  POST /predict   - 모델별 예측 + 종합 예측

Example:
  go run ./cmd/dashboard mock-server
  go run ./cmd/dashboard mock-server --port 8001`,
	RunE: runMockServer,
}

var (
	mockPort string
)

func init() {
	rootCmd.AddCommand(mockServerCmd)

	mockServerCmd.Flags().StringVar(&mockPort, "port", "", "목업 서버 포트 (기본값 MOCK_SERVER_PORT)")
}

func runMockServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if mockPort != "" {
		cfg.Dashboard.MockServerPort = mockPort
	}

	log := logger.New(cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Dashboard.MockServerPort,
		Handler:      mockapi.NewHandler(mockapi.NewSource(), log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start mock server")
		}
	}()

	log.WithField("port", cfg.Dashboard.MockServerPort).Info("Mock backend started")
	fmt.Printf("\n✅ Mock backend running on http://localhost:%s\n", cfg.Dashboard.MockServerPort)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("mock server shutdown failed: %w", err)
	}

	return nil
}
