package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/stockai/dashboard/internal/api"
	"github.com/wonny/stockai/dashboard/internal/api/handlers"
	"github.com/wonny/stockai/dashboard/internal/scheduler"
	"github.com/wonny/stockai/dashboard/internal/scheduler/jobs"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "대시보드 서버 시작",
	Long: `대시보드 BFF 서버를 시작합니다.

이 명령어는:
- 백엔드 헬스 체크 (실패해도 계속 진행)
- 거래대금 순위 주기 갱신 (RANKING_REFRESH_INTERVAL, 기본 60초)
- 대시보드 상태 조회/조작 엔드포인트 제공
- WebSocket으로 상태 변경 푸시

Endpoints:
  GET    /health                - Health check
  GET    /api/state             - 대시보드 상태
  GET    /api/rankings          - 거래대금 순위
  POST   /api/rankings/refresh  - 순위 즉시 갱신
  POST   /api/predict           - 종목 선택 + 예측
  POST   /api/predict/retry     - 예측 재시도
  DELETE /api/notice            - 알림 닫기
  GET    /api/jobs              - 백그라운드 작업 상태
  GET    /ws                    - 상태 스트림

Example:
  go run ./cmd/dashboard serve
  go run ./cmd/dashboard serve --port 3001 --mock`,
	RunE: runServe,
}

var (
	servePort string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	// Flags
	serveCmd.Flags().StringVar(&servePort, "port", "", "대시보드 서버 포트 (기본값 DASHBOARD_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Stock AI Dashboard ===")

	// 1. Config, logger, data source, store
	cfg, log, svc, err := newService()
	if err != nil {
		return err
	}

	if servePort != "" {
		cfg.Dashboard.Port = servePort
	}

	log.WithFields(map[string]interface{}{
		"port":           cfg.Dashboard.Port,
		"backend":        cfg.API.BaseURL,
		"mock":           cfg.Dashboard.UseMock,
		"refresh":        cfg.Dashboard.RefreshInterval.String(),
		"sequence_guard": cfg.Dashboard.SequenceGuard,
	}).Info("Initializing dashboard server")

	// 2. Startup probe (결과와 무관하게 진행)
	svc.Probe(cmd.Context())

	// 3. Background refresh
	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewRankingsRefreshJob(svc, cfg.Dashboard.RefreshInterval)); err != nil {
		return fmt.Errorf("add refresh job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// 첫 갱신은 주기를 기다리지 않음
	if err := sched.RunJob(jobs.RankingsRefreshName); err != nil {
		return fmt.Errorf("initial refresh: %w", err)
	}

	// 4. Handlers, router, server
	dashboardHandler := handlers.NewDashboardHandler(svc, sched, log)
	streamHandler := handlers.NewStreamHandler(svc.Store(), log)
	router := api.NewRouter(dashboardHandler, streamHandler, log)
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("Dashboard server started successfully")
	fmt.Printf("\n✅ Dashboard running on http://localhost:%s\n", cfg.Dashboard.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
