package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/wonny/stockai/dashboard/pkg/config"
	"github.com/wonny/stockai/dashboard/pkg/logger"
)

// Server represents the dashboard HTTP server
// ⭐ SSOT: 대시보드 서버 설정은 이 파일에서만
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
	config     *config.Config
}

// New creates a new dashboard server
func New(cfg *config.Config, log *logger.Logger, router http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:        ":" + cfg.Dashboard.Port,
			Handler:     router,
			ReadTimeout: 15 * time.Second,
			// 예측 요청은 백엔드 타임아웃(30s)까지 기다릴 수 있음
			WriteTimeout: config.RequestTimeout + 15*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: log,
		config: cfg,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.WithFields(map[string]interface{}{
		"port":    s.config.Dashboard.Port,
		"env":     s.config.Env,
		"backend": s.config.API.BaseURL,
	}).Info("Starting dashboard server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down dashboard server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
