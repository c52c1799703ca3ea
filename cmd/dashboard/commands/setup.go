package commands

import (
	"fmt"

	"github.com/wonny/stockai/dashboard/internal/dashboard"
	"github.com/wonny/stockai/dashboard/internal/external/predictapi"
	"github.com/wonny/stockai/dashboard/internal/mockapi"
	"github.com/wonny/stockai/dashboard/internal/store"
	"github.com/wonny/stockai/dashboard/pkg/config"
	"github.com/wonny/stockai/dashboard/pkg/httputil"
	"github.com/wonny/stockai/dashboard/pkg/logger"
)

// loadConfig loads config and applies global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.API.Debug = true
		cfg.LogLevel = "debug"
	}
	if useMock {
		cfg.Dashboard.UseMock = true
	}

	return cfg, nil
}

// newAPI picks the data source: fixtures in mock mode, the backend otherwise
func newAPI(cfg *config.Config, log *logger.Logger) dashboard.API {
	if cfg.Dashboard.UseMock {
		log.Info("Using mock data source")
		return mockapi.NewSource()
	}

	httpClient := httputil.New(cfg, log)
	return predictapi.NewClient(cfg, httpClient, log)
}

// newService wires config, logger, data source and store
func newService() (*config.Config, *logger.Logger, *dashboard.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	log := logger.New(cfg)
	st := store.New(store.WithSequenceGuard(cfg.Dashboard.SequenceGuard))
	svc := dashboard.NewService(newAPI(cfg, log), st, log)

	return cfg, log, svc, nil
}
