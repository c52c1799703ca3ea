package dashboard

import (
	"context"
	"errors"

	"github.com/wonny/stockai/dashboard/internal/contracts"
	"github.com/wonny/stockai/dashboard/internal/notice"
	"github.com/wonny/stockai/dashboard/internal/store"
	"github.com/wonny/stockai/dashboard/pkg/logger"
)

// ErrNoSelection is returned when a retry is requested with nothing selected
var ErrNoSelection = errors.New("선택된 종목이 없습니다. 먼저 종목을 선택해주세요")

// API is the backend surface the dashboard needs.
// Implemented by predictapi.Client and mockapi.Source.
type API interface {
	GetRankings(ctx context.Context) ([]contracts.StockRanking, error)
	Predict(ctx context.Context, req contracts.PredictRequest) (*contracts.PredictionResult, error)
	HealthCheck(ctx context.Context) (*contracts.HealthStatus, error)
}

// Service runs dashboard actions against the API and records outcomes in the store.
// Failures are returned to the caller and also stored as a notice.
type Service struct {
	api    API
	store  *store.Store
	logger *logger.Logger
}

// NewService creates a new dashboard service
func NewService(api API, st *store.Store, log *logger.Logger) *Service {
	return &Service{
		api:    api,
		store:  st,
		logger: log.Component("dashboard"),
	}
}

// Store returns the state container the service writes to
func (s *Service) Store() *store.Store {
	return s.store
}

// RefreshRankings fetches rankings and replaces them in the store.
// Overlapping calls are allowed; the store decides which response sticks.
func (s *Service) RefreshRankings(ctx context.Context) ([]contracts.StockRanking, error) {
	seq := s.store.BeginRankings()

	rankings, err := s.api.GetRankings(ctx)
	if err != nil {
		n := notice.Classify(err)
		s.store.FailRankings(seq, n)
		s.logger.WithFields(map[string]interface{}{
			"seq":       seq,
			"category":  n.Category,
			"retryable": n.Retryable,
		}).WithError(err).Warn("Rankings refresh failed")
		return nil, err
	}

	if err := contracts.ValidateRankings(rankings); err != nil {
		s.logger.WithError(err).Warn("Rankings payload violates invariants")
	}

	if !s.store.ApplyRankings(seq, rankings) {
		s.logger.WithField("seq", seq).Debug("Discarded stale rankings response")
		return rankings, nil
	}

	s.logger.WithFields(map[string]interface{}{
		"seq":   seq,
		"count": len(rankings),
	}).Debug("Rankings refreshed")

	return rankings, nil
}

// SelectStock replaces the selection and requests its prediction
func (s *Service) SelectStock(ctx context.Context, stock contracts.Stock) (*contracts.PredictionResult, error) {
	seq := s.store.SelectStock(stock)
	return s.predict(ctx, seq, stock)
}

// RetryPrediction re-issues the prediction for the current selection.
// With nothing selected it stores a notice and returns ErrNoSelection.
func (s *Service) RetryPrediction(ctx context.Context) (*contracts.PredictionResult, error) {
	snap := s.store.Snapshot()
	if snap.SelectedStock == nil {
		s.store.SetNotice(notice.Classify(ErrNoSelection))
		return nil, ErrNoSelection
	}

	seq := s.store.BeginPrediction()
	return s.predict(ctx, seq, *snap.SelectedStock)
}

func (s *Service) predict(ctx context.Context, seq uint64, stock contracts.Stock) (*contracts.PredictionResult, error) {
	log := s.logger.WithFields(map[string]interface{}{
		"symbol": stock.Symbol,
		"market": stock.Market,
		"seq":    seq,
	})

	result, err := s.api.Predict(ctx, contracts.PredictRequest{Symbol: stock.Symbol, Market: stock.Market})
	if err != nil {
		n := notice.Classify(err)
		s.store.FailPrediction(seq, n)
		log.WithFields(map[string]interface{}{
			"category":  n.Category,
			"retryable": n.Retryable,
		}).WithError(err).Warn("Prediction failed")
		return nil, err
	}

	if err := result.Validate(); err != nil {
		log.WithError(err).Warn("Prediction payload violates invariants")
	}

	if !s.store.ApplyPrediction(seq, result) {
		log.Debug("Discarded stale prediction response")
		return result, nil
	}

	log.WithField("models", len(result.Predictions)).Info("Prediction completed")
	return result, nil
}

// Probe runs the startup health check. Failures are logged, never returned.
func (s *Service) Probe(ctx context.Context) *contracts.HealthStatus {
	status, err := s.api.HealthCheck(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Backend health check failed; continuing")
		return nil
	}

	s.logger.WithFields(map[string]interface{}{
		"status":    status.Status,
		"timestamp": status.Timestamp,
	}).Info("Backend health check passed")
	return status
}

// DismissNotice clears the visible notice
func (s *Service) DismissNotice() {
	s.store.DismissNotice()
}
