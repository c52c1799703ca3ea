package mockapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/wonny/stockai/dashboard/internal/contracts"
	"github.com/wonny/stockai/dashboard/internal/external/predictapi"
)

// Source serves fixture data in-process (USE_MOCK_DATA=true).
// It has the same method set as predictapi.Client.
type Source struct {
	now func() time.Time
}

// NewSource creates a fixture source
func NewSource() *Source {
	return &Source{now: time.Now}
}

// GetRankings returns the fixture ranking, top 10 by trading value
func (s *Source) GetRankings(ctx context.Context) ([]contracts.StockRanking, error) {
	if err := ctx.Err(); err != nil {
		return nil, predictapi.TransportError(err)
	}
	return buildRankings(), nil
}

// Predict returns a deterministic prediction for a known symbol
func (s *Source) Predict(ctx context.Context, req contracts.PredictRequest) (*contracts.PredictionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, predictapi.TransportError(err)
	}
	if err := req.Validate(); err != nil {
		return nil, &predictapi.Error{Message: err.Error(), Kind: predictapi.KindInvalid}
	}

	l, ok := findListing(req.Symbol)
	if !ok {
		return nil, notFound(req.Symbol)
	}
	return buildPrediction(l, s.timestamp()), nil
}

// HealthCheck always reports healthy
func (s *Source) HealthCheck(ctx context.Context) (*contracts.HealthStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, predictapi.TransportError(err)
	}
	return &contracts.HealthStatus{Status: "healthy", Timestamp: s.timestamp()}, nil
}

func (s *Source) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func notFound(symbol string) *predictapi.Error {
	return &predictapi.Error{
		Message:    fmt.Sprintf("종목 데이터를 찾을 수 없습니다: %s", symbol),
		Kind:       predictapi.KindServer,
		Code:       "DATA_NOT_FOUND",
		StatusCode: http.StatusNotFound,
	}
}
