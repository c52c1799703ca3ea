package mockapi

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockai/dashboard/internal/contracts"
	"github.com/wonny/stockai/dashboard/internal/external/predictapi"
	"github.com/wonny/stockai/dashboard/pkg/config"
	"github.com/wonny/stockai/dashboard/pkg/httputil"
	"github.com/wonny/stockai/dashboard/pkg/logger"
)

func TestSource_Rankings(t *testing.T) {
	rankings, err := NewSource().GetRankings(context.Background())
	require.NoError(t, err)

	require.Len(t, rankings, rankingLimit)
	require.NoError(t, contracts.ValidateRankings(rankings))

	assert.Equal(t, "005930.KS", rankings[0].Symbol, "highest trading value first")
	for i := 1; i < len(rankings); i++ {
		assert.GreaterOrEqual(t, rankings[i-1].TradingValue, rankings[i].TradingValue)
	}
	assert.Len(t, rankings[0].MiniChartData, 5)
}

func TestSource_Predict(t *testing.T) {
	result, err := NewSource().Predict(context.Background(), contracts.PredictRequest{Symbol: "005930.KS", Market: "KOSPI"})
	require.NoError(t, err)

	require.NoError(t, result.Validate())
	assert.Equal(t, "삼성전자", result.Name)
	assert.Len(t, result.Models(), len(modelDrifts))

	for _, h := range contracts.Horizons() {
		ens, ok := result.EnsembleFor(h)
		require.True(t, ok, h)
		assert.Greater(t, ens.StdDev, 0.0)
		assert.False(t, ens.Disagreement)
	}

	p, ok := result.Prediction("llama3", contracts.Horizon1M)
	require.True(t, ok)
	assert.Equal(t, contracts.SentimentNegative, p.Sentiment)
}

func TestSource_PredictErrors(t *testing.T) {
	src := NewSource()

	_, err := src.Predict(context.Background(), contracts.PredictRequest{Symbol: "999999.KS", Market: "KOSPI"})
	apiErr, ok := predictapi.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "DATA_NOT_FOUND", apiErr.Code)
	assert.False(t, apiErr.Retryable)

	_, err = src.Predict(context.Background(), contracts.PredictRequest{Symbol: "005930.KS"})
	apiErr, ok = predictapi.AsError(err)
	require.True(t, ok)
	assert.Equal(t, predictapi.KindInvalid, apiErr.Kind)
}

func TestSource_ContextErrorsMatchClient(t *testing.T) {
	src := NewSource()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.GetRankings(canceled)
	apiErr, ok := predictapi.AsError(err)
	require.True(t, ok)
	assert.Equal(t, predictapi.KindNetwork, apiErr.Kind)
	assert.True(t, apiErr.Retryable)

	expired, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err = src.Predict(expired, contracts.PredictRequest{Symbol: "005930.KS", Market: "KOSPI"})
	apiErr, ok = predictapi.AsError(err)
	require.True(t, ok)
	assert.Equal(t, predictapi.KindTimeout, apiErr.Kind)
	assert.Equal(t, predictapi.MessageTimeout, apiErr.Message)
	assert.True(t, apiErr.Retryable)

	_, err = src.HealthCheck(expired)
	assert.True(t, predictapi.IsRetryable(err))
}

// The handler speaks the backend wire format, so the real client can read it.
func TestHandler_RoundTripThroughClient(t *testing.T) {
	server := httptest.NewServer(NewHandler(NewSource(), logger.Nop()))
	defer server.Close()

	cfg := &config.Config{Env: "development", API: config.APIConfig{BaseURL: server.URL}}
	client := predictapi.NewClient(cfg, httputil.New(cfg, logger.Nop()), logger.Nop())
	ctx := context.Background()

	rankings, err := client.GetRankings(ctx)
	require.NoError(t, err)
	direct, _ := NewSource().GetRankings(ctx)
	assert.Equal(t, direct, rankings)

	result, err := client.Predict(ctx, contracts.PredictRequest{Symbol: "000660.KS", Market: "KOSPI"})
	require.NoError(t, err)
	assert.Equal(t, "SK하이닉스", result.Name)
	assert.Equal(t, 132000.0, result.CurrentPrice)

	health, err := client.HealthCheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)

	_, err = client.Predict(ctx, contracts.PredictRequest{Symbol: "999999.KS", Market: "KOSPI"})
	apiErr, ok := predictapi.AsError(err)
	require.True(t, ok)
	assert.Equal(t, predictapi.KindServer, apiErr.Kind)
	assert.Equal(t, "DATA_NOT_FOUND", apiErr.Code)
	assert.Equal(t, 404, apiErr.StatusCode)
}
