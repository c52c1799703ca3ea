package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleResult() *PredictionResult {
	return &PredictionResult{
		Symbol:       "005930.KS",
		Name:         "삼성전자",
		CurrentPrice: 70000,
		Predictions: map[string]map[Horizon]PeriodPrediction{
			"gpt-4o": {
				Horizon1D: {Price: 70500, Reason: "반도체 업황 개선", Sentiment: SentimentPositive},
				Horizon1W: {Price: 71000, Reason: "외국인 순매수", Sentiment: SentimentPositive},
			},
			"claude": {
				Horizon1D: {Price: 69500, Reason: "단기 과열", Sentiment: SentimentNegative},
			},
		},
		Ensemble: map[Horizon]EnsemblePrediction{
			Horizon1D: {
				PeriodPrediction: PeriodPrediction{Price: 70000, Reason: "혼조", Sentiment: SentimentPositive},
				StdDev:           500,
			},
		},
		Timestamp: "2026-01-08T09:00:00Z",
	}
}

func TestSentiment_Valid(t *testing.T) {
	assert.True(t, SentimentPositive.Valid())
	assert.True(t, SentimentNegative.Valid())
	assert.False(t, Sentiment("중립").Valid())
	assert.False(t, Sentiment("").Valid())
}

func TestHorizons(t *testing.T) {
	assert.Equal(t, []Horizon{"1d", "1w", "1m"}, Horizons())
	assert.Equal(t, "1개월", Horizon1M.Label())
}

func TestPredictionResult_Models(t *testing.T) {
	assert.Equal(t, []string{"claude", "gpt-4o"}, sampleResult().Models())
}

func TestPredictionResult_MissingHorizonIsNoData(t *testing.T) {
	result := sampleResult()

	_, ok := result.Prediction("claude", Horizon1M)
	assert.False(t, ok)

	_, ok = result.Prediction("unknown", Horizon1D)
	assert.False(t, ok)

	pred, ok := result.Prediction("gpt-4o", Horizon1W)
	assert.True(t, ok)
	assert.Equal(t, 71000.0, pred.Price)

	_, ok = result.EnsembleFor(Horizon1W)
	assert.False(t, ok)

	assert.NoError(t, result.Validate())
}

func TestPredictionResult_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PredictionResult)
	}{
		{"empty model name", func(r *PredictionResult) {
			r.Predictions[""] = map[Horizon]PeriodPrediction{}
		}},
		{"unknown sentiment", func(r *PredictionResult) {
			r.Predictions["claude"][Horizon1W] = PeriodPrediction{Price: 1, Sentiment: "중립"}
		}},
		{"non-positive price", func(r *PredictionResult) {
			r.Predictions["claude"][Horizon1W] = PeriodPrediction{Price: 0, Sentiment: SentimentPositive}
		}},
		{"negative stddev", func(r *PredictionResult) {
			e := r.Ensemble[Horizon1D]
			e.StdDev = -1
			r.Ensemble[Horizon1D] = e
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sampleResult()
			tt.mutate(result)
			assert.Error(t, result.Validate())
		})
	}
}
