package contracts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ranking(symbol string, rank int) StockRanking {
	return StockRanking{
		Stock: Stock{Symbol: symbol, Name: symbol, Market: "KOSPI", CurrentPrice: 1000},
		Rank:  rank,
	}
}

func TestPredictRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     PredictRequest
		wantErr bool
	}{
		{"valid", PredictRequest{Symbol: "005930.KS", Market: "KOSPI"}, false},
		{"missing symbol", PredictRequest{Market: "KOSPI"}, true},
		{"blank symbol", PredictRequest{Symbol: "  ", Market: "KOSPI"}, true},
		{"missing market", PredictRequest{Symbol: "005930.KS"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRankings(t *testing.T) {
	tests := []struct {
		name     string
		rankings []StockRanking
		wantErr  bool
	}{
		{"empty", nil, false},
		{"contiguous", []StockRanking{ranking("A", 1), ranking("B", 2), ranking("C", 3)}, false},
		{"backend order kept", []StockRanking{ranking("B", 2), ranking("A", 1)}, false},
		{"duplicate", []StockRanking{ranking("A", 1), ranking("B", 1)}, true},
		{"gap", []StockRanking{ranking("A", 1), ranking("B", 3)}, true},
		{"zero rank", []StockRanking{ranking("A", 0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRankings(tt.rankings)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStockRanking_JSONIsFlat(t *testing.T) {
	r := StockRanking{
		Stock:         Stock{Symbol: "005930.KS", Name: "삼성전자", Market: "KOSPI", CurrentPrice: 70000, ChangeRate: 1.5},
		Rank:          1,
		TradingValue:  5000,
		MiniChartData: []float64{69000, 69500, 70000},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"symbol": "005930.KS",
		"name": "삼성전자",
		"market": "KOSPI",
		"currentPrice": 70000,
		"changeRate": 1.5,
		"rank": 1,
		"tradingValue": 5000,
		"miniChartData": [69000, 69500, 70000]
	}`, string(data))
}
