package predictapi

import "github.com/wonny/stockai/dashboard/internal/contracts"

// rankingsResponse GET /rankings (snake_case)
type rankingsResponse struct {
	Rankings  []rankingItem `json:"rankings"`
	Timestamp string        `json:"timestamp,omitempty"`
	Count     int           `json:"count,omitempty"`
}

type rankingItem struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Market        string    `json:"market"`
	CurrentPrice  float64   `json:"current_price"`
	ChangeRate    float64   `json:"change_rate"`
	Rank          int       `json:"rank"`
	TradingValue  float64   `json:"trading_value"`
	MiniChartData []float64 `json:"mini_chart_data"`
}

func (r rankingItem) toContract() contracts.StockRanking {
	chart := r.MiniChartData
	if chart == nil {
		chart = []float64{}
	}

	return contracts.StockRanking{
		Stock: contracts.Stock{
			Symbol:       r.Symbol,
			Name:         r.Name,
			Market:       r.Market,
			CurrentPrice: r.CurrentPrice,
			ChangeRate:   r.ChangeRate,
		},
		Rank:          r.Rank,
		TradingValue:  r.TradingValue,
		MiniChartData: chart,
	}
}

// predictionResponse POST /predict.
// camelCase is authoritative; the snake_case twins cover backends that still emit them.
type predictionResponse struct {
	Symbol            string                                                      `json:"symbol"`
	Name              string                                                      `json:"name"`
	CurrentPrice      *float64                                                    `json:"currentPrice"`
	CurrentPriceSnake *float64                                                    `json:"current_price"`
	Predictions       map[string]map[contracts.Horizon]contracts.PeriodPrediction `json:"predictions"`
	Ensemble          map[contracts.Horizon]ensembleItem                          `json:"ensemble"`
	Timestamp         string                                                      `json:"timestamp"`
}

type ensembleItem struct {
	Price        float64             `json:"price"`
	Reason       string              `json:"reason"`
	Sentiment    contracts.Sentiment `json:"sentiment"`
	Disagreement bool                `json:"disagreement"`
	StdDev       *float64            `json:"stdDev"`
	StdDevSnake  *float64            `json:"std_dev"`
}

func (p predictionResponse) toContract() *contracts.PredictionResult {
	result := &contracts.PredictionResult{
		Symbol:       p.Symbol,
		Name:         p.Name,
		CurrentPrice: firstOf(p.CurrentPrice, p.CurrentPriceSnake),
		Predictions:  p.Predictions,
		Ensemble:     make(map[contracts.Horizon]contracts.EnsemblePrediction, len(p.Ensemble)),
		Timestamp:    p.Timestamp,
	}
	if result.Predictions == nil {
		result.Predictions = map[string]map[contracts.Horizon]contracts.PeriodPrediction{}
	}

	for h, e := range p.Ensemble {
		result.Ensemble[h] = contracts.EnsemblePrediction{
			PeriodPrediction: contracts.PeriodPrediction{
				Price:     e.Price,
				Reason:    e.Reason,
				Sentiment: e.Sentiment,
			},
			Disagreement: e.Disagreement,
			StdDev:       firstOf(e.StdDev, e.StdDevSnake),
		}
	}

	return result
}

func firstOf(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}
