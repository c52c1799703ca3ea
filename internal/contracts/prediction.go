package contracts

import (
	"fmt"
	"sort"
	"strings"
)

// Sentiment 예측 감성
type Sentiment string

const (
	SentimentPositive Sentiment = "긍정"
	SentimentNegative Sentiment = "부정"
)

// Valid reports whether s is one of the two allowed values
func (s Sentiment) Valid() bool {
	return s == SentimentPositive || s == SentimentNegative
}

// Horizon 예측 기간
type Horizon string

const (
	Horizon1D Horizon = "1d"
	Horizon1W Horizon = "1w"
	Horizon1M Horizon = "1m"
)

// Horizons returns the fixed prediction windows, shortest first
func Horizons() []Horizon {
	return []Horizon{Horizon1D, Horizon1W, Horizon1M}
}

// Label 화면 표시용 이름
func (h Horizon) Label() string {
	switch h {
	case Horizon1D:
		return "1일"
	case Horizon1W:
		return "1주"
	case Horizon1M:
		return "1개월"
	default:
		return string(h)
	}
}

// PeriodPrediction 기간별 예측
type PeriodPrediction struct {
	Price     float64   `json:"price"`
	Reason    string    `json:"reason"`
	Sentiment Sentiment `json:"sentiment"`
}

// EnsemblePrediction 종합 예측. Disagreement와 StdDev는 백엔드가 계산함
type EnsemblePrediction struct {
	PeriodPrediction
	Disagreement bool    `json:"disagreement"`
	StdDev       float64 `json:"stdDev"`
}

// PredictionResult 예측 결과 (모델별 + 종합)
type PredictionResult struct {
	Symbol       string                                  `json:"symbol"`
	Name         string                                  `json:"name"`
	CurrentPrice float64                                 `json:"currentPrice"`
	Predictions  map[string]map[Horizon]PeriodPrediction `json:"predictions"`
	Ensemble     map[Horizon]EnsemblePrediction          `json:"ensemble"`
	Timestamp    string                                  `json:"timestamp"` // ISO-8601
}

// Models returns model names in stable order
func (p *PredictionResult) Models() []string {
	models := make([]string, 0, len(p.Predictions))
	for name := range p.Predictions {
		models = append(models, name)
	}
	sort.Strings(models)
	return models
}

// Prediction returns one model's prediction for h; ok=false means no data
func (p *PredictionResult) Prediction(model string, h Horizon) (PeriodPrediction, bool) {
	periods, ok := p.Predictions[model]
	if !ok {
		return PeriodPrediction{}, false
	}
	pred, ok := periods[h]
	return pred, ok
}

// EnsembleFor returns the ensemble prediction for h; ok=false means no data
func (p *PredictionResult) EnsembleFor(h Horizon) (EnsemblePrediction, bool) {
	pred, ok := p.Ensemble[h]
	return pred, ok
}

// Validate checks model keys, sentiments and value ranges.
// Missing horizons are allowed.
func (p *PredictionResult) Validate() error {
	for model, periods := range p.Predictions {
		if strings.TrimSpace(model) == "" {
			return fmt.Errorf("empty model name")
		}
		for h, pred := range periods {
			if err := pred.validate(); err != nil {
				return fmt.Errorf("%s/%s: %w", model, h, err)
			}
		}
	}

	for h, pred := range p.Ensemble {
		if err := pred.validate(); err != nil {
			return fmt.Errorf("ensemble/%s: %w", h, err)
		}
		if pred.StdDev < 0 {
			return fmt.Errorf("ensemble/%s: negative stdDev", h)
		}
	}

	return nil
}

func (p PeriodPrediction) validate() error {
	if p.Price <= 0 {
		return fmt.Errorf("price must be positive, got %v", p.Price)
	}
	if !p.Sentiment.Valid() {
		return fmt.Errorf("unknown sentiment %q", p.Sentiment)
	}
	return nil
}
