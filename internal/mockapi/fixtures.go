package mockapi

import (
	"math"
	"sort"

	"github.com/wonny/stockai/dashboard/internal/contracts"
)

// listing 목업 종목 (백엔드 순위 유니버스와 동일한 15종목)
type listing struct {
	symbol       string
	name         string
	market       string
	price        float64
	changeRate   float64
	tradingValue float64 // 억원
}

var listings = []listing{
	{"005930.KS", "삼성전자", "KOSPI", 70000, 1.5, 5000},
	{"000660.KS", "SK하이닉스", "KOSPI", 132000, 2.3, 4200},
	{"035420.KS", "NAVER", "KOSPI", 198500, -0.8, 1300},
	{"051910.KS", "LG화학", "KOSPI", 412000, -1.2, 980},
	{"006400.KS", "삼성SDI", "KOSPI", 389000, 0.6, 1150},
	{"035720.KS", "카카오", "KOSPI", 47850, -2.1, 1450},
	{"005380.KS", "현대차", "KOSPI", 241000, 0.9, 1720},
	{"068270.KS", "셀트리온", "KOSPI", 178900, 1.1, 860},
	{"207940.KS", "삼성바이오로직스", "KOSPI", 781000, -0.4, 640},
	{"005490.KS", "POSCO홀딩스", "KOSPI", 392500, 3.4, 2100},
	{"373220.KQ", "LG에너지솔루션", "KOSDAQ", 401000, 1.8, 2650},
	{"247540.KQ", "에코프로비엠", "KOSDAQ", 245500, 4.7, 3100},
	{"086520.KQ", "에코프로", "KOSDAQ", 612000, 5.2, 3400},
	{"091990.KQ", "셀트리온헬스케어", "KOSDAQ", 71200, 0.2, 420},
	{"096770.KQ", "SK이노베이션", "KOSDAQ", 118300, -1.6, 710},
}

// rankingLimit 백엔드와 동일하게 상위 10개만
const rankingLimit = 10

// disagreementRatio σ가 평균가의 이 비율을 넘으면 의견 불일치
const disagreementRatio = 0.2

// modelDrifts 모델별 기간 배율 (1d, 1w, 1m)
var modelDrifts = map[string][3]float64{
	"gpt-4o":  {1.010, 1.030, 1.060},
	"claude":  {0.995, 1.010, 1.040},
	"gemini":  {1.005, 1.020, 1.080},
	"llama3":  {0.990, 0.980, 0.970},
	"qwen2.5": {1.000, 1.015, 1.050},
}

var horizonReasons = map[contracts.Horizon]string{
	contracts.Horizon1D: "단기 수급과 거래대금 추이를 반영한 예측",
	contracts.Horizon1W: "최근 뉴스 감성과 기술적 지표(RSI, MA20) 기반 예측",
	contracts.Horizon1M: "업황 전망과 실적 모멘텀을 고려한 예측",
}

func findListing(symbol string) (listing, bool) {
	for _, l := range listings {
		if l.symbol == symbol {
			return l, true
		}
	}
	return listing{}, false
}

// buildRankings sorts by trading value and ranks from 1
func buildRankings() []contracts.StockRanking {
	sorted := make([]listing, len(listings))
	copy(sorted, listings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].tradingValue > sorted[j].tradingValue
	})
	if len(sorted) > rankingLimit {
		sorted = sorted[:rankingLimit]
	}

	rankings := make([]contracts.StockRanking, 0, len(sorted))
	for i, l := range sorted {
		rankings = append(rankings, contracts.StockRanking{
			Stock: contracts.Stock{
				Symbol:       l.symbol,
				Name:         l.name,
				Market:       l.market,
				CurrentPrice: l.price,
				ChangeRate:   l.changeRate,
			},
			Rank:          i + 1,
			TradingValue:  l.tradingValue,
			MiniChartData: miniChart(l.price),
		})
	}
	return rankings
}

func miniChart(price float64) []float64 {
	factors := []float64{0.98, 0.99, 1.00, 1.01, 1.00}
	chart := make([]float64, len(factors))
	for i, f := range factors {
		chart[i] = roundPrice(price * f)
	}
	return chart
}

// buildPrediction derives deterministic per-model predictions and the ensemble
func buildPrediction(l listing, timestamp string) *contracts.PredictionResult {
	result := &contracts.PredictionResult{
		Symbol:       l.symbol,
		Name:         l.name,
		CurrentPrice: l.price,
		Predictions:  make(map[string]map[contracts.Horizon]contracts.PeriodPrediction, len(modelDrifts)),
		Ensemble:     make(map[contracts.Horizon]contracts.EnsemblePrediction, 3),
		Timestamp:    timestamp,
	}

	for model, drifts := range modelDrifts {
		periods := make(map[contracts.Horizon]contracts.PeriodPrediction, 3)
		for i, h := range contracts.Horizons() {
			price := roundPrice(l.price * drifts[i])
			periods[h] = contracts.PeriodPrediction{
				Price:     price,
				Reason:    horizonReasons[h],
				Sentiment: sentimentFor(price, l.price),
			}
		}
		result.Predictions[model] = periods
	}

	for _, h := range contracts.Horizons() {
		result.Ensemble[h] = ensembleFor(result, h, l.price)
	}

	return result
}

func ensembleFor(result *contracts.PredictionResult, h contracts.Horizon, current float64) contracts.EnsemblePrediction {
	prices := make([]float64, 0, len(result.Predictions))
	positive := 0
	for _, model := range result.Models() {
		p, ok := result.Prediction(model, h)
		if !ok {
			continue
		}
		prices = append(prices, p.Price)
		if p.Sentiment == contracts.SentimentPositive {
			positive++
		}
	}

	mean := 0.0
	for _, p := range prices {
		mean += p
	}
	mean /= float64(len(prices))

	// 표본 표준편차
	variance := 0.0
	for _, p := range prices {
		variance += (p - mean) * (p - mean)
	}
	stdDev := 0.0
	if len(prices) > 1 {
		stdDev = math.Sqrt(variance / float64(len(prices)-1))
	}

	sentiment := contracts.SentimentNegative
	if positive*2 > len(prices) {
		sentiment = contracts.SentimentPositive
	}

	return contracts.EnsemblePrediction{
		PeriodPrediction: contracts.PeriodPrediction{
			Price:     roundPrice(mean),
			Reason:    "모델 예측 평균 (감성 다수결)",
			Sentiment: sentiment,
		},
		Disagreement: stdDev > mean*disagreementRatio,
		StdDev:       math.Round(stdDev*100) / 100,
	}
}

func sentimentFor(predicted, current float64) contracts.Sentiment {
	if predicted >= current {
		return contracts.SentimentPositive
	}
	return contracts.SentimentNegative
}

func roundPrice(v float64) float64 {
	return math.Round(v)
}
