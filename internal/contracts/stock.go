package contracts

import (
	"fmt"
	"strings"
)

// Stock 종목 식별 정보
type Stock struct {
	Symbol       string  `json:"symbol"`       // 거래소 접미사 포함 (예: 005930.KS)
	Name         string  `json:"name"`         // 종목명
	Market       string  `json:"market"`       // KOSPI / KOSDAQ
	CurrentPrice float64 `json:"currentPrice"` // 현재가
	ChangeRate   float64 `json:"changeRate"`   // 등락률 (%)
}

// StockRanking 거래대금 순위 항목
type StockRanking struct {
	Stock
	Rank          int       `json:"rank"`          // 1 = 거래대금 최상위
	TradingValue  float64   `json:"tradingValue"`  // 거래대금 (억원)
	MiniChartData []float64 `json:"miniChartData"` // 시간순 최근 가격 (스파크라인 전용)
}

// HealthStatus 백엔드 헬스 체크 응답
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// PredictRequest 예측 요청
type PredictRequest struct {
	Symbol string `json:"symbol"`
	Market string `json:"market"`
}

// Validate checks that symbol and market are present
func (r PredictRequest) Validate() error {
	if strings.TrimSpace(r.Symbol) == "" {
		return fmt.Errorf("symbol is required")
	}
	if strings.TrimSpace(r.Market) == "" {
		return fmt.Errorf("market is required")
	}
	return nil
}

// ValidateRankings checks rank uniqueness/contiguity and value ranges.
// Order is not checked: the backend owns ordering.
func ValidateRankings(rankings []StockRanking) error {
	seen := make(map[int]bool, len(rankings))

	for _, r := range rankings {
		if r.Rank < 1 || r.Rank > len(rankings) {
			return fmt.Errorf("%s: rank %d out of range 1..%d", r.Symbol, r.Rank, len(rankings))
		}
		if seen[r.Rank] {
			return fmt.Errorf("%s: duplicate rank %d", r.Symbol, r.Rank)
		}
		seen[r.Rank] = true

		if r.CurrentPrice < 0 {
			return fmt.Errorf("%s: negative current price", r.Symbol)
		}
		if r.TradingValue < 0 {
			return fmt.Errorf("%s: negative trading value", r.Symbol)
		}
	}

	return nil
}
