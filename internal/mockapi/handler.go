package mockapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/stockai/dashboard/internal/contracts"
	"github.com/wonny/stockai/dashboard/internal/external/predictapi"
	"github.com/wonny/stockai/dashboard/pkg/logger"
)

// NewHandler serves the fixtures over HTTP in the backend's wire format:
// snake_case rankings, camelCase predictions and the shared error envelope.
func NewHandler(src *Source, log *logger.Logger) http.Handler {
	h := &handler{src: src, logger: log.Component("mockapi")}

	r := mux.NewRouter()
	r.HandleFunc("/", h.root).Methods(http.MethodGet)
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/rankings", h.rankings).Methods(http.MethodGet)
	r.HandleFunc("/predict", h.predict).Methods(http.MethodPost)

	return r
}

type handler struct {
	src    *Source
	logger *logger.Logger
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

type envelopeBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
	Retryable bool   `json:"retryable"`
}

func (h *handler) root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "다중 AI 주식 예측 시스템 API (mock)",
		"version": "1.0.0",
		"status":  "running",
	})
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	status, err := h.src.HealthCheck(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status.Status,
		"timestamp": status.Timestamp,
		"services":  map[string]interface{}{"mock": map[string]bool{"enabled": true}},
	})
}

func (h *handler) rankings(w http.ResponseWriter, r *http.Request) {
	rankings, err := h.src.GetRankings(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	items := make([]rankingItem, 0, len(rankings))
	for _, rk := range rankings {
		items = append(items, rankingItem{
			Symbol:        rk.Symbol,
			Name:          rk.Name,
			Market:        rk.Market,
			CurrentPrice:  rk.CurrentPrice,
			ChangeRate:    rk.ChangeRate,
			Rank:          rk.Rank,
			TradingValue:  rk.TradingValue,
			MiniChartData: rk.MiniChartData,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rankings":  items,
		"timestamp": h.src.timestamp(),
		"count":     len(items),
	})
}

func (h *handler) predict(w http.ResponseWriter, r *http.Request) {
	var req contracts.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Validate() != nil {
		respondJSON(w, http.StatusBadRequest, map[string]envelopeBody{"error": {
			Code:      "VALIDATION_ERROR",
			Message:   "요청 데이터가 유효하지 않습니다",
			Timestamp: h.src.timestamp(),
			Retryable: false,
		}})
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"symbol": req.Symbol,
		"market": req.Market,
	}).Debug("Mock prediction requested")

	result, err := h.src.Predict(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *handler) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := envelopeBody{
		Code:      "INTERNAL_SERVER_ERROR",
		Message:   "일시적인 오류가 발생했습니다. 잠시 후 다시 시도해주세요",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Retryable: true,
	}

	if apiErr, ok := predictapi.AsError(err); ok && apiErr.Code != "" {
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Retryable = apiErr.Retryable
		if apiErr.StatusCode != 0 {
			status = apiErr.StatusCode
		}
	}

	respondJSON(w, status, map[string]envelopeBody{"error": body})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
