package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/wonny/stockai/dashboard/internal/contracts"
	"github.com/wonny/stockai/dashboard/internal/dashboard"
	"github.com/wonny/stockai/dashboard/internal/scheduler"
	"github.com/wonny/stockai/dashboard/pkg/logger"
)

// DashboardHandler exposes dashboard actions and state over HTTP
// ⭐ SSOT: 대시보드 API 핸들러는 이 구조체에서만
type DashboardHandler struct {
	service   *dashboard.Service
	scheduler *scheduler.Scheduler
	logger    *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler.
// sched may be nil when no background refresh is running.
func NewDashboardHandler(service *dashboard.Service, sched *scheduler.Scheduler, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		service:   service,
		scheduler: sched,
		logger:    log.Component("api"),
	}
}

// predictBody is the body of POST /api/predict
type predictBody struct {
	Symbol string `json:"symbol"`
	Market string `json:"market"`
	Name   string `json:"name,omitempty"`
}

// GetState returns the full dashboard state
// GET /api/state
func (h *DashboardHandler) GetState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Store().Snapshot())
}

// GetRankings returns the rankings currently held by the store
// GET /api/rankings
func (h *DashboardHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	snap := h.service.Store().Snapshot()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rankings":  snap.Rankings,
		"updatedAt": snap.RankingsUpdatedAt,
	})
}

// RefreshRankings fetches rankings from the backend now
// POST /api/rankings/refresh
func (h *DashboardHandler) RefreshRankings(w http.ResponseWriter, r *http.Request) {
	rankings, err := h.service.RefreshRankings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rankings": rankings,
	})
}

// Predict selects a stock and returns its prediction
// POST /api/predict
func (h *DashboardHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var body predictBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}

	req := contracts.PredictRequest{Symbol: body.Symbol, Market: body.Market}
	if err := req.Validate(); err != nil {
		respondBadRequest(w, err)
		return
	}

	stock := contracts.Stock{Symbol: body.Symbol, Market: body.Market, Name: body.Name}
	if stock.Name == "" {
		stock.Name = h.lookupName(body.Symbol)
	}

	result, err := h.service.SelectStock(r.Context(), stock)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// RetryPrediction re-runs the prediction for the selected stock
// POST /api/predict/retry
func (h *DashboardHandler) RetryPrediction(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.RetryPrediction(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// DismissNotice clears the visible notice
// DELETE /api/notice
func (h *DashboardHandler) DismissNotice(w http.ResponseWriter, r *http.Request) {
	h.service.DismissNotice()
	w.WriteHeader(http.StatusNoContent)
}

// GetJobs returns background job statistics
// GET /api/jobs
func (h *DashboardHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	jobs := []scheduler.JobStats{}

	if h.scheduler != nil {
		for _, st := range h.scheduler.GetJobStats() {
			jobs = append(jobs, st)
		}
		sort.Slice(jobs, func(i, j int) bool { return jobs[i].JobName < jobs[j].JobName })
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs": jobs,
	})
}

// lookupName fills the display name from the current rankings
func (h *DashboardHandler) lookupName(symbol string) string {
	for _, r := range h.service.Store().Snapshot().Rankings {
		if r.Symbol == symbol {
			return r.Name
		}
	}
	return ""
}
