package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockai/dashboard/internal/api/handlers"
	"github.com/wonny/stockai/dashboard/internal/contracts"
	"github.com/wonny/stockai/dashboard/internal/dashboard"
	"github.com/wonny/stockai/dashboard/internal/external/predictapi"
	"github.com/wonny/stockai/dashboard/internal/mockapi"
	"github.com/wonny/stockai/dashboard/internal/notice"
	"github.com/wonny/stockai/dashboard/internal/scheduler"
	"github.com/wonny/stockai/dashboard/internal/scheduler/jobs"
	"github.com/wonny/stockai/dashboard/internal/store"
	"github.com/wonny/stockai/dashboard/pkg/logger"
)

// offlineAPI fails every call the way an unreachable backend does
type offlineAPI struct{}

func offline() error {
	return &predictapi.Error{Message: predictapi.MessageNetwork, Retryable: true, Kind: predictapi.KindNetwork}
}

func (offlineAPI) GetRankings(ctx context.Context) ([]contracts.StockRanking, error) {
	return nil, offline()
}

func (offlineAPI) Predict(ctx context.Context, req contracts.PredictRequest) (*contracts.PredictionResult, error) {
	return nil, offline()
}

func (offlineAPI) HealthCheck(ctx context.Context) (*contracts.HealthStatus, error) {
	return nil, offline()
}

type errorBody struct {
	Error notice.Notice `json:"error"`
}

func newTestRouter(t *testing.T, api dashboard.API, sched *scheduler.Scheduler) (http.Handler, *dashboard.Service) {
	t.Helper()
	log := logger.Nop()
	svc := dashboard.NewService(api, store.New(), log)
	router := NewRouter(
		handlers.NewDashboardHandler(svc, sched, log),
		handlers.NewStreamHandler(svc.Store(), log),
		log,
	)
	return router, svc
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t, mockapi.NewSource(), nil)

	rec := do(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "stock-dashboard", body["service"])
}

func TestRankingsRefreshAndRead(t *testing.T) {
	router, _ := newTestRouter(t, mockapi.NewSource(), nil)

	rec := do(t, router, http.MethodGet, "/api/rankings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var empty struct {
		Rankings []contracts.StockRanking `json:"rankings"`
	}
	decode(t, rec, &empty)
	assert.NotNil(t, empty.Rankings, "empty list, not null")
	assert.Empty(t, empty.Rankings)

	rec = do(t, router, http.MethodPost, "/api/rankings/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/rankings", "")
	var got struct {
		Rankings []contracts.StockRanking `json:"rankings"`
	}
	decode(t, rec, &got)
	require.Len(t, got.Rankings, 10)
	assert.Equal(t, 1, got.Rankings[0].Rank)
	assert.Equal(t, "005930.KS", got.Rankings[0].Symbol)
}

func TestRankingsRefresh_Offline(t *testing.T) {
	router, svc := newTestRouter(t, offlineAPI{}, nil)

	rec := do(t, router, http.MethodPost, "/api/rankings/refresh", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body errorBody
	decode(t, rec, &body)
	assert.Equal(t, notice.CategoryNetwork, body.Error.Category)
	assert.Equal(t, predictapi.MessageNetwork, body.Error.Message)
	assert.True(t, body.Error.Retryable)
	assert.NotEmpty(t, body.Error.Remedy)

	require.NotNil(t, svc.Store().Snapshot().Notice)

	rec = do(t, router, http.MethodDelete, "/api/notice", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, svc.Store().Snapshot().Notice)
}

func TestPredict(t *testing.T) {
	router, svc := newTestRouter(t, mockapi.NewSource(), nil)
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/rankings/refresh", "").Code)

	rec := do(t, router, http.MethodPost, "/api/predict", `{"symbol":"005930.KS","market":"KOSPI"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result contracts.PredictionResult
	decode(t, rec, &result)
	assert.Equal(t, "005930.KS", result.Symbol)
	assert.NotEmpty(t, result.Predictions)

	snap := svc.Store().Snapshot()
	require.NotNil(t, snap.SelectedStock)
	assert.Equal(t, "삼성전자", snap.SelectedStock.Name, "name filled from rankings")
	require.NotNil(t, snap.Prediction)
	assert.False(t, snap.IsLoading)

	rec = do(t, router, http.MethodPost, "/api/predict/retry", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPredict_BadInput(t *testing.T) {
	router, svc := newTestRouter(t, mockapi.NewSource(), nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"symbol":`},
		{"missing market", `{"symbol":"005930.KS"}`},
		{"blank symbol", `{"symbol":"  ","market":"KOSPI"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/predict", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body errorBody
			decode(t, rec, &body)
			assert.NotEmpty(t, body.Error.Message)
		})
	}

	assert.Nil(t, svc.Store().Snapshot().SelectedStock, "bad input does not change the selection")
}

func TestPredict_UnknownSymbol(t *testing.T) {
	router, _ := newTestRouter(t, mockapi.NewSource(), nil)

	rec := do(t, router, http.MethodPost, "/api/predict", `{"symbol":"999999.KS","market":"KOSPI"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body errorBody
	decode(t, rec, &body)
	assert.Equal(t, notice.CategoryDataCollection, body.Error.Category)
	assert.Equal(t, "DATA_NOT_FOUND", body.Error.Code)
	assert.False(t, body.Error.Retryable)
}

func TestRetry_NoSelection(t *testing.T) {
	router, _ := newTestRouter(t, mockapi.NewSource(), nil)

	rec := do(t, router, http.MethodPost, "/api/predict/retry", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestState(t *testing.T) {
	router, _ := newTestRouter(t, mockapi.NewSource(), nil)

	rec := do(t, router, http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap store.Snapshot
	decode(t, rec, &snap)
	assert.Nil(t, snap.SelectedStock)
	assert.Nil(t, snap.Prediction)
	assert.Nil(t, snap.Notice)
	assert.False(t, snap.IsLoading)
}

func TestJobs(t *testing.T) {
	router, _ := newTestRouter(t, mockapi.NewSource(), nil)

	rec := do(t, router, http.MethodGet, "/api/jobs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"jobs":[]}`, rec.Body.String())

	sched := scheduler.New(logger.Nop())
	router, svc := newTestRouter(t, mockapi.NewSource(), sched)
	require.NoError(t, sched.AddJob(jobs.NewRankingsRefreshJob(svc, time.Minute)))

	rec = do(t, router, http.MethodGet, "/api/jobs", "")
	var body struct {
		Jobs []scheduler.JobStats `json:"jobs"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Jobs, 1)
	assert.Equal(t, jobs.RankingsRefreshName, body.Jobs[0].JobName)
}

func TestMethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t, mockapi.NewSource(), nil)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/predict", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/state", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/notice", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.path, "")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestStream_PushesSnapshots(t *testing.T) {
	router, svc := newTestRouter(t, mockapi.NewSource(), nil)
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	var initial store.Snapshot
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Empty(t, initial.Rankings)

	_, err = svc.RefreshRankings(context.Background())
	require.NoError(t, err)

	// 중간 스냅샷은 건너뛸 수 있음
	for {
		var snap store.Snapshot
		require.NoError(t, conn.ReadJSON(&snap))
		if len(snap.Rankings) > 0 {
			assert.Len(t, snap.Rankings, 10)
			return
		}
	}
}
