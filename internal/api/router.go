package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/stockai/dashboard/internal/api/handlers"
	"github.com/wonny/stockai/dashboard/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(dashboardHandler *handlers.DashboardHandler, streamHandler *handlers.StreamHandler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Live state
	r.HandleFunc("/ws", streamHandler.ServeWS).Methods("GET")

	// API 라우트는 루트 라우터에 직접 등록 (subrouter는 메서드 불일치를 404로 응답)
	// State
	r.HandleFunc("/api/state", dashboardHandler.GetState).Methods("GET")
	r.HandleFunc("/api/notice", dashboardHandler.DismissNotice).Methods("DELETE")
	r.HandleFunc("/api/jobs", dashboardHandler.GetJobs).Methods("GET")

	// Rankings
	r.HandleFunc("/api/rankings", dashboardHandler.GetRankings).Methods("GET")
	r.HandleFunc("/api/rankings/refresh", dashboardHandler.RefreshRankings).Methods("POST")

	// Prediction
	r.HandleFunc("/api/predict", dashboardHandler.Predict).Methods("POST")
	r.HandleFunc("/api/predict/retry", dashboardHandler.RetryPrediction).Methods("POST")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns dashboard liveness (not the backend's)
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "stock-dashboard",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
