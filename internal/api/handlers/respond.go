package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/stockai/dashboard/internal/dashboard"
	"github.com/wonny/stockai/dashboard/internal/external/predictapi"
	"github.com/wonny/stockai/dashboard/internal/notice"
)

// errorResponse is the body of every failed dashboard request
type errorResponse struct {
	Error *notice.Notice `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes err as a classified notice.
// 잘못된 입력은 400, 재시도 가능한 백엔드 오류는 503, 나머지는 502
func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusFor(err), errorResponse{Error: notice.Classify(err)})
}

// respondBadRequest writes err as a notice with 400
func respondBadRequest(w http.ResponseWriter, err error) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: notice.Classify(err)})
}

func statusFor(err error) int {
	if errors.Is(err, dashboard.ErrNoSelection) {
		return http.StatusBadRequest
	}
	if apiErr, ok := predictapi.AsError(err); ok && apiErr.Kind == predictapi.KindInvalid {
		return http.StatusBadRequest
	}
	if predictapi.IsRetryable(err) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}
