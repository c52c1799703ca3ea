package predictapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// Kind 실패 분류
type Kind string

const (
	KindNetwork   Kind = "network"   // 응답 자체를 받지 못함
	KindTimeout   Kind = "timeout"   // 제한 시간 내 응답 없음
	KindServer    Kind = "server"    // 서버가 에러 envelope로 응답
	KindMalformed Kind = "malformed" // envelope 없음 또는 해석 불가
	KindInvalid   Kind = "invalid"   // 요청 자체가 잘못됨 (전송 안 함)
)

// User-facing messages for failures without a server-provided text
const (
	MessageNetwork = "네트워크 연결을 확인해주세요"
	MessageTimeout = "요청 시간 초과: 서버 응답이 지연되고 있습니다. 잠시 후 다시 시도해주세요"
)

// Error is the single failure shape exposed by the client.
// Message and Retryable are the contract; the rest is best effort.
type Error struct {
	Message    string
	Retryable  bool
	Kind       Kind
	Code       string // envelope code (서버 응답일 때만)
	Details    string
	StatusCode int // 0이면 응답 없음
	cause      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// AsError extracts a classified client error from err
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsRetryable reports whether the failed call may succeed if re-issued unchanged
func IsRetryable(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Retryable
}

// errorEnvelope 백엔드 공통 에러 응답
// {"error": {"code", "message", "details?", "timestamp?", "retryable?"}}
type errorEnvelope struct {
	Error *struct {
		Code      string          `json:"code"`
		Message   string          `json:"message"`
		Details   json.RawMessage `json:"details,omitempty"`
		Timestamp string          `json:"timestamp,omitempty"`
		Retryable *bool           `json:"retryable,omitempty"`
	} `json:"error"`
}

// TransportError classifies a failure where no response was received.
// Data sources other than Client use it so callers see the same kinds.
func TransportError(err error) *Error {
	return classifyTransport(err)
}

// classifyTransport handles failures where no response was received
func classifyTransport(err error) *Error {
	if isTimeout(err) {
		return &Error{
			Message:   MessageTimeout,
			Retryable: true,
			Kind:      KindTimeout,
			cause:     err,
		}
	}

	return &Error{
		Message:   MessageNetwork,
		Retryable: true,
		Kind:      KindNetwork,
		cause:     err,
	}
}

// classifyResponse handles a non-2xx response
func classifyResponse(statusCode int, body []byte) *Error {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil && env.Error.Message != "" {
		apiErr := &Error{
			Message:    env.Error.Message,
			Kind:       KindServer,
			Code:       env.Error.Code,
			Details:    detailsText(env.Error.Details),
			StatusCode: statusCode,
		}
		if env.Error.Retryable != nil {
			apiErr.Retryable = *env.Error.Retryable
		}
		return apiErr
	}

	// axios와 동일한 원문 메시지 유지
	return &Error{
		Message:    fmt.Sprintf("Request failed with status code %d", statusCode),
		Kind:       KindMalformed,
		StatusCode: statusCode,
	}
}

// classifyDecode handles a 2xx response whose body could not be decoded
func classifyDecode(statusCode int, err error) *Error {
	return &Error{
		Message:    fmt.Sprintf("invalid response body: %v", err),
		Kind:       KindMalformed,
		StatusCode: statusCode,
		cause:      err,
	}
}

func invalidRequest(err error) *Error {
	return &Error{
		Message: err.Error(),
		Kind:    KindInvalid,
		cause:   err,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// detailsText flattens details, which the backend sends as a string or a list
func detailsText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
