package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/wonny/stockai/dashboard/pkg/config"
	"github.com/wonny/stockai/dashboard/pkg/logger"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// ErrRateLimitWait means the limiter could not admit the request before the
// context deadline; no request was sent. It also matches context.DeadlineExceeded.
var ErrRateLimitWait = errors.New("rate limit wait exceeds deadline")

// Client is an HTTP client wrapper with rate limiting and logging.
// Requests are never retried here; a retry is always a new call by the user.
// ⭐ SSOT: 모든 HTTP 요청은 이 클라이언트를 통해서만 수행
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	limiter    *rate.Limiter
	verbose    bool
}

// New creates a new HTTP client from config
// ⭐ SSOT: http.Client 인스턴스는 여기서만 생성
func New(cfg *config.Config, log *logger.Logger) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: config.RequestTimeout,
		},
		logger:  log.Component("httputil"),
		verbose: cfg.API.Debug,
	}

	if cfg.API.RateLimit > 0 {
		burst := int(cfg.API.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.API.RateLimit), burst)
	}

	return c
}

// NewWithTimeout creates a client with custom timeout (tests only need this)
func NewWithTimeout(cfg *config.Config, log *logger.Logger, timeout time.Duration) *Client {
	client := New(cfg, log)
	client.httpClient.Timeout = timeout
	return client
}

// Timeout returns the bound applied to every request
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.Do(req)
}

// PostJSON performs a POST request with JSON body
func (c *Client) PostJSON(ctx context.Context, url string, data interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create POST request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.Do(req)
}

// Do executes the request with rate limiting and logging.
// Transport errors are returned unwrapped so callers can classify them.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			c.logger.WithField("url", req.URL.String()).WithError(err).Warn("Rate limiter rejected request")
			if ctxErr := req.Context().Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("%w: %w", ErrRateLimitWait, context.DeadlineExceeded)
		}
	}

	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		req.Header.Set(RequestIDHeader, requestID)
	}

	startTime := time.Now()
	fields := map[string]interface{}{
		"method":     req.Method,
		"url":        req.URL.String(),
		"request_id": requestID,
	}

	c.log(fields, "HTTP request started")

	resp, err := c.httpClient.Do(req)
	fields["duration"] = time.Since(startTime)

	if err != nil {
		fields["error"] = err.Error()
		c.logger.WithFields(fields).Warn("HTTP request failed")
		return nil, err
	}

	fields["status_code"] = resp.StatusCode
	c.log(fields, "HTTP request completed")

	return resp, nil
}

// ReadBody drains and closes the response body
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// log writes at info when API debug is on, otherwise at debug
func (c *Client) log(fields map[string]interface{}, msg string) {
	l := c.logger.WithFields(fields)
	if c.verbose {
		l.Info(msg)
		return
	}
	l.Debug(msg)
}

// IsSuccess reports whether the status code is 2xx
func IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
