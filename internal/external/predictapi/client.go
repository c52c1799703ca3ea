package predictapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wonny/stockai/dashboard/internal/contracts"
	"github.com/wonny/stockai/dashboard/pkg/config"
	"github.com/wonny/stockai/dashboard/pkg/httputil"
	"github.com/wonny/stockai/dashboard/pkg/logger"
)

// Client handles communication with the prediction backend.
// Stateless: concurrent calls are independent HTTP exchanges.
// ⭐ SSOT: 예측 백엔드 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	debug      bool
}

// NewClient creates a new prediction backend client
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.Component("predictapi"),
		baseURL:    strings.TrimRight(cfg.API.BaseURL, "/"),
		debug:      cfg.API.Debug,
	}
}

// GetRankings fetches the trading-value ranking.
// Order is exactly as delivered; ranks are not re-sorted here.
func (c *Client) GetRankings(ctx context.Context) ([]contracts.StockRanking, error) {
	var resp rankingsResponse
	if err := c.call(ctx, http.MethodGet, "/rankings", nil, &resp); err != nil {
		return nil, err
	}

	rankings := make([]contracts.StockRanking, 0, len(resp.Rankings))
	for _, item := range resp.Rankings {
		rankings = append(rankings, item.toContract())
	}

	return rankings, nil
}

// Predict requests a multi-model prediction for one stock
func (c *Client) Predict(ctx context.Context, req contracts.PredictRequest) (*contracts.PredictionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, invalidRequest(err)
	}

	var resp predictionResponse
	if err := c.call(ctx, http.MethodPost, "/predict", req, &resp); err != nil {
		return nil, err
	}

	return resp.toContract(), nil
}

// HealthCheck probes the backend. Callers log failures and keep going.
func (c *Client) HealthCheck(ctx context.Context) (*contracts.HealthStatus, error) {
	var status contracts.HealthStatus
	if err := c.call(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// call performs one exchange and classifies any failure into *Error
func (c *Client) call(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	url := c.baseURL + path

	var (
		resp *http.Response
		err  error
	)
	if method == http.MethodPost {
		resp, err = c.httpClient.PostJSON(ctx, url, body)
	} else {
		resp, err = c.httpClient.Get(ctx, url)
	}
	if err != nil {
		return c.fail(method, path, classifyTransport(err))
	}

	data, err := httputil.ReadBody(resp)
	if err != nil {
		return c.fail(method, path, classifyTransport(err))
	}

	if c.debug {
		c.logger.WithFields(map[string]interface{}{
			"method":      method,
			"path":        path,
			"status_code": resp.StatusCode,
			"body_bytes":  len(data),
		}).Info("API response")
	}

	if !httputil.IsSuccess(resp.StatusCode) {
		return c.fail(method, path, classifyResponse(resp.StatusCode, data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return c.fail(method, path, classifyDecode(resp.StatusCode, err))
	}

	return nil
}

func (c *Client) fail(method, path string, apiErr *Error) error {
	fields := map[string]interface{}{
		"method":    method,
		"path":      path,
		"kind":      apiErr.Kind,
		"retryable": apiErr.Retryable,
	}
	if apiErr.Code != "" {
		fields["code"] = apiErr.Code
	}
	if apiErr.StatusCode != 0 {
		fields["status_code"] = apiErr.StatusCode
	}

	l := c.logger.WithFields(fields)
	if apiErr.cause != nil {
		l = l.WithError(apiErr.cause)
	}
	l.Warn(apiErr.Message)

	return apiErr
}
