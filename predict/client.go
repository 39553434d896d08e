/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/humaidq/medidash/logging"
)

// DefaultHealthTimeout bounds the latency of a single health probe. Predict
// and batch calls carry no client-side timeout; the incoming request context
// is passed through unchanged.
const DefaultHealthTimeout = 3 * time.Second

const (
	healthPath       = "/health"
	predictPath      = "/predict"
	predictBatchPath = "/predict_batch"
)

var logger = logging.Logger(logging.SourcePredict)

// Client issues typed requests against the prediction service. It is
// stateless and safe for concurrent use. Predict calls are at-most-once:
// failures surface to the caller and are never retried internally.
type Client struct {
	baseURL string

	// HealthTimeout is applied only to CheckHealth.
	HealthTimeout time.Duration

	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		HealthTimeout: DefaultHealthTimeout,
		httpClient:    &http.Client{},
	}
}

// BaseURL returns the configured service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CheckHealth probes the service's health endpoint. It reports true only on
// an HTTP success status; network failures, non-2xx statuses and probes
// exceeding HealthTimeout all collapse to false. The underlying error is
// logged so operators can tell a slow service from a down one.
func (c *Client) CheckHealth(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		logger.Error("Health probe request setup failed", "error", err)
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("Health probe failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("Health probe returned non-success status", "status", resp.StatusCode)
		return false
	}

	return true
}

// Predict submits one patient record and returns the service's verdict. The
// sex field is lower-cased before transmission since the service only accepts
// lowercase enum tokens. Result fields are not range-checked client-side.
func (c *Client) Predict(ctx context.Context, record PatientRecord) (*PredictionResult, error) {
	record.Sex = Sex(strings.ToLower(string(record.Sex)))

	body, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patient record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+predictPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call prediction service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.apiError(resp)
	}

	var result PredictionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode prediction response: %w", err)
	}

	return &result, nil
}

// PredictBatch normalizes the uploaded CSV's header row if needed, submits
// the payload as a multipart file and returns one result per input row. A
// 200 response whose body is not a JSON array is rejected with
// ErrInvalidResponseFormat so a contract violation cannot crash rendering.
func (c *Client) PredictBatch(ctx context.Context, filename string, file io.Reader) ([]BatchResult, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	normalized, rewritten := NormalizeHeader(string(content))
	if rewritten {
		logger.Info("Rewrote legacy CSV header", "file", filename)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart payload: %w", err)
	}
	if _, err := io.WriteString(part, normalized); err != nil {
		return nil, fmt.Errorf("failed to build multipart payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+predictBatchPath, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call prediction service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.apiError(resp)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch response: %w", err)
	}

	trimmed := bytes.TrimLeft(respBody, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrInvalidResponseFormat
	}

	var results []BatchResult
	if err := json.Unmarshal(trimmed, &results); err != nil {
		return nil, fmt.Errorf("failed to decode batch response: %w", err)
	}

	return results, nil
}

// apiError extracts the failure message for a non-2xx response: the
// structured detail when the body parses as JSON, else the status line. The
// single and batch paths deliberately share this policy.
func (c *Client) apiError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Detail: resp.Status}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}

	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		apiErr.Detail = detail.Detail
	}

	return apiErr
}
