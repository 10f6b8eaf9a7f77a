// Package client talks to the remote test-execution service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"friday/internal/domain"
)

// RunPath is the service endpoint that runs API tests for an uploaded spec
const RunPath = "/api/v1/run-api-tests"

// Multipart field names expected by the service
const (
	FieldSpecUpload = "spec_upload"
	FieldBaseURL    = "base_url"
	FieldOutput     = "output"
)

const maxResponseBytes = 1 << 20

// Options configures a Client
type Options struct {
	// ServiceURL is the root address of the test service
	ServiceURL string
	// Token is sent as a bearer token when set
	Token string
	// Timeout bounds the whole request; zero means no limit
	Timeout time.Duration
	// HTTPClient overrides the default client
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client submits spec files to the test service
type Client struct {
	serviceURL string
	token      string
	http       *http.Client
	logger     *zap.Logger
}

// New creates a Client
func New(options Options) *Client {
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.Timeout}
	} else if options.Timeout > 0 && httpClient.Timeout == 0 {
		clone := *httpClient
		clone.Timeout = options.Timeout
		httpClient = &clone
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		serviceURL: strings.TrimRight(strings.TrimSpace(options.ServiceURL), "/"),
		token:      options.Token,
		http:       httpClient,
		logger:     logger,
	}
}

// ServiceError is a non-2xx answer from the test service. Its Error text is
// the service's own message so it can be shown to the user as is.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }

// RunAPITests uploads the spec and waits for the service to report back
func (c *Client) RunAPITests(ctx context.Context, sub domain.Submission) (*domain.TestResult, error) {
	if c.serviceURL == "" {
		return nil, errors.New("test service url is empty")
	}
	if sub.Spec == nil {
		return nil, errors.New("specification file is missing")
	}

	body, contentType, err := encodeSubmission(sub)
	if err != nil {
		return nil, err
	}

	endpoint := c.serviceURL + RunPath
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	request.Header.Set("Content-Type", contentType)
	request.Header.Set("Accept", "application/json")
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("posting spec to test service",
		zap.String("endpoint", endpoint),
		zap.Int("bytes", body.Len()))

	resp, err := c.http.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("test service responded",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	var result domain.TestResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode test service response: %w", err)
	}
	return &result, nil
}

func encodeSubmission(sub domain.Submission) (*bytes.Buffer, string, error) {
	rc, err := sub.Spec.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", sub.Spec.Name(), err)
	}
	defer rc.Close()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	part, err := mw.CreateFormFile(FieldSpecUpload, sub.Spec.Name())
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request: %w", err)
	}
	if _, err := io.Copy(part, rc); err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", sub.Spec.Name(), err)
	}
	if err := mw.WriteField(FieldBaseURL, sub.BaseURL); err != nil {
		return nil, "", fmt.Errorf("failed to encode request: %w", err)
	}
	if err := mw.WriteField(FieldOutput, sub.OutputFilename); err != nil {
		return nil, "", fmt.Errorf("failed to encode request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to encode request: %w", err)
	}
	return buf, mw.FormDataContentType(), nil
}

type errorBody struct {
	Detail  any    `json:"detail"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// errorMessage extracts a readable message from an error response body.
// detail may be a string or a list of {"msg": ...} validation entries.
func errorMessage(status int, data []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(data, &parsed); err == nil {
		switch detail := parsed.Detail.(type) {
		case string:
			if strings.TrimSpace(detail) != "" {
				return strings.TrimSpace(detail)
			}
		case []any:
			var msgs []string
			for _, item := range detail {
				if entry, ok := item.(map[string]any); ok {
					if msg, ok := entry["msg"].(string); ok && msg != "" {
						msgs = append(msgs, msg)
					}
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
		if msg := strings.TrimSpace(parsed.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(parsed.Error); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("test service returned status %d", status)
}
