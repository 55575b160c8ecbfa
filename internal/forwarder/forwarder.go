package forwarder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/berrythewa/linkforward/internal/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultServiceURL = "http://localhost:9527"
	DefaultIDE        = "zed"
	DefaultTimeout    = 60 * time.Second

	// Health checks give up well before a forward would.
	DefaultHealthTimeout = 2 * time.Second

	openPath   = "/open"
	healthPath = "/health"

	// Replies are a few hundred bytes; anything past this is not a reply.
	maxResponseSize int64 = 1 << 20

	requestIDHeader = "X-Request-Id"
)

// Options configures a Forwarder
type Options struct {
	ServiceURL    string
	IDE           string
	Timeout       time.Duration // used only when HTTPClient is nil
	HealthTimeout time.Duration // zero means DefaultHealthTimeout
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

// Forwarder hands URLs to the local helper service. It keeps no state
// between calls and is safe for concurrent use.
type Forwarder struct {
	serviceURL    string
	ide           string
	healthTimeout time.Duration
	httpClient    *http.Client
	logger        *zap.Logger
}

// New creates a Forwarder, filling unset options with defaults.
func New(opts Options) *Forwarder {
	serviceURL := strings.TrimRight(strings.TrimSpace(opts.ServiceURL), "/")
	if serviceURL == "" {
		serviceURL = DefaultServiceURL
	}

	ide := opts.IDE
	if ide == "" {
		ide = DefaultIDE
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	healthTimeout := opts.HealthTimeout
	if healthTimeout <= 0 {
		healthTimeout = DefaultHealthTimeout
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Forwarder{
		serviceURL:    serviceURL,
		ide:           ide,
		healthTimeout: healthTimeout,
		httpClient:    httpClient,
		logger:        logger,
	}
}

// ServiceURL returns the base address requests are sent to.
func (f *Forwarder) ServiceURL() string { return f.serviceURL }

// IDE returns the caller identity sent with every request.
func (f *Forwarder) IDE() string { return f.ide }

// Forward sends url to the helper and reports whether it was accepted.
func (f *Forwarder) Forward(url string) error {
	_, err := f.ForwardContext(context.Background(), url)
	return err
}

// ForwardContext sends url to the helper and returns its reply on success.
// Failures are one of *TransportError, *ServiceError, *DecodeError or
// *ApplicationError.
func (f *Forwarder) ForwardContext(ctx context.Context, url string) (*types.OpenResponse, error) {
	requestID := uuid.NewString()
	logger := f.logger.With(
		zap.String("request_id", requestID),
		zap.String("url", url),
		zap.String("ide", f.ide))

	payload, err := encodeRequest(&types.OpenRequest{URL: url, IDE: f.ide})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal open request: %w", err)
	}

	logger.Debug("Forwarding URL to helper", zap.String("service_url", f.serviceURL))

	resp, err := f.do(ctx, http.MethodPost, openPath, requestID, payload)
	if err != nil {
		logger.Debug("Helper unreachable", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	logger.Debug("Helper replied", zap.Int("status_code", resp.StatusCode))

	if !isSuccess(resp.StatusCode) {
		serviceErr := &ServiceError{
			StatusCode: resp.StatusCode,
			Message:    failureMessage(resp.Body),
		}
		logger.Debug("Helper returned error status", zap.Error(serviceErr))
		return nil, serviceErr
	}

	data, err := readBody(resp.Body)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	result, err := decodeOpenResponse(data)
	if err != nil {
		logger.Debug("Invalid reply from helper", zap.Error(err))
		return nil, &DecodeError{Err: err}
	}

	if !result.OK() {
		logger.Debug("Helper refused URL",
			zap.String("status", result.Status),
			zap.String("message", result.Message))
		return nil, &ApplicationError{Status: result.Status, Message: result.Message}
	}

	logger.Debug("URL opened", zap.String("path", result.Path))
	return result, nil
}

// Health queries the helper's health endpoint. The call gives up after the
// health timeout regardless of the request timeout.
func (f *Forwarder) Health(ctx context.Context) (*types.HealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, f.healthTimeout)
	defer cancel()

	resp, err := f.do(ctx, http.MethodGet, healthPath, uuid.NewString(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: failureMessage(resp.Body)}
	}

	data, err := readBody(resp.Body)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	var health types.HealthStatus
	if err := json.Unmarshal(data, &health); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if health.Status == "" {
		return nil, &DecodeError{Err: errors.New("missing field \"status\"")}
	}
	if health.Status != types.StatusOK {
		return nil, &ApplicationError{
			Status:  health.Status,
			Message: fmt.Sprintf("service reported status %q", health.Status),
		}
	}

	return &health, nil
}

func (f *Forwarder) do(ctx context.Context, method, path, requestID string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, f.serviceURL+path, reader)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return resp, nil
}

// encodeRequest marshals req without HTML escaping so '&', '<' and '>'
// in the URL go out as-is.
func encodeRequest(req *types.OpenRequest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(req); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// wireResponse mirrors types.OpenResponse with pointer fields so missing
// required fields can be told apart from empty ones.
type wireResponse struct {
	Status  *string `json:"status"`
	Message *string `json:"message"`
	Path    *string `json:"path"`
}

func decodeOpenResponse(data []byte) (*types.OpenResponse, error) {
	var wire wireResponse
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	if wire.Status == nil {
		return nil, errors.New("missing field \"status\"")
	}
	if wire.Message == nil {
		return nil, errors.New("missing field \"message\"")
	}

	result := &types.OpenResponse{
		Status:  *wire.Status,
		Message: *wire.Message,
	}
	if wire.Path != nil {
		result.Path = *wire.Path
	}
	return result, nil
}

func readBody(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > maxResponseSize {
		return nil, fmt.Errorf("response body exceeds %d bytes", maxResponseSize)
	}
	return data, nil
}

// failureMessage pulls the helper's message out of an error body. Read and
// parse failures yield an empty string.
func failureMessage(body io.Reader) string {
	data, err := readBody(body)
	if err != nil {
		return ""
	}
	var reply types.OpenResponse
	if err := json.Unmarshal(data, &reply); err != nil {
		return ""
	}
	return reply.Message
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
