// Package inquiry submits decoded QR payloads to the remote slip
// verification service and maps the response into a VerificationResult.
package inquiry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"slipgate/internal/slip/models"
)

var tracer = otel.Tracer("slipgate/internal/slip/inquiry")

// Inquirer is anything that maps a payload to a VerificationResult. The HTTP
// client below is the production implementation; tests substitute fakes.
type Inquirer interface {
	Inquire(ctx context.Context, payload string) (*models.VerificationResult, error)
}

const (
	inquiryPath    = "/v1/inquiry"
	defaultTimeout = 15 * time.Second
)

// Client calls the remote inquiry endpoint with client-id/secret transport
// credentials. It performs a single attempt per call; retry policy belongs to
// the caller.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       *slog.Logger
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, e.g. to impose a
// different timeout or point at a test server transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates an inquiry client for the given endpoint and credentials.
func NewClient(baseURL, clientID, clientSecret string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("inquiry base URL is required")
	}
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("inquiry client credentials are required")
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type inquiryRequest struct {
	Payload string `json:"payload"`
}

// Inquire submits the payload and returns the structured verification
// result. The response is accepted only if a "valid" field is present, even
// when false; its absence means the body is not an inquiry result and is
// reported as an APIError rather than an invalid slip.
func (c *Client) Inquire(ctx context.Context, payload string) (*models.VerificationResult, error) {
	ctx, span := tracer.Start(ctx, "inquiry.Inquire", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	body, err := json.Marshal(inquiryRequest{Payload: payload})
	if err != nil {
		return nil, NewAPIError(CategoryBadData, "failed to encode inquiry request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+inquiryPath, bytes.NewReader(body))
	if err != nil {
		return nil, NewAPIError(CategoryTransport, "failed to build inquiry request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, NewAPIError(CategoryTransport, "inquiry request failed", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewAPIError(CategoryTransport, "failed to read inquiry response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if c.logger != nil {
			c.logger.WarnContext(ctx, "inquiry returned error status",
				"status", resp.StatusCode,
			)
		}
		return nil, &APIError{
			Category: CategoryStatus,
			Status:   resp.StatusCode,
			Message:  fmt.Sprintf("inquiry returned status %d", resp.StatusCode),
		}
	}

	return parseInquiryResponse(respBody)
}

// parseInquiryResponse enforces the acceptance gate before decoding the full
// result shape.
func parseInquiryResponse(body []byte) (*models.VerificationResult, error) {
	var probe struct {
		Valid *bool `json:"valid"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, NewAPIError(CategoryBadData, "malformed inquiry response", err)
	}
	if probe.Valid == nil {
		return nil, NewAPIError(CategoryBadData, "inquiry response missing valid field", nil)
	}

	var result models.VerificationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, NewAPIError(CategoryBadData, "malformed inquiry response", err)
	}
	return &result, nil
}
