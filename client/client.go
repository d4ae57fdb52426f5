// Package client implements the Zetsubou.life API v2 SDK: a central HTTP
// transport with retry and typed error classification, plus one thin service
// accessor per API namespace.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	Version = "1.1.0"

	DefaultBaseURL       = "https://zetsubou.life"
	DefaultTimeout       = 30 * time.Second
	DefaultRetryAttempts = 3

	userAgent = "zetsubou-sdk-go/" + Version
)

// Client talks to the Zetsubou.life API. One Client owns one pooled HTTP
// session and is safe for concurrent use; call Close to release idle
// connections when done.
type Client struct {
	apiKey        string
	baseURL       string
	httpClient    *http.Client
	retryAttempts int
	log           *zap.Logger

	// backoff maps a zero-based attempt number to the wait before the next
	// attempt. Overridden in tests to avoid wall-clock sleeps.
	backoff func(attempt int) time.Duration

	Tools    *ToolsService
	Jobs     *JobsService
	VFS      *VFSService
	Chat     *ChatService
	Webhooks *WebhooksService
	Account  *AccountService
	NFT      *NFTService
	GraphQL  *GraphQLService
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// WithRetryAttempts sets how many times a transient failure is retried after
// the initial attempt.
func WithRetryAttempts(attempts int) Option {
	return func(c *Client) { c.retryAttempts = attempts }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		retryAttempts: DefaultRetryAttempts,
		log:           zap.NewNop(),
		backoff: func(attempt int) time.Duration {
			return time.Duration(1<<uint(attempt)) * time.Second
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Tools = &ToolsService{c: c}
	c.Jobs = &JobsService{c: c}
	c.VFS = &VFSService{c: c}
	c.Chat = &ChatService{c: c}
	c.Webhooks = &WebhooksService{c: c}
	c.Account = &AccountService{c: c}
	c.NFT = &NFTService{c: c}
	c.GraphQL = &GraphQLService{c: c}

	return c
}

// Close releases the client's idle network connections. The client must not
// be used after Close returns.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// HealthCheck probes GET /health and returns the server's status document.
func (c *Client) HealthCheck(ctx context.Context) (map[string]any, error) {
	out, err := doJSON[map[string]any](c, ctx, request{method: http.MethodGet, path: "/health"})
	if err != nil {
		return nil, err
	}
	return *out, nil
}

type attachment struct {
	field    string
	filename string
	data     []byte
}

// request describes one logical API call. Bodies are held in memory so the
// transport can replay the request on retry.
type request struct {
	method      string
	path        string
	query       url.Values
	body        any
	form        map[string]string
	attachments []attachment
	stream      bool
}

type response struct {
	status int
	header http.Header
	body   []byte
	stream io.ReadCloser
}

// do executes req against the API, classifying the result per status code.
// 5xx responses and network-level failures share a single retry budget with
// exponential backoff; everything else resolves on the first attempt.
func (c *Client) do(ctx context.Context, req request) (*response, error) {
	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}
	requestID := uuid.NewString()

	c.log.Debug("api request",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.String("request_id", requestID))

	var lastErr error
	for attempt := 0; attempt <= c.retryAttempts; attempt++ {
		if attempt > 0 {
			wait := c.backoff(attempt - 1)
			c.log.Debug("retrying api request",
				zap.String("request_id", requestID),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", wait),
				zap.Error(lastErr))
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, genericError(codeConnection, "building request: %v", err)
		}
		httpReq.Header.Set("X-API-Key", c.apiKey)
		httpReq.Header.Set("User-Agent", userAgent)
		httpReq.Header.Set("X-Request-ID", requestID)
		httpReq.Header.Set("Accept", "application/json")
		if contentType != "" {
			httpReq.Header.Set("Content-Type", contentType)
		}

		httpResp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = err
			continue
		}

		resp, retryable, err := c.classify(req, httpResp)
		if err == nil {
			return resp, nil
		}
		if !retryable || attempt == c.retryAttempts {
			return nil, err
		}
		lastErr = err
	}

	return nil, genericError(codeConnection,
		"request failed after %d retries: %v", c.retryAttempts, lastErr)
}

// classify maps an HTTP response to either a parsed response, a retryable
// error (5xx, consumed by the retry loop), or a terminal typed error.
func (c *Client) classify(req request, httpResp *http.Response) (*response, bool, error) {
	switch {
	case httpResp.StatusCode == http.StatusOK ||
		httpResp.StatusCode == http.StatusCreated ||
		httpResp.StatusCode == http.StatusNoContent:
		if req.stream {
			return &response{
				status: httpResp.StatusCode,
				header: httpResp.Header,
				stream: httpResp.Body,
			}, false, nil
		}
		body, err := io.ReadAll(httpResp.Body)
		httpResp.Body.Close()
		if err != nil {
			return nil, false, genericError(codeConnection, "reading response body: %v", err)
		}
		return &response{status: httpResp.StatusCode, header: httpResp.Header, body: body}, false, nil

	case httpResp.StatusCode == http.StatusBadRequest:
		detail := readErrorDetail(httpResp)
		return nil, false, &ValidationError{statusError(httpResp.StatusCode, detail, "Validation error")}

	case httpResp.StatusCode == http.StatusUnauthorized:
		detail := readErrorDetail(httpResp)
		return nil, false, &AuthenticationError{statusError(httpResp.StatusCode, detail, "Authentication failed")}

	case httpResp.StatusCode == http.StatusNotFound:
		detail := readErrorDetail(httpResp)
		return nil, false, &NotFoundError{statusError(httpResp.StatusCode, detail, "Resource not found")}

	case httpResp.StatusCode == http.StatusTooManyRequests:
		detail := readErrorDetail(httpResp)
		return nil, false, &RateLimitError{
			APIError:   statusError(httpResp.StatusCode, detail, "Rate limit exceeded"),
			RetryAfter: retryAfter(httpResp.Header),
		}

	case httpResp.StatusCode >= 500 && httpResp.StatusCode < 600:
		detail := readErrorDetail(httpResp)
		return nil, true, &ServerError{statusError(httpResp.StatusCode, detail, "Server error")}

	default:
		detail := readErrorDetail(httpResp)
		return nil, false, statusError(httpResp.StatusCode, detail,
			fmt.Sprintf("Unexpected status code %d", httpResp.StatusCode))
	}
}

// sleep waits for d or until ctx is done, whichever comes first.
func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return genericError(codeCancelled, "request cancelled: %v", ctx.Err())
	case <-timer.C:
		return nil
	}
}

// retryAfter reads the Retry-After header as whole seconds, defaulting to 60
// when absent or malformed.
func retryAfter(header http.Header) time.Duration {
	if v := header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return 60 * time.Second
}

// readErrorDetail decodes the response body as a JSON object, synthesizing a
// detail map from the raw text when the body is not JSON.
func readErrorDetail(httpResp *http.Response) map[string]any {
	body, _ := io.ReadAll(httpResp.Body)
	httpResp.Body.Close()

	var detail map[string]any
	if err := json.Unmarshal(body, &detail); err == nil && detail != nil {
		return detail
	}

	message := strings.TrimSpace(string(body))
	if message == "" {
		message = fmt.Sprintf("HTTP %d", httpResp.StatusCode)
	}
	return map[string]any{
		"message":     message,
		"code":        fmt.Sprintf("HTTP_%d", httpResp.StatusCode),
		"status_code": float64(httpResp.StatusCode),
	}
}

// encodeBody renders the request body. Multipart bodies are built once and
// replayed from memory on retry; the multipart writer selects the boundary,
// so no fixed Content-Type is forced.
func encodeBody(req request) (body []byte, contentType string, err error) {
	if len(req.attachments) > 0 {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for _, att := range req.attachments {
			part, err := w.CreateFormFile(att.field, att.filename)
			if err != nil {
				return nil, "", genericError(codeConnection, "building multipart body: %v", err)
			}
			if _, err := part.Write(att.data); err != nil {
				return nil, "", genericError(codeConnection, "building multipart body: %v", err)
			}
		}
		for field, value := range req.form {
			if err := w.WriteField(field, value); err != nil {
				return nil, "", genericError(codeConnection, "building multipart body: %v", err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", genericError(codeConnection, "building multipart body: %v", err)
		}
		return buf.Bytes(), w.FormDataContentType(), nil
	}

	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, "", genericError(codeDecode, "encoding request body: %v", err)
		}
		return data, "application/json", nil
	}

	if req.method == http.MethodPost || req.method == http.MethodPut || req.method == http.MethodPatch {
		return nil, "application/json", nil
	}
	return nil, "", nil
}

// doJSON executes req and decodes the JSON response body into T. A 204
// response yields the zero value.
func doJSON[T any](c *Client, ctx context.Context, req request) (*T, error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}

	var into T
	if len(resp.body) == 0 {
		return &into, nil
	}
	if err := json.Unmarshal(resp.body, &into); err != nil {
		return nil, &APIError{
			Message:    fmt.Sprintf("decoding response: %v", err),
			Code:       codeDecode,
			StatusCode: resp.status,
			Detail:     map[string]any{},
		}
	}
	return &into, nil
}
