package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"parking-orchestrator/internal/pkg/config"
	"parking-orchestrator/internal/pkg/jwt"

	"github.com/go-playground/validator/v10"
)

const maxResponseBytes = 1 << 20

// Client talks to the backend REST API on behalf of the caller whose access token
// travels in the request context. It implements the gateway ports of the use cases.
type Client struct {
	hc          *http.Client
	baseURL     *url.URL
	apiKey      string
	capacityRPC string
	timeout     time.Duration
	loc         *time.Location
	validate    *validator.Validate
	logger      *slog.Logger
}

func NewClient(cfg config.BackendConfig, hc *http.Client, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend base url %q", cfg.BaseURL)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid backend time zone: %w", err)
	}
	if hc == nil {
		hc = &http.Client{}
	}
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		hc:          hc,
		baseURL:     base,
		apiKey:      cfg.APIKey,
		capacityRPC: cfg.CapacityRPC,
		timeout:     timeout,
		loc:         loc,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
	}, nil
}

type call struct {
	op     string
	method string
	path   []string
	query  url.Values
	body   any
	header http.Header
}

// do sends one request bounded by the call timeout and decodes a JSON response into out.
// Non-2xx statuses become *Error classified by status code.
func (c *Client) do(ctx context.Context, cl call, out any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return 0, &Error{Kind: KindUnknown, Op: cl.op, Message: "failed to encode request", err: err}
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL.JoinPath(cl.path...)
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), body)
	if err != nil {
		return 0, &Error{Kind: KindUnknown, Op: cl.op, Message: "failed to build request", err: err}
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if token, ok := jwt.AccessTokenFrom(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, vs := range cl.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	res, err := c.hc.Do(req)
	if err != nil {
		c.logger.Warn("backend call failed",
			"op", cl.op,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err.Error())
		return 0, transportError(ctx, cl.op, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return res.StatusCode, transportError(ctx, cl.op, err)
	}

	c.logger.Debug("backend call",
		"op", cl.op,
		"method", cl.method,
		"status", res.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return res.StatusCode, statusError(cl.op, res.StatusCode, errorMessage(raw))
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return res.StatusCode, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return res.StatusCode, schemaError(cl.op, err)
	}
	return res.StatusCode, nil
}

func (c *Client) check(op string, v any) error {
	if err := c.validate.Struct(v); err != nil {
		return schemaError(op, err)
	}
	return nil
}

// errorMessage pulls a human readable message out of an error body.
// FastAPI style {"detail": ...} and PostgREST style {"message": ...} are understood.
func errorMessage(raw []byte) string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return truncate(strings.TrimSpace(string(raw)), 200)
	}
	for _, field := range []string{"message", "detail", "error"} {
		v, ok := body[field]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
		return truncate(string(v), 200)
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
