// Package backend talks to the local inference server (Ollama) over HTTP.
//
// Only two operations are used: /api/generate for non-streaming completions
// and /api/tags for the list of installed models. Every call carries a
// context deadline; nothing is retried.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Defaults applied when the corresponding Options fields are unset.
const (
	DefaultBaseURL         = "http://localhost:11434"
	DefaultGenerateTimeout = 60 * time.Second
	DefaultStatusTimeout   = 5 * time.Second
	defaultConnectTimeout  = 5 * time.Second
)

// Operation names used in errors and metrics.
const (
	OpGenerate = "generate"
	OpTags     = "tags"
)

// Options configures a Client.
type Options struct {
	BaseURL         string
	GenerateTimeout time.Duration
	StatusTimeout   time.Duration
	ConnectTimeout  time.Duration
	// HTTPClient overrides the default pooled client (tests).
	HTTPClient *http.Client
}

// GenerateRequest is a single non-streaming completion request.
type GenerateRequest struct {
	Model       string
	Prompt      string
	Temperature float64
}

// Client is safe for concurrent use; the underlying http.Client is shared.
type Client struct {
	baseURL         string
	generateTimeout time.Duration
	statusTimeout   time.Duration
	httpClient      *http.Client
}

// New constructs a Client, applying defaults for zero Options fields.
func New(opts Options) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(opts.BaseURL, "/"),
		generateTimeout: opts.GenerateTimeout,
		statusTimeout:   opts.StatusTimeout,
		httpClient:      opts.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.generateTimeout <= 0 {
		c.generateTimeout = DefaultGenerateTimeout
	}
	if c.statusTimeout <= 0 {
		c.statusTimeout = DefaultStatusTimeout
	}
	if c.httpClient == nil {
		connect := opts.ConnectTimeout
		if connect <= 0 {
			connect = defaultConnectTimeout
		}
		tr := &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   connect,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
		// Timeout stays zero: every request carries its own context deadline.
		c.httpClient = &http.Client{Transport: tr}
	}
	return c
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string { return c.baseURL }

type generatePayload struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

// Generate returns the completion text for req.Prompt.
// Errors are *UnreachableError, *RejectedError, or the caller's context.Canceled.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	body, err := json.Marshal(generatePayload{
		Model:   req.Model,
		Prompt:  req.Prompt,
		Stream:  false,
		Options: generateOptions{Temperature: req.Temperature},
	})
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}

	start := time.Now()
	defer func() { requestDuration.WithLabelValues(OpGenerate).Observe(time.Since(start).Seconds()) }()
	status, reply, err := c.do(ctx, OpGenerate, http.MethodPost, "/api/generate", body, c.generateTimeout)
	if err != nil {
		return "", err
	}

	switch r := decodeGenerateReply(status, reply).(type) {
	case Success:
		requestsTotal.WithLabelValues(OpGenerate, outcomeOK).Inc()
		return r.Text, nil
	case Failure:
		requestsTotal.WithLabelValues(OpGenerate, outcomeRejected).Inc()
		return "", &RejectedError{Op: OpGenerate, StatusCode: r.StatusCode, Message: r.Message}
	default:
		return "", fmt.Errorf("unexpected reply type %T", r)
	}
}

// Tags returns the names of the models installed on the backend.
func (c *Client) Tags(ctx context.Context) ([]string, error) {
	start := time.Now()
	defer func() { requestDuration.WithLabelValues(OpTags).Observe(time.Since(start).Seconds()) }()
	status, body, err := c.do(ctx, OpTags, http.MethodGet, "/api/tags", nil, c.statusTimeout)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		requestsTotal.WithLabelValues(OpTags, outcomeRejected).Inc()
		return nil, &RejectedError{Op: OpTags, StatusCode: status, Message: snippet(body)}
	}
	var r tagsReply
	if err := json.Unmarshal(body, &r); err != nil {
		requestsTotal.WithLabelValues(OpTags, outcomeRejected).Inc()
		return nil, &RejectedError{Op: OpTags, StatusCode: status, Message: fmt.Sprintf("decode reply: %v", err)}
	}
	names := make([]string, 0, len(r.Models))
	for _, m := range r.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	requestsTotal.WithLabelValues(OpTags, outcomeOK).Inc()
	return names, nil
}

// do performs one request bounded by timeout and returns the status and body.
// Transport failures and deadline expiry become *UnreachableError; a canceled
// caller context is returned as is so the caller can tell it apart.
func (c *Client) do(ctx context.Context, op, method, path string, body []byte, timeout time.Duration) (int, []byte, error) {
	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return 0, nil, fmt.Errorf("build %s request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, c.transportError(parent, ctx, op, err)
	}
	defer resp.Body.Close()
	b, err := readBody(resp)
	if err != nil {
		return 0, nil, c.transportError(parent, ctx, op, err)
	}
	return resp.StatusCode, b, nil
}

func (c *Client) transportError(parent, ctx context.Context, op string, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		requestsTotal.WithLabelValues(op, outcomeCanceled).Inc()
		return parent.Err()
	}
	requestsTotal.WithLabelValues(op, outcomeUnreachable).Inc()
	if ctx.Err() != nil {
		return &UnreachableError{Op: op, Err: fmt.Errorf("no reply within deadline: %w", ctx.Err())}
	}
	return &UnreachableError{Op: op, Err: err}
}
