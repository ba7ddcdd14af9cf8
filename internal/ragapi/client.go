// Package ragapi is the HTTP transport for the RAG chat backend.
//
// The backend accepts POST requests with a JSON body {"question": "..."} and
// answers with {"answer": "...", "session_id": "..."}. Once the client knows
// its session it passes it back as a query parameter.
package ragapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/longkey1/ragchat/internal/chat"
	"github.com/longkey1/ragchat/internal/version"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultEndpoint     = "http://127.0.0.1:8000/chat"
	DefaultSessionParam = "session_id"

	// maxErrorBody caps how much of a failed response ends up in the error text
	maxErrorBody = 512
)

// ChatRequest is the request body sent to the backend
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse is the response body returned by the backend
type ChatResponse struct {
	Answer    *string `json:"answer"`
	SessionID *string `json:"session_id,omitempty"`
}

// Config defines the configuration the client needs
type Config interface {
	GetEndpoint() string
	GetSessionParam() string
	GetRequestTimeout() time.Duration
}

// Client implements chat.Transport over HTTP
type Client struct {
	config     Config
	httpClient *http.Client
	logger     zerolog.Logger
}

var _ chat.Transport = (*Client)(nil)

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the client logger
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new backend client. A zero request timeout means the
// client waits for as long as the server takes.
func NewClient(config Config, opts ...ClientOption) *Client {
	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.GetRequestTimeout()},
		logger:     log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ask posts the question and decodes the answer
func (c *Client) Ask(ctx context.Context, req chat.Request) (*chat.Response, error) {
	target, err := c.requestURL(req.SessionID)
	if err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(ChatRequest{Question: req.Question})
	if err != nil {
		return nil, errors.Wrap(err, "marshaling request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(jsonData))
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", version.UserAgent())
	if req.ID != "" {
		httpReq.Header.Set("X-Request-ID", req.ID)
	}

	c.logger.Debug().
		Str("request_id", req.ID).
		Str("url", target).
		Bool("has_session", req.SessionID != nil).
		Msg("sending question")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "sending request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}

	c.logger.Debug().
		Str("request_id", req.ID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("received response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("server returned %s: %s", resp.Status, truncate(strings.TrimSpace(string(body)), maxErrorBody))
	}

	return decodeResponse(body)
}

func decodeResponse(body []byte) (*chat.Response, error) {
	var result ChatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.Wrap(err, "parsing response")
	}
	if result.Answer == nil {
		return nil, errors.New("malformed response: missing answer field")
	}
	return &chat.Response{
		Answer:    *result.Answer,
		SessionID: result.SessionID,
	}, nil
}

// requestURL returns the endpoint, with the session parameter added when a
// session is known. Existing query parameters on the endpoint are kept.
func (c *Client) requestURL(sessionID *string) (string, error) {
	endpoint := c.config.GetEndpoint()
	if sessionID == nil {
		return endpoint, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.Wrapf(err, "parsing endpoint %q", endpoint)
	}
	param := c.config.GetSessionParam()
	if param == "" {
		param = DefaultSessionParam
	}
	q := u.Query()
	q.Set(param, *sessionID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
