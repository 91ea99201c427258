// Package apiclient is the typed HTTP client for the storefront API. It
// unwraps response envelopes, attaches the stored admin token and clears it
// when the API answers 401.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/stride-storefront/pkg/errors"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
)

const (
	defaultTimeout        = 15 * time.Second
	errorBodyLimit  int64 = 1 << 20
	idempotencyHdr        = "Idempotency-Key"
)

var errBaseURLRequired = errors.New("api base url is required")

// Client talks to one storefront API instance.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	credentials    CredentialStore
	onUnauthorized func()
	logg           *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds every request. Zero keeps the default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

func WithCredentials(store CredentialStore) Option {
	return func(c *Client) { c.credentials = store }
}

// WithUnauthorizedHook runs after a 401 has cleared the stored credentials.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		if logg != nil {
			c.logg = logg
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}

	client := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    trimmed,
		logg:       logger.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string          `json:"code"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

type call struct {
	method         string
	path           string
	query          url.Values
	body           any
	idempotencyKey string
	authenticated  bool
}

// do sends one request and decodes the envelope's data into out when out is non-nil.
func (c *Client) do(ctx context.Context, req call, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "api client not configured")
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encode request body")
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.idempotencyKey != "" {
		httpReq.Header.Set(idempotencyHdr, req.idempotencyKey)
	}
	if req.authenticated {
		if err := c.attachToken(ctx, httpReq); err != nil {
			return err
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read response")
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized(ctx)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || decodeErr != nil || !env.Success {
		return newAPIError(resp.StatusCode, env, decodeErr)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response data")
	}
	return nil
}

func (c *Client) attachToken(ctx context.Context, req *http.Request) error {
	if c.credentials == nil {
		return &APIError{Status: http.StatusUnauthorized, Code: pkgerrors.CodeUnauthorized, Message: "not logged in"}
	}
	creds, err := c.credentials.Load(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load credentials")
	}
	if creds == nil || creds.AccessToken == "" {
		return &APIError{Status: http.StatusUnauthorized, Code: pkgerrors.CodeUnauthorized, Message: "not logged in"}
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	return nil
}

func (c *Client) handleUnauthorized(ctx context.Context) {
	if c.credentials != nil {
		if err := c.credentials.Clear(ctx); err != nil {
			c.logg.Error(ctx, "apiclient.clear_credentials_failed", err)
		}
	}
	c.logg.Warn(ctx, "apiclient.unauthorized")
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}
