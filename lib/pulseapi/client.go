// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseapi

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

	"github.com/google/uuid"

	"github.com/bureau-foundation/pulse/lib/netutil"
	"github.com/bureau-foundation/pulse/lib/version"
)

// DefaultTimeout bounds every request, including reading the body.
const DefaultTimeout = 5 * time.Second

// Config holds the settings for NewClient.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8000/api/".
	// Must be http or https.
	BaseURL string

	// Credentials authenticate every request when non-nil. Leave nil
	// for anonymous reads.
	Credentials *Credentials

	// HTTPClient overrides the transport. Its Timeout is replaced by
	// DefaultTimeout when zero.
	HTTPClient *http.Client

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client is a Pulse API client. Safe for concurrent use.
type Client struct {
	baseURL    string
	authHeader string
	username   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient validates config and returns a Client.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("pulseapi: BaseURL is required")
	}
	parsed, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("pulseapi: parsing BaseURL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("pulseapi: BaseURL must be http or https (got %q)", config.BaseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("pulseapi: BaseURL %q has no host", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Timeout == 0 {
		copied := *httpClient
		copied.Timeout = DefaultTimeout
		httpClient = &copied
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/") + "/",
		httpClient: httpClient,
		logger:     logger,
	}
	if config.Credentials != nil {
		if err := config.Credentials.Validate(); err != nil {
			return nil, fmt.Errorf("pulseapi: %w", err)
		}
		client.authHeader = config.Credentials.AuthorizationHeader()
		client.username = config.Credentials.Username
	}
	return client, nil
}

// WithCredentials returns a copy of the client that authenticates as
// credentials. The receiver is unchanged.
func (client *Client) WithCredentials(credentials Credentials) (*Client, error) {
	if err := credentials.Validate(); err != nil {
		return nil, fmt.Errorf("pulseapi: %w", err)
	}
	copied := *client
	copied.authHeader = credentials.AuthorizationHeader()
	copied.username = credentials.Username
	return &copied, nil
}

// Username returns the authenticated username, or "" for an anonymous
// client.
func (client *Client) Username() string { return client.username }

// Authenticated reports whether requests carry credentials.
func (client *Client) Authenticated() bool { return client.authHeader != "" }

// BaseURL returns the normalized API root (always ending in "/").
func (client *Client) BaseURL() string { return client.baseURL }

// do sends one request and returns the response body. path is relative
// to the base URL. requestBody, when non-nil, is JSON-encoded.
func (client *Client) do(ctx context.Context, method, path string, query url.Values, requestBody any) ([]byte, error) {
	target := netutil.JoinPath(client.baseURL, path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("pulseapi: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("pulseapi: creating request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-Request-ID", uuid.NewString())
	request.Header.Set("User-Agent", version.UserAgent())
	if client.authHeader != "" {
		request.Header.Set("Authorization", client.authHeader)
	}

	started := time.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, &NetworkError{Method: method, Path: path, Timeout: netutil.IsTimeout(err), Err: err}
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, &NetworkError{Method: method, Path: path, Timeout: netutil.IsTimeout(err), Err: fmt.Errorf("reading response body: %w", err)}
	}

	client.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"duration", time.Since(started),
		"request_id", request.Header.Get("X-Request-ID"),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, parseHTTPError(response.StatusCode, body)
	}
	return body, nil
}

// get sends a GET and decodes the response into result.
func (client *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	body, err := client.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("pulseapi: decoding %s: %w", path, err)
	}
	return nil
}

// post sends a POST and decodes the response into result when result
// is non-nil.
func (client *Client) post(ctx context.Context, path string, requestBody any, result any) error {
	body, err := client.do(ctx, http.MethodPost, path, nil, requestBody)
	if err != nil {
		return err
	}
	if result == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("pulseapi: decoding %s: %w", path, err)
	}
	return nil
}
