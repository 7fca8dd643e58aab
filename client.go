// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package netbox

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Default client configuration values
const (
	DefaultRequestTimeout  = 30 * time.Second
	DefaultStatusTimeout   = 5 * time.Second
	DefaultMaxResponseSize = 10 * 1024 * 1024 // 10MB
	DefaultPrettyPrintLogs = false
)

// Security limits for JSON processing and logging
const (
	MaxJSONSizeForLogging = 1 * 1024 * 1024 // 1MB limit to prevent ReDoS attacks
	MaxSensitiveFields    = 1000            // Max redaction operations to prevent DoS

	// MaxPathLength is the maximum length for an API-relative path
	MaxPathLength = 1024

	// maxErrorBodyLength limits the response excerpt carried in APIError
	maxErrorBodyLength = 200
)

// Logging message constants
const (
	JSONTooLargeMessage     = "[JSON TOO LARGE FOR LOGGING]"
	JSONTooManySensitiveMsg = "[JSON CONTAINS TOO MANY SENSITIVE FIELDS]"
)

// defaultRedactionPatterns contains regex patterns for redacting sensitive
// data in logs
var defaultRedactionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"password"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"secret"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"key"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"token"\s*:\s*"[^"]*"`),
	regexp.MustCompile(`"auth"\s*:\s*"[^"]*"`),
}

// Client represents a connection to a NetBox REST API instance
//
// The client is a thin request/response pass-through: it attaches the
// authentication token, enforces timeouts and size limits, and returns
// responses as raw JSON. It implements no retries, caching, or batching;
// upstream failures propagate to the caller as-is.
type Client struct {
	// BaseURL is the NetBox base URL without the /api/ suffix
	BaseURL string

	// apiURL is BaseURL + "/api/"
	apiURL string

	// token is the static bearer token (unexported for security)
	token string

	// Insecure disables TLS certificate verification
	Insecure bool

	// Timeout configuration
	RequestTimeout time.Duration
	StatusTimeout  time.Duration

	// MaxResponseSize limits accepted response body sizes in bytes
	MaxResponseSize int64

	// httpClient is the underlying HTTP transport
	httpClient *http.Client

	// Logging configuration
	logger            Logger
	prettyPrintLogs   bool
	redactionPatterns []*regexp.Regexp
}

// NewClient creates a new NetBox API client with the specified base URL,
// authentication token, and options
//
// The base URL is the NetBox root (e.g. "https://netbox.example.com"); the
// /api/ prefix is appended internally. No network call is issued during
// construction.
//
// Example:
//
//	client, err := netbox.NewClient(
//	    "https://netbox.example.com",
//	    os.Getenv("NETBOX_TOKEN"),
//	    netbox.Insecure(false),
//	    netbox.RequestTimeout(30*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)  // Configuration error
//	}
//
// Returns a configured Client or an error if configuration validation fails.
func NewClient(baseURL string, token string, mods ...func(*Client)) (*Client, error) {
	client := &Client{
		BaseURL:           strings.TrimRight(baseURL, "/"),
		token:             token,
		RequestTimeout:    DefaultRequestTimeout,
		StatusTimeout:     DefaultStatusTimeout,
		MaxResponseSize:   DefaultMaxResponseSize,
		logger:            &NoOpLogger{},
		prettyPrintLogs:   DefaultPrettyPrintLogs,
		redactionPatterns: defaultRedactionPatterns,
	}

	// Apply functional options
	for _, mod := range mods {
		mod(client)
	}

	if err := client.validateConfig(); err != nil {
		return nil, err
	}

	client.apiURL = client.BaseURL + "/api/"

	transport := &http.Transport{}
	if client.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // Explicit operator opt-in
		client.logger.Warn(context.Background(), "TLS certificate verification disabled",
			"url", client.BaseURL,
			"recommendation", "use only in testing environments")
	}
	client.httpClient = &http.Client{Transport: transport}

	if client.token == "" {
		client.logger.Warn(context.Background(), "no API token configured",
			"url", client.BaseURL,
			"message", "authenticated endpoints will reject requests")
	}

	client.logger.Info(context.Background(), "NetBox client created",
		"url", client.BaseURL)

	return client, nil
}

// validateConfig validates client configuration before use
//
// Validates:
//   - Base URL is non-empty, parseable, and uses http or https
//   - Positive timeouts (RequestTimeout, StatusTimeout > 0)
//   - Positive response size limit
//
// Returns an error if validation fails.
func (c *Client) validateConfig() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL scheme must be http or https, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL has no host: %s", c.BaseURL)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got: %v", c.RequestTimeout)
	}
	if c.StatusTimeout <= 0 {
		return fmt.Errorf("status timeout must be positive, got: %v", c.StatusTimeout)
	}
	if c.MaxResponseSize <= 0 {
		return fmt.Errorf("max response size must be positive, got: %d", c.MaxResponseSize)
	}

	return nil
}

// validatePath validates an API-relative path
//
// Checks:
//   - Path is not empty and does not exceed MaxPathLength
//   - Path is relative (no leading "/", no scheme)
//   - Path does not contain null bytes or traversal patterns
//
// Returns an error if the path is invalid with a descriptive message.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if len(path) > MaxPathLength {
		return fmt.Errorf("path exceeds maximum length of %d characters", MaxPathLength)
	}
	if strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must be relative to /api/, got: %s", path)
	}
	if strings.Contains(path, "://") {
		return fmt.Errorf("path must not contain a URL scheme: %s", path)
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("path contains null byte")
	}
	if strings.Contains(path, "../") {
		return fmt.Errorf("path contains traversal pattern: %s", path)
	}
	return nil
}

// Get performs a GET request against an API-relative path
//
// Query filters are supplied via the Query request modifier; the filter keys
// are defined by the upstream API and passed through unvalidated.
//
// Example:
//
//	res, err := client.Get(ctx, "dcim/devices/",
//	    netbox.Query("site", "fra1"),
//	    netbox.Query("status", "active"))
func (c *Client) Get(ctx context.Context, path string, mods ...func(*Req)) (Res, error) {
	return c.do(ctx, http.MethodGet, path, "", mods...)
}

// Post performs a POST request with a JSON body against an API-relative path
func (c *Client) Post(ctx context.Context, path string, body string, mods ...func(*Req)) (Res, error) {
	return c.do(ctx, http.MethodPost, path, body, mods...)
}

// Patch performs a PATCH request with a JSON body against an API-relative path
func (c *Client) Patch(ctx context.Context, path string, body string, mods ...func(*Req)) (Res, error) {
	return c.do(ctx, http.MethodPatch, path, body, mods...)
}

// Delete performs a DELETE request against an API-relative path
//
// An optional JSON body may be supplied for bulk deletion, which NetBox
// models as DELETE on the list endpoint with a sequence of {"id": n} items.
func (c *Client) Delete(ctx context.Context, path string, body string, mods ...func(*Req)) (Res, error) {
	return c.do(ctx, http.MethodDelete, path, body, mods...)
}

// Introspect performs an OPTIONS request against an API-relative path,
// returning the per-action field schema NetBox exposes for the endpoint
//
// The response includes an "actions" object keyed by HTTP method, each
// holding field metadata with "read_only" flags. Used by capability
// detection; see DetectCapabilities.
func (c *Client) Introspect(ctx context.Context, path string, mods ...func(*Req)) (Res, error) {
	return c.do(ctx, http.MethodOptions, path, "", mods...)
}

// do executes a single HTTP request and returns the response.
//
// Validation happens before any network I/O. There is no retry logic: a
// transport failure or non-2xx status is returned to the caller, who owns
// retry policy. The context timeout follows priority:
//  1. Request-specific timeout (via Timeout modifier)
//  2. Context deadline (if already set)
//  3. Client.RequestTimeout (fallback default)
func (c *Client) do(ctx context.Context, method, path, body string, mods ...func(*Req)) (Res, error) {
	if err := validatePath(path); err != nil {
		return Res{}, fmt.Errorf("%s %s: %w", method, path, err)
	}

	req := &Req{Query: url.Values{}}
	for _, mod := range mods {
		mod(req)
	}

	switch {
	case req.Timeout > 0:
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	default:
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.RequestTimeout)
			defer cancel()
		}
	}

	u := c.apiURL + path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return Res{}, fmt.Errorf("%s %s: creating request: %w", method, path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Token "+c.token)
	}

	c.logger.Debug(ctx, "NetBox API request",
		"method", method,
		"path", path,
		"query", req.Query.Encode(),
		"body", c.prepareJSONForLogging(body))

	httpRes, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error(ctx, "NetBox API request failed",
			"method", method,
			"path", path,
			"error", err.Error())
		return Res{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer httpRes.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpRes.Body, c.MaxResponseSize+1))
	if err != nil {
		return Res{}, fmt.Errorf("%s %s: reading response: %w", method, path, err)
	}
	if int64(len(data)) > c.MaxResponseSize {
		return Res{}, fmt.Errorf("%s %s: response exceeds maximum size of %d bytes", method, path, c.MaxResponseSize)
	}

	res := Res{StatusCode: httpRes.StatusCode, body: string(data)}

	c.logger.Debug(ctx, "NetBox API response",
		"method", method,
		"path", path,
		"status", httpRes.StatusCode,
		"body", c.prepareJSONForLogging(res.body))

	if httpRes.StatusCode < 200 || httpRes.StatusCode >= 300 {
		return res, &APIError{
			Method:     method,
			Path:       path,
			StatusCode: httpRes.StatusCode,
			Body:       truncateBody(res.body),
		}
	}

	return res, nil
}

// prepareJSONForLogging redacts sensitive data and formats JSON for logging
//
// This method performs security checks and data sanitization:
//  1. Validates JSON size to prevent ReDoS attacks (max 1MB)
//  2. Checks sensitive field count to prevent DoS (max 1000 fields)
//  3. Redacts sensitive data (passwords, secrets, keys, tokens)
//  4. Pretty-prints JSON if prettyPrintLogs is enabled
//
// Returns the processed JSON string safe for logging.
func (c *Client) prepareJSONForLogging(jsonStr string) string {
	if jsonStr == "" {
		return ""
	}
	if len(jsonStr) > MaxJSONSizeForLogging {
		return JSONTooLargeMessage
	}

	// Count sensitive fields before processing to prevent excessive regex
	// operations on malicious input
	sensitiveCount := strings.Count(jsonStr, `"password"`) +
		strings.Count(jsonStr, `"secret"`) +
		strings.Count(jsonStr, `"key"`) +
		strings.Count(jsonStr, `"token"`) +
		strings.Count(jsonStr, `"auth"`)

	if sensitiveCount > MaxSensitiveFields {
		c.logger.Warn(context.Background(), "too many sensitive fields detected",
			"count", sensitiveCount,
			"max", MaxSensitiveFields)
		return JSONTooManySensitiveMsg
	}

	redacted := c.redactSensitiveData(jsonStr)

	if c.prettyPrintLogs {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(redacted), "", "  "); err == nil {
			return buf.String()
		}
		// Fallback: if indent fails (e.g. non-JSON body), return redacted as-is
	}

	return redacted
}

// redactSensitiveData replaces sensitive data in JSON with [REDACTED]
//
// Redacts common sensitive fields in JSON content:
//   - "password", "secret", "key", "token", "auth"
//
// Handles flexible whitespace around colons (RFC 8259 compliant).
//
// Returns the redacted JSON string.
func (c *Client) redactSensitiveData(jsonStr string) string {
	replacements := []string{
		`"password":"[REDACTED]"`,
		`"secret":"[REDACTED]"`,
		`"key":"[REDACTED]"`,
		`"token":"[REDACTED]"`,
		`"auth":"[REDACTED]"`,
	}

	result := jsonStr
	for i, pattern := range c.redactionPatterns {
		result = pattern.ReplaceAllString(result, replacements[i])
	}

	return result
}

// truncateBody truncates a response body for error messages
func truncateBody(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrorBodyLength {
		return s
	}
	return s[:maxErrorBodyLength] + "..."
}
