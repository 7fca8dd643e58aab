// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package netbox

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTestClient starts an httptest server and returns a client pointed at it.
// The server is closed automatically when the test finishes.
func newTestClient(t *testing.T, handler http.HandlerFunc, mods ...func(*Client)) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, "test-token", mods...)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

// TestNewClientValidation tests client configuration validation
func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name       string
		baseURL    string
		opts       []func(*Client)
		wantErrMsg string
	}{
		{
			name:       "empty base URL",
			baseURL:    "",
			wantErrMsg: "base URL cannot be empty",
		},
		{
			name:       "whitespace base URL",
			baseURL:    "   ",
			wantErrMsg: "base URL cannot be empty",
		},
		{
			name:       "unsupported scheme",
			baseURL:    "ftp://netbox.example.com",
			wantErrMsg: "base URL scheme must be http or https",
		},
		{
			name:       "missing host",
			baseURL:    "https://",
			wantErrMsg: "base URL has no host",
		},
		{
			name:       "negative request timeout",
			baseURL:    "https://netbox.example.com",
			opts:       []func(*Client){RequestTimeout(-1 * time.Second)},
			wantErrMsg: "request timeout must be positive",
		},
		{
			name:       "zero status timeout",
			baseURL:    "https://netbox.example.com",
			opts:       []func(*Client){StatusTimeout(0)},
			wantErrMsg: "status timeout must be positive",
		},
		{
			name:       "zero max response size",
			baseURL:    "https://netbox.example.com",
			opts:       []func(*Client){MaxResponseSize(0)},
			wantErrMsg: "max response size must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.baseURL, "token", tt.opts...)
			if err == nil {
				t.Fatal("NewClient should fail validation")
			}
			if !strings.Contains(err.Error(), tt.wantErrMsg) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErrMsg)
			}
		})
	}
}

// TestNewClientDefaults verifies default configuration values
func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient("https://netbox.example.com/", "token")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if client.BaseURL != "https://netbox.example.com" {
		t.Errorf("BaseURL = %q, trailing slash should be trimmed", client.BaseURL)
	}
	if client.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %v, want %v", client.RequestTimeout, DefaultRequestTimeout)
	}
	if client.StatusTimeout != DefaultStatusTimeout {
		t.Errorf("StatusTimeout = %v, want %v", client.StatusTimeout, DefaultStatusTimeout)
	}
	if client.MaxResponseSize != int64(DefaultMaxResponseSize) {
		t.Errorf("MaxResponseSize = %d, want %d", client.MaxResponseSize, DefaultMaxResponseSize)
	}
	if client.Insecure {
		t.Error("Insecure should default to false")
	}
}

// TestClientAuthHeader verifies the token is sent as a Token authorization
// header on API requests
func TestClientAuthHeader(t *testing.T) {
	var gotAuth, gotAccept string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{}`))
	})

	if _, err := client.Get(context.Background(), "dcim/devices/"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if gotAuth != "Token test-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Token test-token")
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
}

// TestClientRequestShape verifies method, URL and body of each verb
func TestClientRequestShape(t *testing.T) {
	type captured struct {
		method string
		path   string
		query  string
		body   string
	}

	var got captured
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = captured{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			body:   string(body),
		}
		w.Write([]byte(`{}`))
	})

	ctx := context.Background()

	t.Run("get with query", func(t *testing.T) {
		_, err := client.Get(ctx, "dcim/devices/",
			Query("site", "fra1"),
			Query("status", "active"))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.method != http.MethodGet {
			t.Errorf("method = %q, want GET", got.method)
		}
		if got.path != "/api/dcim/devices/" {
			t.Errorf("path = %q, want /api/dcim/devices/", got.path)
		}
		if got.query != "site=fra1&status=active" {
			t.Errorf("query = %q, want site=fra1&status=active", got.query)
		}
	})

	t.Run("post with body", func(t *testing.T) {
		_, err := client.Post(ctx, "dcim/sites/", `{"name":"dc-west"}`)
		if err != nil {
			t.Fatalf("Post failed: %v", err)
		}
		if got.method != http.MethodPost {
			t.Errorf("method = %q, want POST", got.method)
		}
		if got.body != `{"name":"dc-west"}` {
			t.Errorf("body = %q", got.body)
		}
	})

	t.Run("patch with body", func(t *testing.T) {
		_, err := client.Patch(ctx, "dcim/sites/1/", `{"status":"active"}`)
		if err != nil {
			t.Fatalf("Patch failed: %v", err)
		}
		if got.method != http.MethodPatch {
			t.Errorf("method = %q, want PATCH", got.method)
		}
	})

	t.Run("delete with bulk body", func(t *testing.T) {
		_, err := client.Delete(ctx, "dcim/sites/", `[{"id":1},{"id":2}]`)
		if err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if got.method != http.MethodDelete {
			t.Errorf("method = %q, want DELETE", got.method)
		}
		if got.body != `[{"id":1},{"id":2}]` {
			t.Errorf("body = %q", got.body)
		}
	})

	t.Run("introspect", func(t *testing.T) {
		_, err := client.Introspect(ctx, "dcim/interfaces/")
		if err != nil {
			t.Fatalf("Introspect failed: %v", err)
		}
		if got.method != http.MethodOptions {
			t.Errorf("method = %q, want OPTIONS", got.method)
		}
	})
}

// TestClientPathValidation verifies invalid paths are rejected before any
// network I/O
func TestClientPathValidation(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{}`))
	})

	tests := []struct {
		name       string
		path       string
		wantErrMsg string
	}{
		{"empty path", "", "path cannot be empty"},
		{"absolute path", "/dcim/devices/", "path must be relative"},
		{"embedded scheme", "https://evil.example.com/", "must not contain a URL scheme"},
		{"traversal", "../admin/", "traversal pattern"},
		{"null byte", "dcim/\x00devices/", "null byte"},
		{"oversized path", strings.Repeat("a", MaxPathLength+1), "exceeds maximum length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Get(context.Background(), tt.path)
			if err == nil {
				t.Fatal("Get should fail path validation")
			}
			if !strings.Contains(err.Error(), tt.wantErrMsg) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErrMsg)
			}
		})
	}

	if calls != 0 {
		t.Errorf("server received %d requests, path validation must happen before I/O", calls)
	}
}

// TestClientAPIError verifies non-2xx responses are surfaced as APIError
func TestClientAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Not found."}`))
	})

	res, err := client.Get(context.Background(), "dcim/devices/999/")
	if err == nil {
		t.Fatal("Get should fail on HTTP 404")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if !apiErr.IsNotFound() {
		t.Error("IsNotFound should be true for 404")
	}
	if apiErr.Method != http.MethodGet {
		t.Errorf("Method = %q, want GET", apiErr.Method)
	}
	if !strings.Contains(apiErr.Body, "Not found.") {
		t.Errorf("Body = %q, want response excerpt", apiErr.Body)
	}

	// The response body is still available alongside the error
	if res.GetValue("detail").String() != "Not found." {
		t.Errorf("response body should be readable despite the error")
	}
}

// TestClientAPIErrorBodyTruncated verifies long error bodies are truncated
func TestClientAPIErrorBodyTruncated(t *testing.T) {
	long := strings.Repeat("x", maxErrorBodyLength*2)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(long))
	})

	_, err := client.Get(context.Background(), "dcim/devices/")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if len(apiErr.Body) > maxErrorBodyLength+len("...") {
		t.Errorf("Body length = %d, should be truncated to %d", len(apiErr.Body), maxErrorBodyLength)
	}
	if !strings.HasSuffix(apiErr.Body, "...") {
		t.Error("truncated body should end with ellipsis")
	}
}

// TestClientMaxResponseSize verifies oversized responses are rejected
func TestClientMaxResponseSize(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":"` + strings.Repeat("x", 2048) + `"}`))
	}, MaxResponseSize(1024))

	_, err := client.Get(context.Background(), "dcim/devices/")
	if err == nil {
		t.Fatal("Get should fail on oversized response")
	}
	if !strings.Contains(err.Error(), "exceeds maximum size") {
		t.Errorf("error = %q, want size limit message", err.Error())
	}
}

// TestClientRequestTimeout verifies the Timeout modifier aborts slow requests
func TestClientRequestTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
		w.Write([]byte(`{}`))
	})

	start := time.Now()
	_, err := client.Get(context.Background(), "dcim/devices/", Timeout(50*time.Millisecond))
	if err == nil {
		t.Fatal("Get should fail on timeout")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("request took %v, timeout modifier not applied", elapsed)
	}
}

// TestClientNoTokenOmitsHeader verifies an empty token sends no
// Authorization header
func TestClientNoTokenOmitsHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, "")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if _, err := client.Get(context.Background(), "status/"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

// TestRedactSensitiveData verifies sensitive fields are redacted in debug
// logging
func TestRedactSensitiveData(t *testing.T) {
	client, err := NewClient("https://netbox.example.com", "token")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "token field",
			input: `{"token":"abc123"}`,
			want:  `{"token":"[REDACTED]"}`,
		},
		{
			name:  "password with whitespace",
			input: `{"password" : "hunter2"}`,
			want:  `{"password":"[REDACTED]"}`,
		},
		{
			name:  "plain fields untouched",
			input: `{"name":"edge-1"}`,
			want:  `{"name":"edge-1"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := client.redactSensitiveData(tt.input); got != tt.want {
				t.Errorf("redactSensitiveData(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestPrepareJSONForLogging verifies the size guards
func TestPrepareJSONForLogging(t *testing.T) {
	client, err := NewClient("https://netbox.example.com", "token")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	t.Run("empty passthrough", func(t *testing.T) {
		if got := client.prepareJSONForLogging(""); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})

	t.Run("oversized JSON", func(t *testing.T) {
		big := `{"data":"` + strings.Repeat("x", MaxJSONSizeForLogging) + `"}`
		if got := client.prepareJSONForLogging(big); got != JSONTooLargeMessage {
			t.Errorf("got %q, want %q", got, JSONTooLargeMessage)
		}
	})
}
