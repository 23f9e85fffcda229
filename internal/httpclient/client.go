package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/oukeidos/wordlens/internal/apperrors"
)

const (
	// DefaultTimeout bounds any single request made with the shared client.
	// Provider calls also carry their own, shorter context deadlines.
	DefaultTimeout = 30 * time.Second
	// MaxResponseBytes caps HTTP response bodies. Speech audio is the largest payload.
	MaxResponseBytes = 4 * 1024 * 1024
	// UserAgent is sent by providers that reject the Go default agent.
	UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	// Transport tuning for stable, long-lived connections.
	MaxIdleConns          = 64
	MaxIdleConnsPerHost   = 8
	IdleConnTimeout       = 90 * time.Second
	TLSHandshakeTimeout   = 10 * time.Second
	ExpectContinueTimeout = 1 * time.Second
)

var (
	defaultClient     *http.Client
	defaultClientOnce sync.Once
	overrideMu        sync.RWMutex
	overrideClient    *http.Client
)

// NewClient returns a new http.Client with the specified timeout.
func NewClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          MaxIdleConns,
		MaxIdleConnsPerHost:   MaxIdleConnsPerHost,
		IdleConnTimeout:       IdleConnTimeout,
		TLSHandshakeTimeout:   TLSHandshakeTimeout,
		ExpectContinueTimeout: ExpectContinueTimeout,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// GetDefaultClient returns the client shared by every provider.
func GetDefaultClient() *http.Client {
	overrideMu.RLock()
	override := overrideClient
	overrideMu.RUnlock()
	if override != nil {
		return override
	}
	defaultClientOnce.Do(func() {
		defaultClient = NewClient(DefaultTimeout)
	})
	return defaultClient
}

// SetDefaultClientForTesting overrides the singleton client for tests.
// It returns a restore function to reset the previous client.
func SetDefaultClientForTesting(client *http.Client) func() {
	overrideMu.Lock()
	prevOverride := overrideClient
	overrideClient = client
	overrideMu.Unlock()
	return func() {
		overrideMu.Lock()
		overrideClient = prevOverride
		overrideMu.Unlock()
	}
}

// DoAndRead performs an HTTP request, reads the entire response body,
// ensures the body is closed, and returns the body content and the response object.
func DoAndRead(client *http.Client, req *http.Request) ([]byte, *http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.ContentLength > MaxResponseBytes {
		return nil, resp, fmt.Errorf("response body too large (limit %d bytes)", MaxResponseBytes)
	}

	limited := &io.LimitedReader{R: resp.Body, N: MaxResponseBytes + 1}
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, resp, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > MaxResponseBytes {
		return nil, resp, fmt.Errorf("response body too large (limit %d bytes)", MaxResponseBytes)
	}

	return body, resp, nil
}

// Get issues a GET with the given headers and returns the body of a 2xx response.
// Transport failures are transient; non-2xx statuses are classified by code.
func Get(ctx context.Context, client *http.Client, service, url string, header http.Header) ([]byte, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, apperrors.BadRequest(fmt.Errorf("%s: build request: %w", service, err))
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return do(client, req, service)
}

// PostJSON marshals payload, POSTs it and returns the body of a 2xx response.
func PostJSON(ctx context.Context, client *http.Client, service, url string, payload any) ([]byte, *http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, apperrors.BadRequest(fmt.Errorf("%s: marshal request: %w", service, err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, nil, apperrors.BadRequest(fmt.Errorf("%s: build request: %w", service, err))
	}
	req.Header.Set("Content-Type", "application/json")
	return do(client, req, service)
}

func do(client *http.Client, req *http.Request, service string) ([]byte, *http.Response, error) {
	if client == nil {
		client = GetDefaultClient()
	}
	body, resp, err := DoAndRead(client, req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, resp, apperrors.New(apperrors.KindTransient, fmt.Sprintf("%s request cancelled or timed out.", service), ctxErr)
		}
		return nil, resp, apperrors.New(apperrors.KindTransient, fmt.Sprintf("%s is unreachable.", service), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, resp, apperrors.FromStatus(service, resp.StatusCode, fmt.Errorf("%s: unexpected status %s", service, resp.Status))
	}
	return body, resp, nil
}
