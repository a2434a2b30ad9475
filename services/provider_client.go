package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"insurance-lead-api/config"
)

// ErrNoCredentials is returned by Submit when no API token is configured.
// The pipeline surfaces it as a credential configuration error.
var ErrNoCredentials = errors.New("provider credentials not configured")

const maxLoggedBodyLen = 1024

// ProviderResponse is the raw result of one provider call.
type ProviderResponse struct {
	StatusCode int
	Body       []byte
}

// ProviderClient performs outbound calls against the Pineapple API. One
// instance is built at startup and shared by all pipeline invocations; the
// underlying transport's connection pool is safe for concurrent use.
type ProviderClient struct {
	cfg       *config.ProviderConfig
	client    *http.Client
	authToken string
	degraded  bool
}

// NewProviderHTTPClient builds the shared HTTP client for provider calls:
// bounded dial timeout, bounded overall request timeout.
func NewProviderHTTPClient(cfg *config.ProviderConfig) *http.Client {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	return &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: cfg.ConnectTimeout,
		},
	}
}

// NewProviderClient constructs a ProviderClient. A nil http client gets a
// default built from the config.
func NewProviderClient(cfg *config.ProviderConfig, client *http.Client) *ProviderClient {
	if client == nil {
		client = NewProviderHTTPClient(cfg)
	}

	token, conformant := FormatProviderToken(cfg.APIToken, cfg.APISecret)
	if token != "" && !conformant {
		log.Printf("Warning: provider token lacks KEY=/SECRET= markers and no secret is configured; calls will use the raw token")
	}

	return &ProviderClient{
		cfg:       cfg,
		client:    client,
		authToken: token,
		degraded:  token != "" && !conformant,
	}
}

// AuthDegraded reports whether the client is running with a token that does
// not match the provider's documented format.
func (c *ProviderClient) AuthDegraded() bool { return c.degraded }

// Submit POSTs the payload to the given provider endpoint and returns the
// raw response. The payload is marshalled once up front, so all field
// values (dates included) are serialized before the request body exists.
// Connection failures are retried once; timeouts and HTTP-level failures
// are not, those are business outcomes for the classifier.
func (c *ProviderClient) Submit(ctx context.Context, endpoint string, payload interface{}) (*ProviderResponse, error) {
	if c.authToken == "" {
		return nil, ErrNoCredentials
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal provider payload: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + endpoint

	log.Printf("provider request: POST %s authorization=%s body=%s",
		url, maskAuthorization(c.authToken), truncateBody(body, maxLoggedBodyLen))

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("build provider request: %w", err)
		}
		req.Header.Set("Authorization", c.authToken)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		started := time.Now()
		resp, err := c.client.Do(req)
		duration := time.Since(started)

		if err != nil {
			lastErr = err
			if !retryableTransportError(err) {
				log.Printf("provider request failed: POST %s after %s: %v", url, duration, err)
				return nil, err
			}
			log.Printf("provider connection failed (attempt %d): POST %s: %v", attempt+1, url, err)
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			log.Printf("provider response unreadable: POST %s status=%d: %v", url, resp.StatusCode, readErr)
			return nil, fmt.Errorf("read provider response: %w", readErr)
		}

		log.Printf("provider response: POST %s status=%d duration=%s body=%s",
			url, resp.StatusCode, duration, truncateBody(respBody, maxLoggedBodyLen))

		return &ProviderResponse{StatusCode: resp.StatusCode, Body: respBody}, nil
	}

	return nil, lastErr
}

// retryableTransportError reports whether the error is a connection-level
// failure worth one retry: dial/socket errors such as connection refused or
// reset. Timeouts, cancelled contexts and protocol-level errors are not
// retried.
func retryableTransportError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if isTimeoutError(err) {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}

// maskAuthorization hides the credential value in log output, keeping only
// the scheme so operators can confirm the header was present.
func maskAuthorization(token string) string {
	if token == "" {
		return "(none)"
	}
	if scheme, _, ok := strings.Cut(token, " "); ok {
		return scheme + " ********"
	}
	return "********"
}
