package asr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// tokenTTL bounds how long a fetched token is reused before a fresh fetch
// is required. The service boundary does not advertise an expiry, so this
// is a conservative client-side cache window.
const tokenTTL = 4 * time.Minute

// CachedTokenSource fetches and caches auth tokens for the streaming
// endpoint. The most recent token is reused opportunistically; a cache
// miss triggers a synchronous fetch.
type CachedTokenSource struct {
	baseURL string
	client  *http.Client

	mu        sync.Mutex
	token     string
	fetchedAt time.Time
}

// NewCachedTokenSource constructs a token source against baseURL's
// "/api/ws-token" endpoint.
func NewCachedTokenSource(baseURL string) *CachedTokenSource {
	return &CachedTokenSource{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// Token returns the cached token if it is still fresh, otherwise fetches
// a new one synchronously.
func (c *CachedTokenSource) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token != "" && time.Since(c.fetchedAt) < tokenTTL {
		token := c.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	token, err := c.fetch(ctx)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.token = token
	c.fetchedAt = time.Now()
	c.mu.Unlock()
	return token, nil
}

func (c *CachedTokenSource) fetch(ctx context.Context) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("token endpoint base URL is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/ws-token", nil)
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch auth token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if strings.TrimSpace(body.Token) == "" {
		return "", fmt.Errorf("token endpoint returned an empty token")
	}
	return body.Token, nil
}
