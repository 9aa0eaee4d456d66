package syncapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var (
	ErrNotFound    = errors.New("sync collection not found")
	ErrRateLimited = errors.New("sync rate limited")
)

// RateLimitError содержит паузу, которую рекомендует сервис.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// PullResponse описывает ответ сервиса синхронизации по одной коллекции.
type PullResponse struct {
	Collection string           `json:"collection"`
	Items      []map[string]any `json:"items"`
	Cursor     string           `json:"cursor,omitempty"`
}

// SyncClient интерфейс получения изменений коллекции с удалённого сервиса.
type SyncClient interface {
	PullCollection(ctx context.Context, collection, since string) (*PullResponse, error)
}

type HTTPSyncClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPSyncClient создаёт HTTP-клиент.
func NewHTTPSyncClient(baseURL string, timeout time.Duration) *HTTPSyncClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPSyncClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// PullCollection получает изменения коллекции начиная с курсора since.
func (c *HTTPSyncClient) PullCollection(ctx context.Context, collection, since string) (*PullResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid sync base url: %w", err)
	}
	u.Path = fmt.Sprintf("%s/api/sync/%s", u.Path, collection)
	if since != "" {
		q := u.Query()
		q.Set("since", since)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var payload PullResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode sync response: %w", err)
		}
		return &payload, nil
	case http.StatusNoContent:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, RateLimitError{RetryAfter: retryAfter}
	case http.StatusInternalServerError:
		return nil, fmt.Errorf("sync service error 500")
	default:
		return nil, fmt.Errorf("unexpected sync status: %d", resp.StatusCode)
	}
}

func parseRetryAfter(val string) time.Duration {
	if val == "" {
		return 5 * time.Second
	}
	// support seconds value
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	// try http-date
	if t, err := http.ParseTime(val); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
