package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/iiifsearch/internal/media"
)

// RemoteStore fetches documents from a document service over HTTP.
type RemoteStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
	backoff    func(attempt int) time.Duration
}

func NewRemoteStore(baseURL, apiKey string, timeout time.Duration, log *slog.Logger) *RemoteStore {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RemoteStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:     log,
		backoff: Backoff,
	}
}

// Document fetches GET /documents/{id}.
func (c *RemoteStore) Document(ctx context.Context, id int64) (*media.Document, error) {
	body, err := c.get(ctx, "/documents/"+strconv.FormatInt(id, 10))
	if err != nil {
		return nil, fmt.Errorf("document %d: %w", id, err)
	}

	var m Manifest
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("decode manifest %d: %w", id, err)
	}
	if m.ID == 0 {
		m.ID = id
	}
	return m.Document(), nil
}

// Open fetches the media content. The body is buffered so retries stay simple.
func (c *RemoteStore) Open(ctx context.Context, doc *media.Document, m *media.Media) (io.ReadCloser, error) {
	data, err := c.ReadFile(ctx, doc, m)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// ReadFile fetches GET /documents/{id}/files/{filename}.
func (c *RemoteStore) ReadFile(ctx context.Context, doc *media.Document, m *media.Media) ([]byte, error) {
	path := fmt.Sprintf("/documents/%d/files/%s", doc.ID, url.PathEscape(m.Filename))
	data, err := c.get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("media %d: %w", m.ID, err)
	}
	return data, nil
}

func (c *RemoteStore) get(ctx context.Context, path string) ([]byte, error) {
	var lastErr error
	for attempt := range MaxRetries {
		body, err := c.getOnce(ctx, path)
		if err == nil || !IsRetryable(err) {
			return body, err
		}
		lastErr = err
		if attempt == MaxRetries-1 {
			break
		}
		c.log.Warn("retryable store error", "path", path, "attempt", attempt, "error", err)
		select {
		case <-time.After(c.backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (c *RemoteStore) getOnce(ctx context.Context, path string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{Op: "get " + path, Status: resp.StatusCode, Body: string(respBody)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Close releases idle connections.
func (c *RemoteStore) Close() {
	c.httpClient.CloseIdleConnections()
}
