// Package client reads from a running rentapp server.
package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/evcraddock/rentapp/internal/bus"
	"github.com/evcraddock/rentapp/internal/catalog"
)

// Client is an HTTP client for the rentapp read API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	streamHTTP *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		streamHTTP: &http.Client{},
	}
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health", nil)
}

// ListProperties returns the server's catalog, newest first.
func (c *Client) ListProperties(ctx context.Context) ([]catalog.DisplayProperty, error) {
	var props []catalog.DisplayProperty
	if err := c.get(ctx, "/api/properties", &props); err != nil {
		return nil, err
	}
	return props, nil
}

// GetProperty returns one catalog entry.
func (c *Client) GetProperty(ctx context.Context, id string) (catalog.DisplayProperty, error) {
	var p catalog.DisplayProperty
	if err := c.get(ctx, "/api/properties/"+url.PathEscape(id), &p); err != nil {
		return catalog.DisplayProperty{}, err
	}
	return p, nil
}

// Events calls fn for every event the server streams until ctx is done or
// the server closes the stream. Cancellation is not an error.
func (c *Client) Events(ctx context.Context, fn func(bus.Event)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/events", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamHTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer closeBody(resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("server error: %s", http.StatusText(resp.StatusCode))
	}

	err = readEvents(resp.Body, fn)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// readEvents parses a text/event-stream body. Only data lines are decoded;
// the event name is repeated inside the payload.
func readEvents(r io.Reader, fn func(bus.Event)) error {
	scanner := bufio.NewScanner(r)
	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if data.Len() == 0 {
				continue
			}
			var e bus.Event
			if err := json.Unmarshal([]byte(data.String()), &e); err != nil {
				slog.Warn("skipping malformed event", "error", err)
			} else {
				fn(e)
			}
			data.Reset()
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("reading events: %w", err)
	}
	return nil
}

// get performs a GET request and decodes the JSON response into result.
func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer closeBody(resp.Body)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("server error: %s", http.StatusText(resp.StatusCode))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

func closeBody(body io.Closer) {
	if err := body.Close(); err != nil {
		slog.Warn("closing response body", "error", err)
	}
}
