package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

// Client represents a Supabase (PostgREST) client authenticated with the
// service key
type Client struct {
	URL        string
	ServiceKey string
	HTTPClient *http.Client
}

// NewClient creates a new Supabase client
func NewClient(baseURL, serviceKey string) *Client {
	return &Client{
		URL:        baseURL,
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Error is a non-2xx response from PostgREST
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("supabase error (status %d): %s", e.StatusCode, e.Body)
}

// Query selects rows from table. Filters use PostgREST syntax, e.g.
// timestamp=gte.2026-01-01T00:00:00Z; a key may repeat.
func (c *Client) Query(ctx context.Context, table string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, table, query, nil)
}

// Insert inserts one record (or a slice of records) and returns the stored rows
func (c *Client) Insert(ctx context.Context, table string, data any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, table, nil, data)
}

// Update patches the record with the given id and returns the stored rows
func (c *Client) Update(ctx context.Context, table, id string, data any) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, table, idFilter(id), data)
}

// Delete removes the record with the given id and returns the deleted rows
func (c *Client) Delete(ctx context.Context, table, id string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, table, idFilter(id), nil)
}

func idFilter(id string) url.Values {
	return url.Values{"id": []string{"eq." + id}}
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, data any) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", "Bearer "+c.ServiceKey)
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, &Error{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}
