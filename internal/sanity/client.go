// Package sanity is a thin client for the Sanity content-repository HTTP API:
// point reads, GROQ queries and single-document patches.
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("sanity: document not found")

type Config struct {
	ProjectID  string
	Dataset    string
	Token      string
	APIVersion string
	UseCDN     bool
	Timeout    time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	dataset    string
	token      string
}

func NewClient(cfg Config) *Client {
	host := "api.sanity.io"
	if cfg.UseCDN {
		host = "apicdn.sanity.io"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    fmt.Sprintf("https://%s.%s/v%s", cfg.ProjectID, host, cfg.APIVersion),
		dataset:    cfg.Dataset,
		token:      cfg.Token,
	}
}

// Document is a raw Sanity document.
type Document map[string]interface{}

// String returns the document's top-level string field, or "" when the field
// is absent or not a string.
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Nested returns a top-level object field as a Document.
func (d Document) Nested(key string) Document {
	m, _ := d[key].(map[string]interface{})
	return Document(m)
}

// GetDocument reads one document by id. The read is always live, never from
// a webhook payload snapshot.
func (c *Client) GetDocument(ctx context.Context, id string) (Document, error) {
	endpoint := fmt.Sprintf("%s/data/doc/%s/%s", c.baseURL, c.dataset, url.PathEscape(id))

	var result struct {
		Documents []Document `json:"documents"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}
	if len(result.Documents) == 0 {
		return nil, ErrNotFound
	}
	return result.Documents[0], nil
}

// Query runs a GROQ query with optional params and returns the raw result.
func (c *Client) Query(ctx context.Context, groq string, params map[string]interface{}) (json.RawMessage, error) {
	values := url.Values{"query": {groq}}
	for name, val := range params {
		encoded, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("sanity: encode query param %q: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}
	endpoint := fmt.Sprintf("%s/data/query/%s?%s", c.baseURL, c.dataset, values.Encode())

	var result struct {
		Result json.RawMessage `json:"result"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}
	return result.Result, nil
}

// PatchDocument applies a single set/unset patch mutation to one document.
func (c *Client) PatchDocument(ctx context.Context, id string, set map[string]interface{}, unset []string) error {
	patch := map[string]interface{}{"id": id}
	if len(set) > 0 {
		patch["set"] = set
	}
	if len(unset) > 0 {
		patch["unset"] = unset
	}
	body := map[string]interface{}{
		"mutations": []map[string]interface{}{{"patch": patch}},
	}

	endpoint := fmt.Sprintf("%s/data/mutate/%s", c.baseURL, c.dataset)
	return c.do(ctx, http.MethodPost, endpoint, body, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("sanity: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("sanity: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sanity: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sanity: %s returned %d: %s", method, resp.StatusCode, snippet)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("sanity: decode response: %w", err)
		}
	}
	return nil
}
