// Package airtable provides a minimal Airtable records API client.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.airtable.com/v0"
	defaultTimeout = 10 * time.Second
)

// ErrRecordNotFound is returned when a record ID does not resolve.
var ErrRecordNotFound = errors.New("airtable record not found")

// Record is a single Airtable row.
type Record struct {
	ID     string                     `json:"id"`
	Fields map[string]json.RawMessage `json:"fields"`
}

// StringField decodes a string-typed cell, returning "" when the cell
// is absent or not a string.
func (r *Record) StringField(name string) string {
	raw, ok := r.Fields[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Client handles Airtable HTTP API calls for one base.
type Client struct {
	BaseURL string
	APIKey  string
	BaseID  string
	Client  *http.Client
}

// NewClient constructs a client with defaults applied.
func NewClient(apiKey, baseID string) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		APIKey:  strings.TrimSpace(apiKey),
		BaseID:  strings.TrimSpace(baseID),
		Client:  &http.Client{Timeout: defaultTimeout},
	}
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// ListRecords fetches every record in a table, following pagination.
func (c *Client) ListRecords(ctx context.Context, table string) ([]Record, error) {
	base, err := c.tableURL(table)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0)
	offset := ""
	for {
		reqURL := base
		if offset != "" {
			reqURL = base + "?offset=" + url.QueryEscape(offset)
		}

		body, err := c.do(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}

		var page listResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode list response: %w", err)
		}
		records = append(records, page.Records...)

		if page.Offset == "" {
			return records, nil
		}
		offset = page.Offset
	}
}

// GetRecord fetches a single record by ID.
// Returns ErrRecordNotFound when the ID does not resolve.
func (c *Client) GetRecord(ctx context.Context, table, id string) (*Record, error) {
	base, err := c.tableURL(table)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, ErrRecordNotFound
	}

	body, err := c.do(ctx, http.MethodGet, base+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var record Record
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("decode record response: %w", err)
	}
	return &record, nil
}

// CreateRecord inserts a row with the given cell values.
func (c *Client) CreateRecord(ctx context.Context, table string, fields map[string]any) error {
	base, err := c.tableURL(table)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return fmt.Errorf("encode record payload: %w", err)
	}

	if _, err := c.do(ctx, http.MethodPost, base, payload); err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, reqURL string, payload []byte) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("call airtable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read airtable response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrRecordNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("airtable status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func (c *Client) tableURL(table string) (string, error) {
	if c == nil {
		return "", errors.New("airtable client is nil")
	}
	if c.APIKey == "" {
		return "", errors.New("airtable api key is empty")
	}
	if c.BaseID == "" {
		return "", errors.New("airtable base id is empty")
	}
	if strings.TrimSpace(table) == "" {
		return "", errors.New("airtable table is empty")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return baseURL + "/" + url.PathEscape(c.BaseID) + "/" + url.PathEscape(table), nil
}

func (c *Client) httpClient() *http.Client {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: defaultTimeout}
	}
	return c.Client
}
