// Package postgrest implements store.Client against a Supabase REST endpoint.
package postgrest

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

	"github.com/ivy-monitoring/supplier-api/internal/store"
)

const restPath = "/rest/v1/"

// Client wraps interactions with the PostgREST API exposed by Supabase.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a client for the project at baseURL authenticated with apiKey.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Select returns every row of table, or only those matching filter.
func (c *Client) Select(ctx context.Context, table string, filter *store.Filter) ([]store.Row, error) {
	q := url.Values{}
	q.Set("select", "*")
	if filter != nil {
		q.Set(filter.Column, eq(filter.Value))
	}
	return c.do(ctx, store.OpSelect, http.MethodGet, table, q, nil)
}

// Insert creates one row and returns the stored representation.
func (c *Client) Insert(ctx context.Context, table string, values store.Row) ([]store.Row, error) {
	if values == nil {
		values = store.Row{}
	}
	return c.do(ctx, store.OpInsert, http.MethodPost, table, nil, values)
}

// Update patches the rows matching filter.
func (c *Client) Update(ctx context.Context, table string, values store.Row, filter store.Filter) ([]store.Row, error) {
	if values == nil {
		values = store.Row{}
	}
	q := url.Values{}
	q.Set(filter.Column, eq(filter.Value))
	return c.do(ctx, store.OpUpdate, http.MethodPatch, table, q, values)
}

// Delete removes the rows matching filter.
func (c *Client) Delete(ctx context.Context, table string, filter store.Filter) ([]store.Row, error) {
	q := url.Values{}
	q.Set(filter.Column, eq(filter.Value))
	return c.do(ctx, store.OpDelete, http.MethodDelete, table, q, nil)
}

func (c *Client) do(ctx context.Context, op store.Op, method, table string, query url.Values, payload any) ([]store.Row, error) {
	endpoint := c.baseURL + restPath + url.PathEscape(table)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, &store.Error{Op: op, Table: table, Message: "encode payload", Err: err}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, &store.Error{Op: op, Table: table, Message: "build request", Err: err}
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if op != store.OpSelect {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &store.Error{Op: op, Table: table, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &store.Error{Op: op, Table: table, Status: resp.StatusCode, Message: "read response", Err: err}
	}
	if resp.StatusCode >= 400 {
		return nil, decodeError(op, table, resp.StatusCode, raw)
	}
	return decodeRows(op, table, resp.StatusCode, raw)
}

// apiError is the error envelope PostgREST returns.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func decodeError(op store.Op, table string, status int, raw []byte) error {
	e := &store.Error{Op: op, Table: table, Status: status}
	var payload apiError
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		e.Code = payload.Code
		e.Message = payload.Message
		if payload.Details != "" {
			e.Message += ": " + payload.Details
		}
		return e
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		text = http.StatusText(status)
	}
	e.Message = fmt.Sprintf("unexpected status %d: %s", status, text)
	return e
}

func decodeRows(op store.Op, table string, status int, raw []byte) ([]store.Row, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []store.Row{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	switch first := firstToken(raw); first {
	case '[':
		var rows []store.Row
		if err := dec.Decode(&rows); err != nil {
			return nil, &store.Error{Op: op, Table: table, Status: status, Message: "malformed response", Err: err}
		}
		if rows == nil {
			rows = []store.Row{}
		}
		return rows, nil
	case '{':
		var row store.Row
		if err := dec.Decode(&row); err != nil {
			return nil, &store.Error{Op: op, Table: table, Status: status, Message: "malformed response", Err: err}
		}
		return []store.Row{row}, nil
	default:
		return nil, &store.Error{Op: op, Table: table, Status: status, Message: "malformed response", Err: errors.New("expected JSON array or object")}
	}
}

func firstToken(raw []byte) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func eq(v any) string {
	return "eq." + fmt.Sprint(v)
}
