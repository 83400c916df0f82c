// Package sheetbest talks to a sheet.best style spreadsheet REST API.
// The remote collection is a plain sheet exposed as JSON rows: GET lists
// everything, POST appends, PATCH/DELETE address rows by the id column.
package sheetbest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"saletrack/internal/core"
	"saletrack/internal/items"
)

// Ensure interface conformance
var _ items.Store = (*Client)(nil)

type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given sheet endpoint. A nil httpClient
// falls back to a default with a 15s overall timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// row is the wire shape of one sheet row. Everything arrives as loosely
// typed cells; price in particular may be a JSON number or a string.
type row struct {
	ID        string          `json:"id,omitempty"`
	Owner     string          `json:"owner,omitempty"`
	Detail    string          `json:"detail,omitempty"`
	Price     json.RawMessage `json:"price,omitempty"`
	Status    string          `json:"status,omitempty"`
	Game      string          `json:"game,omitempty"`
	CreatedAt string          `json:"createdAt,omitempty"`
	CreatedBy string          `json:"createdBy,omitempty"`
}

func (r row) toItem() core.Item {
	return core.Item{
		ID:        r.ID,
		Owner:     core.Owner(r.Owner),
		Detail:    r.Detail,
		Price:     decodePrice(r.Price),
		Status:    core.Status(r.Status),
		Game:      core.Game(r.Game),
		CreatedAt: parseCreatedAt(r.CreatedAt),
		CreatedBy: r.CreatedBy,
	}
}

func rowFromItem(it core.Item) row {
	r := row{
		ID:        it.ID,
		Owner:     string(it.Owner),
		Detail:    it.Detail,
		Price:     json.RawMessage(fmt.Sprintf("%g", it.Price)),
		Status:    string(it.Status),
		Game:      string(it.Game),
		CreatedBy: it.CreatedBy,
	}
	if !it.CreatedAt.IsZero() {
		r.CreatedAt = it.CreatedAt.Format(time.RFC3339)
	}
	return r
}

// List fetches the whole collection, normalizing prices on the way in.
func (c *Client) List(ctx context.Context) ([]core.Item, error) {
	body, err := c.do(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	var rows []row
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode item list: %w", err)
	}

	out := make([]core.Item, len(rows))
	for i, r := range rows {
		out[i] = r.toItem()
	}
	return out, nil
}

// Create appends a new row. sheet.best answers with the inserted rows as
// an array; some deployments return a single object, so both are accepted.
func (c *Client) Create(ctx context.Context, it core.Item) (core.Item, error) {
	it.ID = ""
	payload, err := json.Marshal(rowFromItem(it))
	if err != nil {
		return core.Item{}, fmt.Errorf("encode item: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, c.baseURL, payload)
	if err != nil {
		return core.Item{}, fmt.Errorf("create item: %w", err)
	}

	r, err := decodeSingleRow(body)
	if err != nil {
		return core.Item{}, fmt.Errorf("decode create response: %w", err)
	}
	return r.toItem(), nil
}

// Update PATCHes the row addressed by the id column.
func (c *Client) Update(ctx context.Context, id string, patch core.ItemPatch) (core.Item, error) {
	payload, err := json.Marshal(patchPayload(patch))
	if err != nil {
		return core.Item{}, fmt.Errorf("encode patch: %w", err)
	}

	body, err := c.do(ctx, http.MethodPatch, c.baseURL+"/id/"+id, payload)
	if err != nil {
		return core.Item{}, fmt.Errorf("update item %s: %w", id, err)
	}

	r, err := decodeSingleRow(body)
	if err != nil {
		return core.Item{}, fmt.Errorf("decode update response: %w", err)
	}
	if r.ID == "" {
		r.ID = id
	}
	return r.toItem(), nil
}

// Delete removes the row addressed by the id column.
func (c *Client) Delete(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, c.baseURL+"/id/"+id, nil); err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

// decodeSingleRow accepts either a bare row object or a one-element array.
func decodeSingleRow(body []byte) (row, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []row
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return row{}, err
		}
		if len(rows) == 0 {
			return row{}, fmt.Errorf("empty row array")
		}
		return rows[0], nil
	}
	var r row
	if err := json.Unmarshal(trimmed, &r); err != nil {
		return row{}, err
	}
	return r, nil
}

// patchPayload keeps only the fields the patch actually sets, so untouched
// sheet cells stay as they are.
func patchPayload(p core.ItemPatch) map[string]any {
	out := map[string]any{}
	if p.Owner != nil {
		out["owner"] = string(*p.Owner)
	}
	if p.Detail != nil {
		out["detail"] = *p.Detail
	}
	if p.Price != nil {
		out["price"] = *p.Price
	}
	if p.Status != nil {
		out["status"] = string(*p.Status)
	}
	if p.Game != nil {
		out["game"] = string(*p.Game)
	}
	return out
}

func decodePrice(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case string:
		return core.ParsePrice(t)
	default:
		return 0
	}
}

// createdAtLayouts lists the timestamp shapes seen in the sheet. Cells are
// free text, so several formats coexist.
var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseCreatedAt(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
