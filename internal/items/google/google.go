// Package google reads and writes the item collection directly through the
// Google Sheets API, bypassing the sheet.best proxy. Rows live on a single
// sheet with columns A:H = id, owner, detail, price, status, game,
// createdAt, createdBy; row 1 is the header.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"saletrack/internal/core"
	"saletrack/internal/items"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Ensure interface conformance
var _ items.Store = (*Client)(nil)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID. Credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS. GOOGLE_SHEET_NAME defaults to "Items".
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Items"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service using service account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// List reads every data row from the items sheet.
func (c *Client) List(ctx context.Context) ([]core.Item, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A2:H", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	out := make([]core.Item, 0, len(resp.Values))
	for _, row := range resp.Values {
		cols := toStrings(row)
		if isBlankRow(cols) {
			continue
		}
		out = append(out, itemFromRow(cols))
	}
	return out, nil
}

// Create appends the item as a new row, assigning a timestamp-based ID.
func (c *Client) Create(ctx context.Context, it core.Item) (core.Item, error) {
	if err := it.Validate(); err != nil {
		return core.Item{}, fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return core.Item{}, errors.New("sheets service not initialized")
	}

	it.ID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now()
	}

	rng := fmt.Sprintf("%s!A:H", c.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{rowFromItem(it)}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return core.Item{}, fmt.Errorf("append row to %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Item appended to sheet",
		"id", it.ID,
		"owner", it.Owner,
		"sheet", c.sheetName)

	return it, nil
}

// Update rewrites the row whose id column matches.
func (c *Client) Update(ctx context.Context, id string, patch core.ItemPatch) (core.Item, error) {
	if err := patch.Validate(); err != nil {
		return core.Item{}, fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return core.Item{}, errors.New("sheets service not initialized")
	}

	rowNum, current, err := c.findRow(ctx, id)
	if err != nil {
		return core.Item{}, err
	}

	updated := patch.Apply(current)
	rng := fmt.Sprintf("%s!A%d:H%d", c.sheetName, rowNum, rowNum)
	vr := &gsheet.ValueRange{Values: [][]any{rowFromItem(updated)}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return core.Item{}, fmt.Errorf("update row %d in %s: %w", rowNum, c.sheetName, err)
	}

	return updated, nil
}

// Delete removes the matching row with a DeleteDimension batch request so
// the sheet stays compact.
func (c *Client) Delete(ctx context.Context, id string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rowNum, _, err := c.findRow(ctx, id)
	if err != nil {
		return err
	}

	sheetID, err := c.sheetID(ctx)
	if err != nil {
		return err
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowNum - 1), // zero-based, end exclusive
					EndIndex:   int64(rowNum),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d in %s: %w", rowNum, c.sheetName, err)
	}
	return nil
}

// findRow scans the sheet for the row whose first cell equals id and
// returns its 1-based row number together with the current item.
func (c *Client) findRow(ctx context.Context, id string) (int, core.Item, error) {
	rng := fmt.Sprintf("%s!A2:H", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, core.Item{}, fmt.Errorf("read %s: %w", rng, err)
	}
	for i, row := range resp.Values {
		cols := toStrings(row)
		if len(cols) > 0 && cols[0] == id {
			return i + 2, itemFromRow(cols), nil
		}
	}
	return 0, core.Item{}, fmt.Errorf("item %s in %s: %w", id, c.sheetName, items.ErrNotFound)
}

// sheetID resolves the numeric sheet ID for the configured sheet name.
func (c *Client) sheetID(ctx context.Context) (int64, error) {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read spreadsheet metadata: %w", err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == c.sheetName {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found", c.sheetName)
}

func rowFromItem(it core.Item) []any {
	createdAt := ""
	if !it.CreatedAt.IsZero() {
		createdAt = it.CreatedAt.Format(time.RFC3339)
	}
	return []any{
		it.ID,
		string(it.Owner),
		it.Detail,
		it.Price,
		string(it.Status),
		string(it.Game),
		createdAt,
		it.CreatedBy,
	}
}

func itemFromRow(cols []string) core.Item {
	return core.Item{
		ID:        safeGet(cols, 0),
		Owner:     core.Owner(safeGet(cols, 1)),
		Detail:    safeGet(cols, 2),
		Price:     core.ParsePrice(safeGet(cols, 3)),
		Status:    core.Status(safeGet(cols, 4)),
		Game:      core.Game(safeGet(cols, 5)),
		CreatedAt: parseTimestamp(safeGet(cols, 6)),
		CreatedBy: safeGet(cols, 7),
	}
}

// timestampLayouts lists the cell formats that show up once humans edit
// the sheet by hand.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

func isBlankRow(cols []string) bool {
	for _, c := range cols {
		if c != "" {
			return false
		}
	}
	return true
}
