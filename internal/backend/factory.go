// Package backend selects and constructs the item store named by
// configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"saletrack/internal/config"
	"saletrack/internal/items"
	"saletrack/internal/items/google"
	"saletrack/internal/items/memory"
	"saletrack/internal/items/sheetbest"
)

// BackendType represents the type of item store backend
type BackendType string

const (
	MemoryBackend    BackendType = "memory"
	SheetBestBackend BackendType = "sheetbest"
	SheetsBackend    BackendType = "sheets"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SheetBestBackend, SheetsBackend:
		return true
	default:
		return false
	}
}

// New builds the item store named by cfg.DataBackend.
func New(ctx context.Context, cfg *config.Config) (items.Store, error) {
	bt := BackendType(cfg.DataBackend)
	if !bt.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch bt {
	case SheetBestBackend:
		slog.Info("Initialized sheet.best backend", "url", cfg.SheetBestURL)
		return sheetbest.New(cfg.SheetBestURL, nil), nil

	case SheetsBackend:
		cli, err := google.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize Google Sheets client: %w", err)
		}
		slog.Info("Initialized Google Sheets backend",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
		return cli, nil

	default:
		slog.Info("Initialized memory backend")
		return memory.New(), nil
	}
}
