// Package worker keeps the persisted detail-tag vocabulary in sync with
// the remote item collection.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"saletrack/internal/amqp"
	"saletrack/internal/items"
	"saletrack/internal/prefs"
)

// RefreshWorker refetches the collection and rewrites the cached tag set,
// either when an item-change event arrives or on a periodic tick.
type RefreshWorker struct {
	lister items.Lister
	prefs  *prefs.Store
}

func NewRefreshWorker(lister items.Lister, prefsStore *prefs.Store) *RefreshWorker {
	return &RefreshWorker{
		lister: lister,
		prefs:  prefsStore,
	}
}

// HandleChangeMessage reacts to a single item-change event. The message
// only signals that something changed; the refresh always rereads the
// whole collection.
func (w *RefreshWorker) HandleChangeMessage(ctx context.Context, msg *amqp.ItemChangeMessage) error {
	slog.InfoContext(ctx, "Processing item change",
		"id", msg.ID,
		"op", msg.Op)
	return w.Refresh(ctx)
}

// Refresh refetches all items and stores the derived tag vocabulary.
func (w *RefreshWorker) Refresh(ctx context.Context) error {
	all, err := w.lister.List(ctx)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}
	if err := w.prefs.RefreshDetailTags(all); err != nil {
		return fmt.Errorf("store detail tags: %w", err)
	}
	slog.InfoContext(ctx, "Detail tag cache refreshed", "items", len(all))
	return nil
}

// RunPeriodic refreshes on the given interval until the context ends.
// Individual refresh failures are logged and retried on the next tick.
func (w *RefreshWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Refresh(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic refresh failed", "error", err)
			}
		}
	}
}
