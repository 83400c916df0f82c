// Package services orchestrates item operations across the remote store,
// the preference cache and the optional AMQP event stream.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"saletrack/internal/amqp"
	"saletrack/internal/core"
	"saletrack/internal/items"
	"saletrack/internal/prefs"
)

type ItemService struct {
	store      items.Store
	amqpClient *amqp.Client
	prefs      *prefs.Store
}

func NewItemService(store items.Store, amqpClient *amqp.Client, prefsStore *prefs.Store) *ItemService {
	return &ItemService{
		store:      store,
		amqpClient: amqpClient,
		prefs:      prefsStore,
	}
}

// List fetches the full collection and refreshes the cached detail-tag
// vocabulary as a side effect. The cache refresh is best effort; a failed
// write never fails the read.
func (s *ItemService) List(ctx context.Context) ([]core.Item, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	if s.prefs != nil {
		if err := s.prefs.RefreshDetailTags(all); err != nil {
			slog.WarnContext(ctx, "Failed to refresh detail tag cache", "error", err)
		}
	}

	return all, nil
}

// Create validates and stores a new item, then announces the change.
func (s *ItemService) Create(ctx context.Context, it core.Item) (core.Item, error) {
	if err := it.Validate(); err != nil {
		return core.Item{}, err
	}

	created, err := s.store.Create(ctx, it)
	if err != nil {
		return core.Item{}, fmt.Errorf("create item: %w", err)
	}

	s.publishChange(ctx, created.ID, amqp.OpCreated)
	return created, nil
}

// Update validates and applies a partial update, then announces the change.
func (s *ItemService) Update(ctx context.Context, id string, patch core.ItemPatch) (core.Item, error) {
	if err := patch.Validate(); err != nil {
		return core.Item{}, err
	}

	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return core.Item{}, fmt.Errorf("update item %s: %w", id, err)
	}

	s.publishChange(ctx, id, amqp.OpUpdated)
	return updated, nil
}

// Delete removes the item, then announces the change.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}

	s.publishChange(ctx, id, amqp.OpDeleted)
	return nil
}

// publishChange is nil-safe and never fails the caller; the store already
// holds the new state, the event is only a cache-refresh hint.
func (s *ItemService) publishChange(ctx context.Context, id string, op amqp.ChangeOp) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishItemChange(ctx, id, op); err != nil {
		slog.ErrorContext(ctx, "Failed to publish item change",
			"id", id, "op", op, "error", err)
	}
}

// Close releases the AMQP connection if one is held.
func (s *ItemService) Close() error {
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			return fmt.Errorf("close amqp: %w", err)
		}
	}
	return nil
}
