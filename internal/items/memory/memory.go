// Package memory holds the item collection in process. It backs tests and
// local development where no spreadsheet is reachable.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"saletrack/internal/core"
	"saletrack/internal/items"
)

var _ items.Store = (*Store)(nil)

type Store struct {
	mu     sync.Mutex
	nextID int
	items  []core.Item
}

func New(seed ...core.Item) *Store {
	s := &Store{nextID: 1}
	for _, it := range seed {
		if it.ID == "" {
			it.ID = s.assignID()
		}
		s.items = append(s.items, it)
	}
	return s
}

func (s *Store) assignID() string {
	id := fmt.Sprintf("mem-%d", s.nextID)
	s.nextID++
	return id
}

// List returns a copy of the collection in insertion order.
func (s *Store) List(_ context.Context) ([]core.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Create stores the item with a synthetic ID and a creation timestamp.
func (s *Store) Create(_ context.Context, it core.Item) (core.Item, error) {
	if err := it.Validate(); err != nil {
		return core.Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it.ID = s.assignID()
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now()
	}
	s.items = append(s.items, it)
	return it, nil
}

func (s *Store) Update(_ context.Context, id string, patch core.ItemPatch) (core.Item, error) {
	if err := patch.Validate(); err != nil {
		return core.Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id {
			s.items[i] = patch.Apply(it)
			return s.items[i], nil
		}
	}
	return core.Item{}, fmt.Errorf("item %s: %w", id, items.ErrNotFound)
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("item %s: %w", id, items.ErrNotFound)
}
