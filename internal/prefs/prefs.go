// Package prefs persists user-facing state that survives restarts: the
// current filter selection and the cached detail-tag vocabulary. It only
// needs a key-value slot per blob, so the backing store is injected.
package prefs

import (
	"encoding/json"
	"log/slog"
	"sync"

	"saletrack/internal/core"
)

// Storage keys. One logical slot each.
const (
	DetailTagsKey = "available_details"
	CriteriaKey   = "app_filters"
)

// KV is the minimal key-value surface the adapter needs. Implementations
// are single-client; no coordination between concurrent writers is
// expected or provided.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// SaveDetailTags persists the tag vocabulary.
func (s *Store) SaveDetailTags(tags []string) error {
	return s.save(DetailTagsKey, tags)
}

// LoadDetailTags returns the cached vocabulary, or nil if nothing usable
// is stored. Malformed blobs are logged and treated as absent.
func (s *Store) LoadDetailTags() []string {
	var tags []string
	if !s.load(DetailTagsKey, &tags) {
		return nil
	}
	return tags
}

// RefreshDetailTags derives the vocabulary from the item collection and
// stores it in one step.
func (s *Store) RefreshDetailTags(items []core.Item) error {
	return s.SaveDetailTags(core.ExtractDetailTags(items))
}

// SaveCriteria persists the current filter selection, dates included.
func (s *Store) SaveCriteria(c core.Criteria) error {
	return s.save(CriteriaKey, c)
}

// LoadCriteria returns the stored selection with its date range
// reconstituted, or nil when nothing valid is stored.
func (s *Store) LoadCriteria() *core.Criteria {
	var c core.Criteria
	if !s.load(CriteriaKey, &c) {
		return nil
	}
	return &c
}

func (s *Store) save(key string, v any) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.kv.Set(key, blob)
}

func (s *Store) load(key string, out any) bool {
	blob, ok, err := s.kv.Get(key)
	if err != nil {
		slog.Warn("Failed reading preference", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(blob, out); err != nil {
		slog.Warn("Discarding malformed preference blob", "key", key, "error", err)
		return false
	}
	return true
}

// MapKV is an in-process KV used in tests and as a last-resort fallback
// when no database path is configured.
type MapKV struct {
	mu sync.Mutex
	m  map[string][]byte
}

func NewMapKV() *MapKV {
	return &MapKV{m: map[string][]byte{}}
}

func (kv *MapKV) Get(key string) ([]byte, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.m[key]
	return v, ok, nil
}

func (kv *MapKV) Set(key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.m[key] = append([]byte(nil), value...)
	return nil
}
