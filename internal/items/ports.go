// Package items defines the ports every item store backend implements.
package items

import (
	"context"
	"errors"

	"saletrack/internal/core"
)

// ErrNotFound marks update/delete targets that no backend row matches.
var ErrNotFound = errors.New("item not found")

type (
	// Lister fetches the full item collection. A failed fetch surfaces as
	// an error so callers can tell it apart from a genuinely empty sheet.
	Lister interface {
		List(ctx context.Context) ([]core.Item, error)
	}

	// Writer creates a new record and returns it with its assigned ID.
	Writer interface {
		Create(ctx context.Context, it core.Item) (core.Item, error)
	}

	// Updater applies a partial update and returns the updated record.
	Updater interface {
		Update(ctx context.Context, id string, patch core.ItemPatch) (core.Item, error)
	}

	// Deleter removes a record by ID.
	Deleter interface {
		Delete(ctx context.Context, id string) error
	}

	// Store is the full CRUD surface of an item backend.
	Store interface {
		Lister
		Writer
		Updater
		Deleter
	}
)
