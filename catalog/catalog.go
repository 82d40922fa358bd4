// Package catalog persists records of stored media.
package catalog

import (
	"context"
	"errors"

	"github.com/indieinfra/scribble-media/media"
)

// ErrNotFound indicates that no media record exists for an ID.
var ErrNotFound = errors.New("media not found")

type Catalog interface {
	// Save stores a new media record. The item's ID must be set.
	Save(ctx context.Context, item *media.Item) error

	// Get returns the record for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*media.Item, error)

	// Delete removes the record for id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// ListByProvider returns every record stored through the named provider,
	// oldest first. The slice is never nil.
	ListByProvider(ctx context.Context, provider string) ([]*media.Item, error)
}
