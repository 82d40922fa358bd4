package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/indieinfra/scribble-media/storage/adapter"
)

// Filesystem is the storage handle a provider writes through.
type Filesystem struct {
	adapter adapter.Adapter
}

func NewFilesystem(a adapter.Adapter) (*Filesystem, error) {
	if a == nil {
		return nil, fmt.Errorf("filesystem requires an adapter")
	}

	return &Filesystem{adapter: a}, nil
}

func (fs *Filesystem) Adapter() adapter.Adapter {
	return fs.adapter
}

func (fs *Filesystem) Write(ctx context.Context, key string, r io.Reader, size int64, metadata map[string]any) error {
	return fs.adapter.Write(ctx, key, r, size, metadata)
}

func (fs *Filesystem) Delete(ctx context.Context, key string) error {
	return fs.adapter.Delete(ctx, key)
}

func (fs *Filesystem) Exists(ctx context.Context, key string) (bool, error) {
	return fs.adapter.Exists(ctx, key)
}

func (fs *Filesystem) URL(key string) string {
	return fs.adapter.URL(key)
}
