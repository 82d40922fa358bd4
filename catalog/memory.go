package catalog

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/indieinfra/scribble-media/media"
)

// MemoryCatalog keeps records in process memory.
type MemoryCatalog struct {
	mu    sync.RWMutex
	items map[string]media.Item
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{items: map[string]media.Item{}}
}

func (mc *MemoryCatalog) Save(ctx context.Context, item *media.Item) error {
	if item == nil || item.ID == "" {
		return fmt.Errorf("media item requires an id")
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.items[item.ID]; exists {
		return fmt.Errorf("media %q already exists", item.ID)
	}

	mc.items[item.ID] = cloneItem(*item)
	return nil
}

func (mc *MemoryCatalog) Get(ctx context.Context, id string) (*media.Item, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	item, ok := mc.items[id]
	if !ok {
		return nil, ErrNotFound
	}

	item = cloneItem(item)
	return &item, nil
}

func (mc *MemoryCatalog) Delete(ctx context.Context, id string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, ok := mc.items[id]; !ok {
		return ErrNotFound
	}

	delete(mc.items, id)
	return nil
}

func (mc *MemoryCatalog) ListByProvider(ctx context.Context, provider string) ([]*media.Item, error) {
	mc.mu.RLock()
	out := []*media.Item{}
	for _, item := range mc.items {
		if item.Provider == provider {
			item := cloneItem(item)
			out = append(out, &item)
		}
	}
	mc.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

// cloneItem copies the metadata of item so stored records never share maps
// with callers.
func cloneItem(item media.Item) media.Item {
	if item.Metadata == nil {
		return item
	}

	md := make(map[string]any, len(item.Metadata))
	for k, v := range item.Metadata {
		switch nested := v.(type) {
		case map[string]string:
			md[k] = maps.Clone(nested)
		case map[string]any:
			md[k] = maps.Clone(nested)
		default:
			md[k] = v
		}
	}
	item.Metadata = md
	return item
}
