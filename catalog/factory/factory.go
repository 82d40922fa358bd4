package factory

import (
	"fmt"
	"sync"

	"github.com/indieinfra/scribble-media/catalog"
	"github.com/indieinfra/scribble-media/config"
)

// Factory builds a catalog for the provided catalog config.
type Factory func(*config.Catalog) (catalog.Catalog, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register adds or replaces a catalog factory for the given strategy name.
func Register(strategy string, factory Factory) {
	mu.Lock()
	registry[strategy] = factory
	mu.Unlock()
}

// Get retrieves a factory for the given strategy.
func Get(strategy string) (Factory, bool) {
	mu.RLock()
	f, ok := registry[strategy]
	mu.RUnlock()
	return f, ok
}

// Create builds a catalog using the registered factory for the configured strategy.
func Create(cfg *config.Catalog) (catalog.Catalog, error) {
	f, ok := Get(cfg.Strategy)
	if !ok {
		return nil, fmt.Errorf("unknown catalog strategy %q", cfg.Strategy)
	}
	return f(cfg)
}

func init() {
	Register("noop", func(cfg *config.Catalog) (catalog.Catalog, error) {
		return catalog.NoopCatalog{}, nil
	})
	Register("memory", func(cfg *config.Catalog) (catalog.Catalog, error) {
		return catalog.NewMemoryCatalog(), nil
	})
	Register("sql", func(cfg *config.Catalog) (catalog.Catalog, error) {
		return catalog.NewSQLCatalog(cfg.SQL)
	})
}
