package factory

import (
	"fmt"
	"sync"

	"github.com/indieinfra/scribble-media/config"
	"github.com/indieinfra/scribble-media/storage/adapter"
)

// Factory builds an adapter for the provided adapter config.
type Factory func(*config.Adapter) (adapter.Adapter, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register adds or replaces an adapter factory for the given strategy name.
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

// Create builds an adapter using the registered factory for the configured strategy.
func Create(cfg *config.Adapter) (adapter.Adapter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("adapter config is nil")
	}

	if f, ok := Get(cfg.Strategy); ok {
		return f(cfg)
	}

	return nil, fmt.Errorf("unknown adapter strategy %q", cfg.Strategy)
}

func init() {
	Register("local", func(cfg *config.Adapter) (adapter.Adapter, error) {
		return adapter.NewLocal(cfg.Local)
	})
	Register("s3", func(cfg *config.Adapter) (adapter.Adapter, error) {
		return adapter.NewS3(cfg.S3)
	})
	Register("replicate", func(cfg *config.Adapter) (adapter.Adapter, error) {
		if cfg.Replicate == nil {
			return nil, fmt.Errorf("replicate adapter config is nil")
		}

		primary, err := Create(&cfg.Replicate.Primary)
		if err != nil {
			return nil, fmt.Errorf("replicate primary: %w", err)
		}

		secondary, err := Create(&cfg.Replicate.Secondary)
		if err != nil {
			return nil, fmt.Errorf("replicate secondary: %w", err)
		}

		return adapter.NewReplicate(primary, secondary)
	})
}
