// Package provider binds media categories to the filesystem their files are
// written to, and resolves them by name.
package provider

import (
	"fmt"
	"sort"
	"sync"

	"github.com/indieinfra/scribble-media/config"
	"github.com/indieinfra/scribble-media/storage"
	"github.com/indieinfra/scribble-media/storage/adapter/factory"
)

// Provider is a named binding between a media category and its filesystem.
type Provider struct {
	name       string
	filesystem *storage.Filesystem
}

func New(name string, fs *storage.Filesystem) (*Provider, error) {
	if name == "" {
		return nil, fmt.Errorf("provider name is required")
	}
	if fs == nil {
		return nil, fmt.Errorf("provider %q requires a filesystem", name)
	}

	return &Provider{name: name, filesystem: fs}, nil
}

func (p *Provider) Name() string { return p.name }

func (p *Provider) Filesystem() *storage.Filesystem { return p.filesystem }

// Pool holds the registered providers. It is safe for concurrent use.
type Pool struct {
	mu        sync.RWMutex
	providers map[string]*Provider
}

func NewPool() *Pool {
	return &Pool{providers: map[string]*Provider{}}
}

// Register adds or replaces the provider under its own name.
func (pl *Pool) Register(p *Provider) {
	pl.mu.Lock()
	pl.providers[p.name] = p
	pl.mu.Unlock()
}

func (pl *Pool) Get(name string) (*Provider, bool) {
	pl.mu.RLock()
	p, ok := pl.providers[name]
	pl.mu.RUnlock()
	return p, ok
}

func (pl *Pool) Has(name string) bool {
	_, ok := pl.Get(name)
	return ok
}

// Names returns the registered provider names in sorted order.
func (pl *Pool) Names() []string {
	pl.mu.RLock()
	names := make([]string, 0, len(pl.providers))
	for name := range pl.providers {
		names = append(names, name)
	}
	pl.mu.RUnlock()

	sort.Strings(names)
	return names
}

// NewPoolFromConfig creates every configured provider and its adapters.
func NewPoolFromConfig(cfg *config.Media) (*Pool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("media config is nil")
	}

	pool := NewPool()
	for i := range cfg.Providers {
		pc := &cfg.Providers[i]

		a, err := factory.Create(&pc.Filesystem)
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", pc.Name, err)
		}

		fs, err := storage.NewFilesystem(a)
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", pc.Name, err)
		}

		p, err := New(pc.Name, fs)
		if err != nil {
			return nil, err
		}

		pool.Register(p)
	}

	return pool, nil
}
