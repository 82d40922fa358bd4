// Package manager runs the media upload pipeline: key generation, metadata,
// storage and cataloguing.
package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/indieinfra/scribble-media/catalog"
	"github.com/indieinfra/scribble-media/media"
	"github.com/indieinfra/scribble-media/metadata"
	"github.com/indieinfra/scribble-media/metrics"
	"github.com/indieinfra/scribble-media/provider"
	storageutil "github.com/indieinfra/scribble-media/storage/util"
)

// ErrUnknownProvider is returned when a request names a provider that is not
// registered.
var ErrUnknownProvider = errors.New("unknown media provider")

// Metrics label for requests naming a provider that is not registered.
const unknownProviderLabel = "unknown"

const maxKeyAttempts = 5

type Manager struct {
	providers *provider.Pool
	builder   metadata.Builder
	catalog   catalog.Catalog
	pattern   *storageutil.PathPattern
	metrics   *metrics.Registry
	now       func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

type Option func(*Manager)

func WithPathPattern(pattern string) Option {
	return func(m *Manager) {
		if pattern != "" {
			m.pattern = storageutil.NewPathPattern(pattern)
		}
	}
}

func WithMetrics(reg *metrics.Registry) Option {
	return func(m *Manager) {
		m.metrics = reg
	}
}

func New(providers *provider.Pool, builder metadata.Builder, cat catalog.Catalog, opts ...Option) *Manager {
	m := &Manager{
		providers: providers,
		builder:   builder,
		catalog:   cat,
		pattern:   storageutil.DefaultMediaPattern(),
		now:       time.Now,
		inflight:  map[string]struct{}{},
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Upload stores r through the named provider and records the result.
func (m *Manager) Upload(ctx context.Context, providerName, filename, contentType string, r io.Reader, size int64) (*media.Item, error) {
	item, err := m.upload(ctx, providerName, filename, contentType, r, size)
	if m.metrics != nil {
		label := providerName
		if errors.Is(err, ErrUnknownProvider) {
			label = unknownProviderLabel
		}
		m.metrics.ObserveUpload(label, err)
	}
	return item, err
}

func (m *Manager) upload(ctx context.Context, providerName, filename, contentType string, r io.Reader, size int64) (*media.Item, error) {
	prov, ok := m.providers.Get(providerName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, providerName)
	}

	now := m.now().UTC()
	fs := prov.Filesystem()

	key, err := m.generateKey(ctx, prov, filename, contentType, now)
	if err != nil {
		return nil, err
	}
	defer m.release(prov.Name(), key)

	item := &media.Item{
		ID:          uuid.New().String(),
		Provider:    prov.Name(),
		Name:        filename,
		ContentType: contentType,
		Size:        size,
		Key:         key,
		CreatedAt:   now,
	}

	md := m.builder.Get(item, key)

	if err := fs.Write(ctx, key, r, size, md); err != nil {
		return nil, fmt.Errorf("failed to store %q: %w", key, err)
	}

	item.URL = fs.URL(key)
	item.Metadata = md

	if err := m.catalog.Save(ctx, item); err != nil {
		if rmErr := fs.Delete(context.WithoutCancel(ctx), key); rmErr != nil {
			log.Printf("failed to remove %q after catalog error: %v", key, rmErr)
		}
		return nil, fmt.Errorf("failed to catalog %q: %w", key, err)
	}

	return item, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*media.Item, error) {
	return m.catalog.Get(ctx, id)
}

// Delete removes the stored file and then its catalog record.
func (m *Manager) Delete(ctx context.Context, id string) error {
	item, err := m.catalog.Get(ctx, id)
	if err != nil {
		return err
	}

	err = m.delete(ctx, item)
	if m.metrics != nil {
		m.metrics.ObserveDelete(item.Provider, err)
	}
	return err
}

func (m *Manager) delete(ctx context.Context, item *media.Item) error {
	prov, ok := m.providers.Get(item.Provider)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, item.Provider)
	}

	if err := prov.Filesystem().Delete(ctx, item.Key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", item.Key, err)
	}

	return m.catalog.Delete(ctx, item.ID)
}

func (m *Manager) List(ctx context.Context, providerName string) ([]*media.Item, error) {
	if !m.providers.Has(providerName) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, providerName)
	}

	return m.catalog.ListByProvider(ctx, providerName)
}

// generateKey derives a storage key from the client supplied filename. Names
// are slugified, missing extensions are taken from the content type, and a
// short suffix is added when the key is already stored or being uploaded. The
// returned key is reserved until release is called.
func (m *Manager) generateKey(ctx context.Context, prov *provider.Provider, filename, contentType string, now time.Time) (string, error) {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))

	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	ext = strings.ToLower(ext)

	if ext == "" && contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
				ext = exts[0]
			}
		}
	}

	base = slug.Make(base)
	if base == "" {
		base = uuid.New().String()
	}

	candidate := base
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%s", base, uuid.New().String()[:8])
		}

		key, err := m.pattern.Generate(candidate, now, ext)
		if err != nil {
			return "", fmt.Errorf("failed to generate key: %w", err)
		}

		if !m.reserve(prov.Name(), key) {
			continue
		}

		exists, err := prov.Filesystem().Exists(ctx, key)
		if err != nil {
			m.release(prov.Name(), key)
			return "", err
		}

		if !exists {
			return key, nil
		}

		m.release(prov.Name(), key)
	}

	return "", fmt.Errorf("no free key for %q after %d attempts", filename, maxKeyAttempts)
}

func (m *Manager) reserve(providerName, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := providerName + "\x00" + key
	if _, taken := m.inflight[id]; taken {
		return false
	}

	m.inflight[id] = struct{}{}
	return true
}

func (m *Manager) release(providerName, key string) {
	m.mu.Lock()
	delete(m.inflight, providerName+"\x00"+key)
	m.mu.Unlock()
}

// Providers lists the registered provider names.
func (m *Manager) Providers() []string {
	return m.providers.Names()
}
