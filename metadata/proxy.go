package metadata

import (
	"github.com/indieinfra/scribble-media/media"
	"github.com/indieinfra/scribble-media/provider"
	"github.com/indieinfra/scribble-media/storage/adapter"
)

// Builder names reported to the selection observer.
const (
	SelectedNone  = "none"
	SelectedNoop  = "noop"
	SelectedCloud = "s3"
)

// ProxyBuilder delegates to the builder matching the adapter that backs a
// media item's provider. It holds no per-call state and is safe for
// concurrent use.
type ProxyBuilder struct {
	providers *provider.Pool
	noop      Builder
	cloud     Builder
	observe   func(selected string)
}

type ProxyOption func(*ProxyBuilder)

// WithSelectionObserver registers fn to be told which builder served each call.
func WithSelectionObserver(fn func(selected string)) ProxyOption {
	return func(p *ProxyBuilder) {
		p.observe = fn
	}
}

func NewProxyBuilder(providers *provider.Pool, noop, cloud Builder, opts ...ProxyOption) *ProxyBuilder {
	p := &ProxyBuilder{
		providers: providers,
		noop:      noop,
		cloud:     cloud,
		observe:   func(string) {},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Get returns the metadata for storing filename on m's provider. When m names
// a provider that is not registered, the result is empty and no builder runs.
func (p *ProxyBuilder) Get(m media.Media, filename string) map[string]any {
	prov, ok := p.providers.Get(m.ProviderName())
	if !ok {
		p.observe(SelectedNone)
		return map[string]any{}
	}

	switch adapter.Classify(prov.Filesystem().Adapter()) {
	case adapter.KindObjectStorage:
		p.observe(SelectedCloud)
		return p.cloud.Get(m, filename)
	default:
		p.observe(SelectedNoop)
		return p.noop.Get(m, filename)
	}
}
