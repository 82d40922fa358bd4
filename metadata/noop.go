package metadata

import "github.com/indieinfra/scribble-media/media"

// NoopBuilder is used for backends that cannot store metadata.
type NoopBuilder struct{}

func (NoopBuilder) Get(m media.Media, filename string) map[string]any {
	return map[string]any{}
}
