// Package metadata produces the storage metadata a media file is written with.
//
// Builders are specialised per backend. ProxyBuilder picks the right one for a
// media item by looking at the adapter behind its provider.
package metadata

import "github.com/indieinfra/scribble-media/media"

// Builder produces metadata key/value pairs for a file about to be stored.
type Builder interface {
	Get(m media.Media, filename string) map[string]any
}
